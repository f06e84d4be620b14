// Package galley turns UTF-8 strings plus style metadata into positioned,
// cached glyph geometry, once per rendered frame.
//
// The pipeline has four layers, leaves first:
//
//   - TextureAtlas: a monochrome coverage texture into which every font
//     packs its rasterized glyphs. Versioned so a renderer knows when to
//     re-upload.
//   - fontImpl: one physical font file at one pixel size. Rasterizes and
//     caches individual glyphs into the atlas, exposes advances and kerning.
//   - Font: an ordered fallback chain of physical fonts for one font family
//     and size. Resolves each rune to the first font that has it, with a
//     reserved replacement glyph, and shapes single rows of text.
//   - Fonts: the top-level manager. Memoizes whole layout results (Galley)
//     by a hash of the LayoutJob and evicts entries not re-requested since
//     the previous frame.
//
// # Example usage
//
//	fonts, err := galley.NewFonts(2.0, 4096, galley.DefaultFontDefinitions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Once per text fragment, every frame. Repeated identical jobs are free.
//	g, err := fonts.Layout("Hello, world!\nSecond line.",
//	    galley.Proportional(14), galley.ColorWhite, 200)
//
//	// Once per frame: upload atlas changes, then garbage-collect the cache.
//	if delta := fonts.ImageDelta(); delta != nil {
//	    uploadTexture(delta)
//	}
//	fonts.EndFrame()
//
// A Galley is immutable once returned; it is shared by pointer between the
// cache and all callers and is safe to read from any goroutine.
//
// # Shaping backends
//
// By default rows are shaped with per-rune advances plus pairwise kerning
// from the font's kern table. An opt-in HarfBuzz backend built on
// go-text/typesetting can be installed with Fonts.SetRowShaper for text
// that benefits from ligature-aware advances. Full bidirectional and
// complex-script shaping is out of scope.
package galley
