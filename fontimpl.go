package galley

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tabSize is the width of '\t' in spaces.
const tabSize = 4

// fontImpl is one physical font face at one pixel size. It rasterizes
// glyphs on first use into the shared atlas and caches the result per rune.
// The public interface uses points for everything.
//
// fontImpl is safe for concurrent use: the glyph cache is behind a
// reader-writer lock (many concurrent reads, exclusive write on the
// first-seen rune), and the sized face — which keeps internal scratch
// buffers — is only touched while the write lock is held.
type fontImpl struct {
	name string

	// sfntFont is the parsed file, shared across sizes. Read-only.
	sfntFont *sfnt.Font

	// data is the raw font file, kept for alternate shaping backends.
	data []byte

	// face is the sized rasterizer. NOT safe for concurrent use.
	face font.Face

	scaleInPixels  int
	heightInPoints float32

	// yOffset moves every glyph down by this much (points), from FontTweak.
	yOffset float32

	pixelsPerPoint float32
	atlas          *TextureAtlas

	mu    sync.RWMutex
	cache map[rune]GlyphInfo
}

// newFontImpl creates a sized font. The atlas is injected, never reached
// through a global.
func newFontImpl(
	atlas *TextureAtlas,
	pixelsPerPoint float32,
	name string,
	sfntFont *sfnt.Font,
	data []byte,
	scaleInPixels int,
	yOffsetPoints float32,
) (*fontImpl, error) {
	if scaleInPixels <= 0 {
		scaleInPixels = 1
	}

	face, err := opentype.NewFace(sfntFont, &opentype.FaceOptions{
		Size:    float64(scaleInPixels),
		DPI:     72, // ppem == Size at 72 DPI
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}

	scale := pointScale{pixelsPerPoint}
	Logger().Debug("galley: sized font created",
		"font", name, "scale_in_pixels", scaleInPixels)

	return &fontImpl{
		name:           name,
		sfntFont:       sfntFont,
		data:           data,
		face:           face,
		scaleInPixels:  scaleInPixels,
		heightInPoints: float32(scaleInPixels) / pixelsPerPoint,
		yOffset:        scale.roundToPixel(yOffsetPoints),
		pixelsPerPoint: pixelsPerPoint,
		atlas:          atlas,
		cache:          make(map[rune]GlyphInfo),
	}, nil
}

// rowHeight is the line-spacing metric in points, fixed per fontImpl.
func (f *fontImpl) rowHeight() float32 {
	return f.heightInPoints
}

// hasGlyph reports whether the font file maps r to a real glyph.
func (f *fontImpl) hasGlyph(r rune) bool {
	idx, err := f.sfntFont.GlyphIndex(nil, r)
	return err == nil && idx != 0
}

// glyphInfo returns the cached info for r, rasterizing on first request.
// ok is false only if the font has no outline for r ('\n' included).
func (f *fontImpl) glyphInfo(r rune) (info GlyphInfo, ok bool) {
	f.mu.RLock()
	info, ok = f.cache[r]
	f.mu.RUnlock()
	if ok {
		return info, true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.glyphInfoLocked(r)
}

// glyphInfoLocked is the miss path. The glyph cache and the atlas are
// separate locks, so it re-checks the cache after the write lock is taken:
// whichever goroutine got here first has already rasterized, and writing
// again would double-allocate atlas space.
func (f *fontImpl) glyphInfoLocked(r rune) (GlyphInfo, bool) {
	if info, ok := f.cache[r]; ok {
		return info, true
	}

	if r == '\t' {
		if space, ok := f.glyphInfoLocked(' '); ok {
			info := GlyphInfo{AdvanceWidth: tabSize * space.AdvanceWidth}
			f.cache[r] = info
			return info, true
		}
	}

	idx, err := f.sfntFont.GlyphIndex(nil, r)
	if err != nil || idx == 0 {
		if invisibleChar(r) {
			info := GlyphInfo{}
			f.cache[r] = info
			return info, true
		}
		return GlyphInfo{}, false // unsupported character
	}

	info := f.allocateGlyph(r, GlyphID(idx))
	f.cache[r] = info
	return info, true
}

// allocateGlyph rasterizes r into the atlas and builds its GlyphInfo.
// Must be called with f.mu held for writing (it uses f.face).
func (f *fontImpl) allocateGlyph(r rune, id GlyphID) GlyphInfo {
	dot := fixed.Point26_6{} // origin on the baseline
	bounds, mask, maskPos, advance, ok := f.face.Glyph(dot, r)

	info := GlyphInfo{
		ID:           id,
		AdvanceWidth: fixedToF32(advance) / f.pixelsPerPoint,
	}
	if !ok {
		return info
	}

	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return info // no visible ink, e.g. space
	}

	x, y := f.atlas.Allocate(w, h, func(img *FontImage, x, y int) {
		drawCoverage(img, x, y, w, h, mask, maskPos)
	})

	offsetInPixels := vec2(float32(bounds.Min.X), float32(f.scaleInPixels)+float32(bounds.Min.Y))
	info.UvRect = UvRect{
		Offset: offsetInPixels.Div(f.pixelsPerPoint).Add(vec2(0, f.yOffset)),
		Size:   vec2(float32(w), float32(h)).Div(f.pixelsPerPoint),
		Min:    [2]uint16{uint16(x), uint16(y)},
		Max:    [2]uint16{uint16(x + w), uint16(y + h)},
	}
	return info
}

// drawCoverage copies the rasterizer's alpha mask into the atlas image.
func drawCoverage(img *FontImage, x, y, w, h int, mask image.Image, maskPos image.Point) {
	alpha, _ := mask.(*image.Alpha)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			var cov uint8
			if alpha != nil {
				cov = alpha.AlphaAt(maskPos.X+dx, maskPos.Y+dy).A
			} else {
				c := color.AlphaModel.Convert(mask.At(maskPos.X+dx, maskPos.Y+dy))
				cov = c.(color.Alpha).A
			}
			if cov > 0 {
				img.Set(x+dx, y+dy, cov)
			}
		}
	}
}

// pairKerning returns the kerning adjustment between two runes, in points.
// Zero when the font has no kern pair for them.
func (f *fontImpl) pairKerning(prev, next rune) float32 {
	f.mu.Lock()
	k := f.face.Kern(prev, next)
	f.mu.Unlock()
	return fixedToF32(k) / f.pixelsPerPoint
}

// invisibleChar reports zero-width Unicode format characters that should
// render as nothing rather than as the replacement glyph.
func invisibleChar(r rune) bool {
	return '​' <= r && r <= '⁯' // zero-width space .. nominal digit shapes
}

// fixedToF32 converts 26.6 fixed point to float32.
func fixedToF32(v fixed.Int26_6) float32 {
	return float32(v) / 64
}

// f32ToFixed converts float32 to 26.6 fixed point, rounding.
func f32ToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(float64(v) * 64))
}
