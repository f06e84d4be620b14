package galley

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// Names of the built-in fonts in DefaultFontDefinitions.
const (
	FontGoRegular = "go-regular"
	FontGoMono    = "go-mono"
	FontGoItalic  = "go-italic"
)

// FontTweak adjusts how one font file is sized and positioned relative to
// the rest, e.g. to make a symbol font line up with the text font it
// falls back from.
type FontTweak struct {
	// Scale multiplies the font size. 0 means 1 (no scaling).
	Scale float32

	// YOffsetPoints shifts the font's glyphs down (in points, before
	// pixels-per-point scaling).
	YOffsetPoints float32
}

// FontData is one font file, plus rendering tweaks.
type FontData struct {
	// Data is the contents of a .ttf, .otf, .ttc or .otc file.
	Data []byte

	// Index of the face to use when Data is a collection.
	Index int

	Tweak FontTweak
}

// FontDefinitions describes which fonts exist and how font families map
// onto ordered fallback chains of them.
type FontDefinitions struct {
	// FontData maps font names to their data.
	FontData map[string]*FontData

	// Families maps each family to the names of the fonts that implement
	// it, in fallback order: glyphs resolve to the first font that has
	// them.
	Families map[FontFamily][]string
}

// DefaultFontDefinitions uses the Go fonts that ship with the x/image
// module, so a Fonts works out of the box with no font files on disk.
func DefaultFontDefinitions() FontDefinitions {
	return FontDefinitions{
		FontData: map[string]*FontData{
			FontGoRegular: {Data: goregular.TTF},
			FontGoMono:    {Data: gomono.TTF},
			FontGoItalic:  {Data: goitalic.TTF},
		},
		Families: map[FontFamily][]string{
			FamilyProportional:    {FontGoRegular},
			FamilyMonospace:       {FontGoMono, FontGoRegular},
			NamedFamily("italic"): {FontGoItalic, FontGoRegular},
		},
	}
}

// parsedFont is a font file parsed once, shared by every size of it.
type parsedFont struct {
	sfnt  *sfnt.Font
	data  []byte
	tweak FontTweak
}

// fontImplCache creates and caches sized physical fonts. Parsing happens
// once per font file; rasterization state is per (size, font) pair.
type fontImplCache struct {
	atlas          *TextureAtlas
	pixelsPerPoint float32
	parsed         map[string]*parsedFont

	cache map[sizedFontKey]*fontImpl
}

type sizedFontKey struct {
	scaleInPixels uint32
	name          string
}

func newFontImplCache(atlas *TextureAtlas, pixelsPerPoint float32, fontData map[string]*FontData) (*fontImplCache, error) {
	parsed := make(map[string]*parsedFont, len(fontData))
	for name, fd := range fontData {
		if len(fd.Data) == 0 {
			return nil, fmt.Errorf("font %q: %w", name, ErrEmptyFontData)
		}
		collection, err := sfnt.ParseCollection(fd.Data)
		if err != nil {
			return nil, fmt.Errorf("parse font %q: %w", name, err)
		}
		f, err := collection.Font(fd.Index)
		if err != nil {
			return nil, fmt.Errorf("font %q: face index %d: %w", name, fd.Index, err)
		}
		parsed[name] = &parsedFont{sfnt: f, data: fd.Data, tweak: fd.Tweak}
	}
	return &fontImplCache{
		atlas:          atlas,
		pixelsPerPoint: pixelsPerPoint,
		parsed:         parsed,
		cache:          make(map[sizedFontKey]*fontImpl),
	}, nil
}

// scaleAsPixels converts a font size in points to whole physical pixels.
// Rounding to an integer pixel size keeps kerning and hinting consistent
// across a row.
func (c *fontImplCache) scaleAsPixels(scaleInPoints float32) uint32 {
	return uint32(math.Round(float64(c.pixelsPerPoint * scaleInPoints)))
}

func (c *fontImplCache) fontImpl(scaleInPixels uint32, name string) (*fontImpl, error) {
	pf, ok := c.parsed[name]
	if !ok {
		return nil, fmt.Errorf("no font data found for %q", name)
	}

	if pf.tweak.Scale > 0 {
		scaleInPixels = uint32(math.Round(float64(float32(scaleInPixels) * pf.tweak.Scale)))
	}

	key := sizedFontKey{scaleInPixels: scaleInPixels, name: name}
	if impl, ok := c.cache[key]; ok {
		return impl, nil
	}

	impl, err := newFontImpl(
		c.atlas,
		c.pixelsPerPoint,
		name,
		pf.sfnt,
		pf.data,
		int(scaleInPixels),
		pf.tweak.YOffsetPoints,
	)
	if err != nil {
		return nil, err
	}
	c.cache[key] = impl
	return impl, nil
}

// fontsImpl owns the atlas and every sized font. It is not safe for
// concurrent use on its own; Fonts serializes access.
type fontsImpl struct {
	pixelsPerPoint float32
	maxTextureSide int
	definitions    FontDefinitions
	atlas          *TextureAtlas
	implCache      *fontImplCache

	sizedFamily map[sizedFamilyKey]*Font
}

type sizedFamilyKey struct {
	scaleInPixels uint32
	family        FontFamily
}

func newFontsImpl(pixelsPerPoint float32, maxTextureSide int, definitions FontDefinitions) (*fontsImpl, error) {
	if !(pixelsPerPoint > 0 && pixelsPerPoint < 100) {
		return nil, fmt.Errorf("pixels per point out of range: %v", pixelsPerPoint)
	}

	// Big enough that reasonable amounts of text at common sizes never
	// overflow; the atlas grows in height on demand.
	textureWidth := maxTextureSide
	if textureWidth > 16*1024 {
		textureWidth = 16 * 1024
	}
	atlas := NewTextureAtlas(textureWidth, 128)

	implCache, err := newFontImplCache(atlas, pixelsPerPoint, definitions.FontData)
	if err != nil {
		return nil, err
	}

	return &fontsImpl{
		pixelsPerPoint: pixelsPerPoint,
		maxTextureSide: maxTextureSide,
		definitions:    definitions,
		atlas:          atlas,
		implCache:      implCache,
		sizedFamily:    make(map[sizedFamilyKey]*Font),
	}, nil
}

// font returns the sized fallback chain for a FontID, creating it on
// first use.
func (f *fontsImpl) font(id FontID) (*Font, error) {
	scaleInPixels := f.implCache.scaleAsPixels(id.Size)
	key := sizedFamilyKey{scaleInPixels: scaleInPixels, family: id.Family}

	if font, ok := f.sizedFamily[key]; ok {
		return font, nil
	}

	names, ok := f.definitions.Families[id.Family]
	if !ok {
		return nil, &UnknownFamilyError{Family: id.Family}
	}

	impls := make([]*fontImpl, 0, len(names))
	for _, name := range names {
		impl, err := f.implCache.fontImpl(scaleInPixels, name)
		if err != nil {
			return nil, err
		}
		impls = append(impls, impl)
	}

	font, err := newFont(impls)
	if err != nil {
		return nil, err
	}
	f.sizedFamily[key] = font
	return font, nil
}

func (f *fontsImpl) glyphWidth(id FontID, r rune) (float32, error) {
	font, err := f.font(id)
	if err != nil {
		return 0, err
	}
	return font.GlyphWidth(r), nil
}

func (f *fontsImpl) rowHeight(id FontID) (float32, error) {
	font, err := f.font(id)
	if err != nil {
		return 0, err
	}
	return font.RowHeight(), nil
}

// Fonts is the entry point of the text pipeline: it owns the font atlas,
// the sized fonts, and the per-frame galley cache.
//
// Creating a Fonts parses every configured font file, so create one and
// reuse it. Fonts is safe for concurrent use.
type Fonts struct {
	mu     sync.Mutex
	fonts  *fontsImpl
	cache  *galleyCache
	shaper RowShaper
}

// NewFonts creates a Fonts for the given scale factor and texture size
// limit. maxTextureSide is the widest texture the renderer can handle;
// the atlas never exceeds it in either dimension.
func NewFonts(pixelsPerPoint float32, maxTextureSide int, definitions FontDefinitions) (*Fonts, error) {
	fonts, err := newFontsImpl(pixelsPerPoint, maxTextureSide, definitions)
	if err != nil {
		return nil, err
	}
	return &Fonts{
		fonts:  fonts,
		cache:  newGalleyCache(),
		shaper: kernRowShaper{},
	}, nil
}

// PixelsPerPoint is the scale factor the Fonts was created with.
func (f *Fonts) PixelsPerPoint() float32 {
	return f.fonts.pixelsPerPoint
}

// SetRowShaper replaces the shaping backend for all subsequent layouts.
// Passing nil restores the default kerning walk. Galleys already in the
// cache keep their old shaping until evicted.
func (f *Fonts) SetRowShaper(shaper RowShaper) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if shaper == nil {
		shaper = kernRowShaper{}
	}
	f.shaper = shaper
}

// LayoutJob lays out the job, amortized through the galley cache: a job
// equal to one already laid out this frame or the previous frame returns
// the same *Galley.
func (f *Fonts) LayoutJob(job *LayoutJob) (*Galley, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.layout(f.fonts, f.shaper, job)
}

// Layout is a convenience for single-style wrapped text.
func (f *Fonts) Layout(text string, id FontID, color Color32, wrapWidth float32) (*Galley, error) {
	return f.LayoutJob(SimpleJob(text, id, color, wrapWidth))
}

// LayoutNoWrap is a convenience for single-style text on one unbounded row
// (newlines still break).
func (f *Fonts) LayoutNoWrap(text string, id FontID, color Color32) (*Galley, error) {
	return f.LayoutJob(SimpleJob(text, id, color, infWidth))
}

// LayoutDelayedColor lays out text whose color will be decided at paint
// time. The galley is laid out with a placeholder color, so galleys that
// differ only in color share a cache entry.
func (f *Fonts) LayoutDelayedColor(text string, id FontID, wrapWidth float32) (*Galley, error) {
	return f.Layout(text, id, ColorWhite, wrapWidth)
}

// Font returns the sized fallback chain for a FontID. The returned Font
// is shared and safe for concurrent use.
func (f *Fonts) Font(id FontID) (*Font, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fonts.font(id)
}

// GlyphWidth is the advance width of one character, in points.
func (f *Fonts) GlyphWidth(id FontID, r rune) (float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fonts.glyphWidth(id, r)
}

// RowHeight is the height of one row of text in the given font, in points.
func (f *Fonts) RowHeight(id FontID) (float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fonts.rowHeight(id)
}

// Families lists all configured font families, sorted by name.
func (f *Fonts) Families() []FontFamily {
	f.mu.Lock()
	defer f.mu.Unlock()
	families := make([]FontFamily, 0, len(f.fonts.definitions.Families))
	for family := range f.fonts.definitions.Families {
		families = append(families, family)
	}
	sort.Slice(families, func(i, j int) bool {
		return families[i].String() < families[j].String()
	})
	return families
}

// ImageDelta returns the change to the font atlas since the last call,
// or nil if nothing changed. Call every frame and upload the result to
// the font texture.
func (f *Fonts) ImageDelta() *ImageDelta {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fonts.atlas.TakeDelta()
}

// ImageSize is the current size of the font atlas in pixels.
func (f *Fonts) ImageSize() (w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fonts.atlas.Size()
}

// EndFrame evicts galleys that were not laid out this frame. Call once
// per frame, after all text has been laid out.
func (f *Fonts) EndFrame() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache.endFrame()
}

// GalleysInCache is the number of memoized layouts.
func (f *Fonts) GalleysInCache() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.numGalleys()
}

// CacheStats reports galley cache activity.
func (f *Fonts) CacheStats() CacheStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.stats()
}
