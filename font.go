package galley

import "sync"

// Replacement characters for runes no configured font can resolve.
// The primary is "white medium square"; '?' is the fallback for the
// fallback.
const (
	primaryReplacementChar  = '◻'
	fallbackReplacementChar = '?'
)

// glyphRef is a resolved glyph: which fallback font owns it plus its info.
type glyphRef struct {
	fontIndex int
	info      GlyphInfo
}

// Font is an ordered fallback chain of sized physical fonts for one font
// family: a primary plus fallbacks (e.g. for symbols the primary lacks).
// Each rune resolves to the first font in the chain that has it; runes no
// font has resolve to a reserved replacement glyph so text stays visibly
// present instead of disappearing.
//
// Font is safe for concurrent use.
type Font struct {
	fonts            []*fontImpl
	replacementGlyph glyphRef
	pixelsPerPoint   float32
	rowHeight        float32

	// mu guards cache. Resolutions are memoized for the Font's lifetime
	// and never evicted.
	mu    sync.RWMutex
	cache map[rune]glyphRef
}

// newFont builds the fallback chain. It fails if no font in the chain can
// resolve a replacement glyph: that font set is unusable for any text, so
// this is a fatal configuration error, not a runtime condition.
func newFont(fonts []*fontImpl) (*Font, error) {
	if len(fonts) == 0 {
		return nil, ErrEmptyFamily
	}

	f := &Font{
		fonts:          fonts,
		pixelsPerPoint: fonts[0].pixelsPerPoint,
		rowHeight:      fonts[0].rowHeight(),
		cache:          make(map[rune]glyphRef),
	}

	ref, ok := f.resolveNoFallback(primaryReplacementChar)
	if !ok {
		ref, ok = f.resolveNoFallback(fallbackReplacementChar)
	}
	if !ok {
		return nil, ErrNoReplacementGlyph
	}
	f.replacementGlyph = ref

	return f, nil
}

// RowHeight is the height of one row of text, in points.
func (f *Font) RowHeight() float32 {
	return f.rowHeight
}

// GlyphWidth is the advance width of one character, in points.
func (f *Font) GlyphWidth(r rune) float32 {
	_, info := f.glyphInfo(r)
	return info.AdvanceWidth
}

// HasGlyph reports whether any font in the chain has a real glyph for r.
func (f *Font) HasGlyph(r rune) bool {
	for _, impl := range f.fonts {
		if impl.hasGlyph(r) {
			return true
		}
	}
	return false
}

// PreloadCommonCharacters warms the glyph caches with printable ASCII.
func (f *Font) PreloadCommonCharacters() {
	for r := rune(' '); r <= '~'; r++ {
		f.glyphInfo(r)
	}
	f.glyphInfo('°')
}

// roundToPixel rounds a point coordinate to the nearest device pixel.
func (f *Font) roundToPixel(point float32) float32 {
	return pointScale{f.pixelsPerPoint}.roundToPixel(point)
}

// glyphInfo resolves r through the fallback chain, memoized.
// '\n' (intentionally) resolves to the replacement character.
func (f *Font) glyphInfo(r rune) (fontIndex int, info GlyphInfo) {
	f.mu.RLock()
	ref, ok := f.cache[r]
	f.mu.RUnlock()
	if ok {
		return ref.fontIndex, ref.info
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if ref, ok := f.cache[r]; ok {
		return ref.fontIndex, ref.info
	}

	ref, ok = f.resolveNoFallback(r)
	if !ok {
		ref = f.replacementGlyph
	}
	f.cache[r] = ref
	return ref.fontIndex, ref.info
}

// glyphInfoAndFontImpl resolves r and also returns the owning physical
// font, for kerning against the previous glyph.
func (f *Font) glyphInfoAndFontImpl(r rune) (*fontImpl, GlyphInfo) {
	fontIndex, info := f.glyphInfo(r)
	return f.fonts[fontIndex], info
}

// resolveNoFallback tries each font in order and returns the first hit.
func (f *Font) resolveNoFallback(r rune) (glyphRef, bool) {
	for i, impl := range f.fonts {
		if info, ok := impl.glyphInfo(r); ok {
			return glyphRef{fontIndex: i, info: info}, true
		}
	}
	return glyphRef{}, false
}

// XOffsets lays out a single row fragment (text must contain no '\n') and
// returns len(runes)+1 cumulative x offsets in points, starting at 0.
// Pairwise kerning is applied between consecutive glyphs resolved to the
// same physical font, and every cumulative offset is snapped to the
// nearest device pixel.
func (f *Font) XOffsets(text string) []float32 {
	offsets := make([]float32, 0, len(text)+1)

	var cursor float32
	var lastRune rune
	hasLast := false
	for _, r := range text {
		impl, info := f.glyphInfoAndFontImpl(r)
		if hasLast {
			cursor += impl.pairKerning(lastRune, r)
		}
		offsets = append(offsets, cursor)
		cursor += info.AdvanceWidth
		cursor = f.roundToPixel(cursor)
		lastRune = r
		hasLast = true
	}
	offsets = append(offsets, cursor)
	return offsets
}
