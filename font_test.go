package galley

import (
	"errors"
	"math"
	"testing"
)

func newTestFontsImpl(t *testing.T) *fontsImpl {
	t.Helper()
	fonts, err := newFontsImpl(2, 4096, DefaultFontDefinitions())
	if err != nil {
		t.Fatalf("newFontsImpl: %v", err)
	}
	return fonts
}

func testFont(t *testing.T, id FontID) *Font {
	t.Helper()
	fonts := newTestFontsImpl(t)
	font, err := fonts.font(id)
	if err != nil {
		t.Fatalf("font(%v): %v", id, err)
	}
	return font
}

func TestFontBasics(t *testing.T) {
	font := testFont(t, Proportional(14))

	if h := font.RowHeight(); h <= 0 {
		t.Errorf("RowHeight() = %v, want > 0", h)
	}
	if w := font.GlyphWidth('m'); w <= 0 {
		t.Errorf("GlyphWidth('m') = %v, want > 0", w)
	}
	if !font.HasGlyph('a') {
		t.Error("HasGlyph('a') = false")
	}
	if font.HasGlyph('') {
		t.Error("HasGlyph(private use rune) = true")
	}
}

func TestFontReplacementGlyph(t *testing.T) {
	font := testFont(t, Proportional(14))

	// A rune no configured font has must resolve to the replacement glyph,
	// not disappear.
	_, info := font.glyphInfo('')
	if info != font.replacementGlyph.info {
		t.Error("unresolvable rune did not resolve to the replacement glyph")
	}
	if info.AdvanceWidth <= 0 {
		t.Error("replacement glyph has no width")
	}
}

func TestFontNewlineIsReplacement(t *testing.T) {
	font := testFont(t, Proportional(14))

	_, info := font.glyphInfo('\n')
	if info != font.replacementGlyph.info {
		t.Error("'\\n' should resolve to the replacement glyph")
	}
}

func TestFontInvisibleCharacters(t *testing.T) {
	font := testFont(t, Proportional(14))

	for _, r := range []rune{'​', '‍', '⁠'} {
		_, info := font.glyphInfo(r)
		if info.AdvanceWidth != 0 {
			t.Errorf("invisible rune %U has advance %v, want 0", r, info.AdvanceWidth)
		}
		if !info.UvRect.IsNothing() {
			t.Errorf("invisible rune %U has a texture rect", r)
		}
	}
}

func TestFontTabWidth(t *testing.T) {
	font := testFont(t, Monospace(12))

	space := font.GlyphWidth(' ')
	tab := font.GlyphWidth('\t')
	if want := space * tabSize; math.Abs(float64(tab-want)) > 1e-4 {
		t.Errorf("tab width = %v, want %v (%d spaces)", tab, want, tabSize)
	}
}

func TestFontXOffsets(t *testing.T) {
	font := testFont(t, Proportional(14))

	text := "Hello, world"
	offsets := font.XOffsets(text)

	if want := len([]rune(text)) + 1; len(offsets) != want {
		t.Fatalf("len(offsets) = %d, want %d", len(offsets), want)
	}
	if offsets[0] != 0 {
		t.Errorf("offsets[0] = %v, want 0", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			t.Errorf("offsets not monotonic at %d: %v < %v", i, offsets[i], offsets[i-1])
		}
	}
	if offsets[len(offsets)-1] <= 0 {
		t.Error("total advance should be positive")
	}
}

func TestFontXOffsetsEmpty(t *testing.T) {
	font := testFont(t, Proportional(14))

	offsets := font.XOffsets("")
	if len(offsets) != 1 || offsets[0] != 0 {
		t.Errorf("XOffsets(\"\") = %v, want [0]", offsets)
	}
}

func TestFontFallbackChain(t *testing.T) {
	fonts := newTestFontsImpl(t)

	font, err := fonts.font(FontID{Size: 12, Family: NamedFamily("italic")})
	if err != nil {
		t.Fatalf("font: %v", err)
	}
	if len(font.fonts) != 2 {
		t.Fatalf("chain length = %d, want 2", len(font.fonts))
	}

	// 'a' exists in the primary; it must resolve there, not in the fallback.
	fontIndex, _ := font.glyphInfo('a')
	if fontIndex != 0 {
		t.Errorf("'a' resolved in chain entry %d, want 0", fontIndex)
	}
}

func TestFontUnknownFamily(t *testing.T) {
	fonts := newTestFontsImpl(t)

	_, err := fonts.font(FontID{Size: 12, Family: NamedFamily("no-such-family")})
	var unknown *UnknownFamilyError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownFamilyError", err)
	}
}

func TestFontSizedFamilyIsCached(t *testing.T) {
	fonts := newTestFontsImpl(t)

	a, err := fonts.font(Proportional(12))
	if err != nil {
		t.Fatal(err)
	}
	b, err := fonts.font(Proportional(12))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same FontID returned different Font instances")
	}
}

func TestScaleAsPixels(t *testing.T) {
	fonts := newTestFontsImpl(t) // pixelsPerPoint = 2

	tests := []struct {
		points float32
		want   uint32
	}{
		{12, 24},
		{12.2, 24}, // rounds to whole pixels
		{12.3, 25},
	}
	for _, tt := range tests {
		if got := fonts.implCache.scaleAsPixels(tt.points); got != tt.want {
			t.Errorf("scaleAsPixels(%v) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestPointScaleRoundTrip(t *testing.T) {
	scale := pointScale{pixelsPerPoint: 2}

	for _, v := range []float32{0, 0.1, 1.26, 7.77, 123.4} {
		snapped := scale.roundToPixel(v)
		pixels := snapped * scale.pixelsPerPoint
		if math.Abs(float64(pixels-float32(math.Round(float64(pixels))))) > 1e-4 {
			t.Errorf("roundToPixel(%v) = %v is not on a pixel boundary", v, snapped)
		}
	}
}
