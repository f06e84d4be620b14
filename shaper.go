package galley

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// RowShaper turns one row fragment (no '\n') into pen positions.
//
// RuneOffsets returns len(runes)+1 cumulative x offsets in points:
// offsets[k] is the pen position of rune k, and the final entry is the
// fragment's total advance. Implementations must be safe for concurrent
// use.
type RowShaper interface {
	RuneOffsets(font *Font, fragment string) []float32
}

// kernRowShaper is the default shaper: per-glyph advances with pairwise
// kerning from the font's kern table. Fast, and all most UI text needs.
type kernRowShaper struct{}

func (kernRowShaper) RuneOffsets(f *Font, fragment string) []float32 {
	return f.XOffsets(fragment)
}

// HarfBuzzRowShaper shapes rows with go-text/typesetting's HarfBuzz port,
// picking up OpenType positioning the kern walk misses (GPOS kerning,
// mark placement, contextual alternates). Ligatures collapse onto the
// cluster's first rune; the remaining runes of the cluster get zero
// advance.
//
// Only left-to-right text is shaped; fragments with right-to-left content
// fall back to the plain kerning walk.
//
// HarfBuzzRowShaper is safe for concurrent use. Parsed font.Font objects
// are cached per physical font (font.Font is read-only); HarfbuzzShaper
// instances carry mutable buffers and are pooled.
type HarfBuzzRowShaper struct {
	shaperPool sync.Pool

	mu        sync.RWMutex
	fontCache map[*fontImpl]*font.Font

	rtlWarn sync.Once
}

// NewHarfBuzzRowShaper creates a shaper backed by go-text/typesetting.
// Install it with Fonts.SetRowShaper.
func NewHarfBuzzRowShaper() *HarfBuzzRowShaper {
	return &HarfBuzzRowShaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fontCache: make(map[*fontImpl]*font.Font),
	}
}

// RuneOffsets implements RowShaper. The fragment is split into runs of
// runes resolved by the same physical font in the fallback chain, and
// each run is shaped independently.
func (s *HarfBuzzRowShaper) RuneOffsets(f *Font, fragment string) []float32 {
	if !isLeftToRight(fragment) {
		s.rtlWarn.Do(func() {
			Logger().Warn("right-to-left text is not shaped, falling back to kerning walk")
		})
		return f.XOffsets(fragment)
	}

	runes := []rune(fragment)
	offsets := make([]float32, len(runes)+1)

	var cursor float32
	start := 0
	for start < len(runes) {
		impl, _ := f.glyphInfoAndFontImpl(runes[start])
		end := start + 1
		for end < len(runes) {
			if next, _ := f.glyphInfoAndFontImpl(runes[end]); next != impl {
				break
			}
			end++
		}

		advances, ok := s.shapeRun(impl, runes[start:end])
		if !ok {
			// Shaping failed for this physical font; kern-walk the run.
			sub := f.XOffsets(string(runes[start:end]))
			for i := 0; i < end-start; i++ {
				offsets[start+i] = cursor + sub[i]
			}
			cursor += sub[len(sub)-1]
		} else {
			for i, adv := range advances {
				offsets[start+i] = cursor
				cursor += adv
			}
		}
		cursor = f.roundToPixel(cursor)
		start = end
	}

	offsets[len(runes)] = cursor
	return offsets
}

// shapeRun shapes runes against one physical font and returns per-rune
// advances in points. Cluster advances fold onto the cluster's first rune.
func (s *HarfBuzzRowShaper) shapeRun(impl *fontImpl, runes []rune) ([]float32, bool) {
	goTextFont, err := s.getOrCreateFont(impl)
	if err != nil {
		return nil, false
	}

	// font.Face is NOT safe for concurrent use; font.NewFace is cheap and
	// wraps the shared read-only *Font.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(goTextFont),
		Size:      f32ToFixed(float32(impl.scaleInPixels)),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	advances := make([]float32, len(runes))
	for _, g := range output.Glyphs {
		ri := g.TextIndex()
		if ri < 0 || ri >= len(runes) {
			continue
		}
		advances[ri] += fixedToF32(g.Advance) / impl.pixelsPerPoint
	}
	return advances, true
}

// getOrCreateFont parses the physical font's data with go-text, caching
// the read-only font.Font.
func (s *HarfBuzzRowShaper) getOrCreateFont(impl *fontImpl) (*font.Font, error) {
	s.mu.RLock()
	f, ok := s.fontCache[impl]
	s.mu.RUnlock()
	if ok {
		return f, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fontCache[impl]; ok {
		return f, nil
	}

	face, err := font.ParseTTF(bytes.NewReader(impl.data))
	if err != nil {
		return nil, err
	}
	s.fontCache[impl] = face.Font
	return face.Font, nil
}

// detectScript returns the script of the first non-space rune. A simple
// heuristic; mixed-script fragments shape with the dominant run's script.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

// isLeftToRight reports whether the fragment contains no right-to-left
// text, per the Unicode bidi algorithm.
func isLeftToRight(fragment string) bool {
	var p bidi.Paragraph
	p.SetString(fragment)
	ordering, err := p.Order()
	if err != nil {
		return true
	}
	return ordering.Direction() == bidi.LeftToRight
}
