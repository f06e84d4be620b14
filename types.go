package galley

import (
	"hash/fnv"
	"math"
)

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// GlyphID is the glyph index within one font file. Index 0 is .notdef.
type GlyphID uint16

// Align selects one end or the middle of a range. It serves both as
// horizontal alignment (left/center/right) and per-section vertical
// alignment within a row (top/center/bottom).
type Align uint8

const (
	// AlignMin is left or top.
	AlignMin Align = iota
	// AlignCenter is the middle.
	AlignCenter
	// AlignMax is right or bottom.
	AlignMax
)

// Aliases for readability at call sites.
const (
	AlignLeft   = AlignMin
	AlignRight  = AlignMax
	AlignTop    = AlignMin
	AlignBottom = AlignMax
)

// Factor returns 0, 0.5 or 1.
func (a Align) Factor() float32 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignMax:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the alignment.
func (a Align) String() string {
	switch a {
	case AlignMin:
		return "Min"
	case AlignCenter:
		return "Center"
	case AlignMax:
		return "Max"
	default:
		return unknownStr
	}
}

// familyKind tags the FontFamily variants.
type familyKind uint8

const (
	familyProportional familyKind = iota
	familyMonospace
	familyNamed
)

// FontFamily names a list of fonts of unknown size: the two built-in
// families, or a user-chosen name from FontDefinitions.Families.
// It is a comparable value type usable as a map key.
// The zero value is the proportional family.
type FontFamily struct {
	kind familyKind
	name string
}

// Built-in families.
var (
	// FamilyProportional is a font where characters have varying widths.
	FamilyProportional = FontFamily{kind: familyProportional}

	// FamilyMonospace is a font where all characters are the same width.
	FamilyMonospace = FontFamily{kind: familyMonospace}
)

// NamedFamily refers to one of the user-registered names in
// FontDefinitions.Families.
func NamedFamily(name string) FontFamily {
	return FontFamily{kind: familyNamed, name: name}
}

// String returns the family name.
func (f FontFamily) String() string {
	switch f.kind {
	case familyProportional:
		return "Proportional"
	case familyMonospace:
		return "Monospace"
	case familyNamed:
		return f.name
	default:
		return unknownStr
	}
}

// FontID selects a sized font: a family plus a height in points.
type FontID struct {
	// Size is the row height in points.
	Size float32

	Family FontFamily
}

// Proportional returns a FontID for the proportional family.
func Proportional(size float32) FontID {
	return FontID{Size: size, Family: FamilyProportional}
}

// Monospace returns a FontID for the monospace family.
func Monospace(size float32) FontID {
	return FontID{Size: size, Family: FamilyMonospace}
}

// TextFormat describes how a Section of a LayoutJob is styled.
type TextFormat struct {
	FontID FontID

	// Color of the glyphs.
	Color Color32

	// Background fill behind the glyphs, transparent for none.
	Background Color32

	// Italics skews the glyph quads. This is synthetic slanting, not an
	// italic font face.
	Italics bool

	Underline     Stroke
	Strikethrough Stroke

	// Valign aligns this section's glyphs within rows that are taller than
	// this section's font (AlignTop, AlignCenter or AlignBottom).
	Valign Align
}

// SimpleTextFormat returns a plain format with the given font and color.
func SimpleTextFormat(fontID FontID, color Color32) TextFormat {
	return TextFormat{FontID: fontID, Color: color}
}

// Section styles a byte range of a LayoutJob's text.
type Section struct {
	// LeadingSpace is blank space inserted before this section, in points.
	// Used for first-row indentation.
	LeadingSpace float32

	// Start and End delimit the byte range into LayoutJob.Text.
	// Ranges of consecutive sections must be contiguous, non-overlapping,
	// and cover the whole text in order.
	Start, End int

	Format TextFormat
}

// PositiveInfinity as a float32, for unbounded wrap widths.
var infWidth = float32(math.Inf(1))

// LayoutJob describes one text layout request: raw text, per-range styles,
// and a wrap width. Identical jobs hash identically and hit the galley
// cache, so building a LayoutJob every frame is cheap.
type LayoutJob struct {
	Text     string
	Sections []Section

	// WrapWidth is the width in points to wrap text at. Rows are broken so
	// that no row is wider than this (except single unbreakable words).
	// Infinity disables wrapping. '\n' always breaks regardless.
	WrapWidth float32

	// FirstRowMinHeight forces the first row to be at least this tall, for
	// laying out text that continues an earlier galley on the same row.
	FirstRowMinHeight float32

	// BreakOnNewline controls whether '\n' starts a new row. When false,
	// newlines show up as the replacement character. Constructors set it;
	// the zero value keeps zero-valued jobs laying out in one row.
	BreakOnNewline bool

	// Halign aligns rows horizontally within the wrap width.
	Halign Align

	// Justify stretches rows (except the last of each paragraph) to exactly
	// the wrap width. Ignored when WrapWidth is infinite.
	Justify bool
}

// SimpleJob returns a multiline job with one section covering all of text.
func SimpleJob(text string, fontID FontID, color Color32, wrapWidth float32) *LayoutJob {
	return &LayoutJob{
		Text: text,
		Sections: []Section{{
			End:    len(text),
			Format: SimpleTextFormat(fontID, color),
		}},
		WrapWidth:      wrapWidth,
		BreakOnNewline: true,
	}
}

// SingleLineJob returns a job that never wraps and never breaks on '\n'.
func SingleLineJob(text string, fontID FontID, color Color32) *LayoutJob {
	return &LayoutJob{
		Text: text,
		Sections: []Section{{
			End:    len(text),
			Format: SimpleTextFormat(fontID, color),
		}},
		WrapWidth: infWidth,
	}
}

// Append adds text styled by format as a new section.
func (j *LayoutJob) Append(text string, leadingSpace float32, format TextFormat) {
	start := len(j.Text)
	j.Text += text
	j.Sections = append(j.Sections, Section{
		LeadingSpace: leadingSpace,
		Start:        start,
		End:          len(j.Text),
		Format:       format,
	})
}

// IsEmpty reports whether the job has no sections.
func (j *LayoutJob) IsEmpty() bool {
	return len(j.Sections) == 0
}

// Validate checks that the sections are contiguous, in order, and cover the
// whole text. Misrendering silently is worse than failing fast here.
func (j *LayoutJob) Validate() error {
	cursor := 0
	for i, s := range j.Sections {
		switch {
		case s.Start != cursor:
			return &InvalidSectionsError{Index: i, Reason: "byte ranges must be contiguous and in order"}
		case s.End < s.Start:
			return &InvalidSectionsError{Index: i, Reason: "byte range end before start"}
		case s.End > len(j.Text):
			return &InvalidSectionsError{Index: i, Reason: "byte range past end of text"}
		}
		cursor = s.End
	}
	if len(j.Sections) > 0 && cursor != len(j.Text) {
		return &InvalidSectionsError{
			Index:  len(j.Sections) - 1,
			Reason: "byte ranges must cover the whole text",
		}
	}
	return nil
}

// Hash returns a 64-bit FNV-1a content hash covering every field that
// affects layout. Float fields are hashed by IEEE 754 bit pattern so the
// hash is exact; +0 and -0 hash differently, which costs at most a
// duplicate cache entry, never a wrong hit.
func (j *LayoutJob) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeU32 := func(v uint32) {
		buf[0] = byte(v)
		buf[1] = byte(v >> 8)
		buf[2] = byte(v >> 16)
		buf[3] = byte(v >> 24)
		_, _ = h.Write(buf[:4])
	}
	writeU64 := func(v uint64) {
		writeU32(uint32(v))
		writeU32(uint32(v >> 32))
	}
	writeF32 := func(v float32) { writeU32(math.Float32bits(v)) }
	writeBool := func(v bool) {
		if v {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	writeColor := func(c Color32) {
		_, _ = h.Write([]byte{c.R, c.G, c.B, c.A})
	}
	writeStroke := func(s Stroke) {
		writeF32(s.Width)
		writeColor(s.Color)
	}

	_, _ = h.Write([]byte(j.Text))
	for _, s := range j.Sections {
		writeF32(s.LeadingSpace)
		writeU64(uint64(s.Start))
		writeU64(uint64(s.End))

		f := s.Format
		writeF32(f.FontID.Size)
		_, _ = h.Write([]byte{byte(f.FontID.Family.kind)})
		_, _ = h.Write([]byte(f.FontID.Family.name))
		writeColor(f.Color)
		writeColor(f.Background)
		writeBool(f.Italics)
		writeStroke(f.Underline)
		writeStroke(f.Strikethrough)
		_, _ = h.Write([]byte{byte(f.Valign)})
	}
	writeF32(j.WrapWidth)
	writeF32(j.FirstRowMinHeight)
	writeBool(j.BreakOnNewline)
	_, _ = h.Write([]byte{byte(j.Halign)})
	writeBool(j.Justify)

	return h.Sum64()
}

// UvRect locates one glyph's coverage in the texture atlas.
type UvRect struct {
	// Offset from the glyph position to the top-left of the quad, in points.
	Offset Vec2

	// Size of the quad in points. Differs from the font height.
	Size Vec2

	// Min is the top-left corner in atlas texels.
	Min [2]uint16

	// Max is the bottom-right corner in atlas texels (exclusive).
	Max [2]uint16
}

// IsNothing reports whether the glyph has no visible ink (e.g. a space).
func (u UvRect) IsNothing() bool {
	return u.Min == u.Max
}

// GlyphInfo is the cached per-font result of rasterizing one character.
type GlyphInfo struct {
	ID GlyphID

	// AdvanceWidth in points.
	AdvanceWidth float32

	// UvRect is zero for glyphs with no visible ink.
	UvRect UvRect
}

// Glyph is one positioned character instance inside a Galley.
type Glyph struct {
	Char rune

	// Pos is relative to the galley origin, top-left of the glyph's row
	// slot. Y is assigned during vertical stacking and is identical for all
	// glyphs of one section on the same row.
	Pos Pos2

	// Size is (advance width, font row height) in points.
	Size Vec2

	UvRect UvRect

	// SectionIndex indexes LayoutJob.Sections.
	SectionIndex uint32
}

// MaxX returns the right edge of the glyph's logical extent.
func (g *Glyph) MaxX() float32 {
	return g.Pos.X + g.Size.X
}

// LogicalRect returns the extent used for selection and cursor placement,
// which can differ from the inked quad.
func (g *Glyph) LogicalRect() Rect {
	return rectFromMinSize(g.Pos, g.Size)
}

// Row is one visual line of a Galley.
type Row struct {
	Glyphs []Glyph

	// Rect bounds the row logically (hit-testing, cursor placement).
	Rect Rect

	// Visuals holds the tessellated geometry for painting this row.
	Visuals RowVisuals

	// EndsWithNewline distinguishes a row broken by '\n' from one broken by
	// word wrap. The final row of a galley is never true.
	EndsWithNewline bool
}

// Height of the row in points.
func (r *Row) Height() float32 {
	return r.Rect.Height()
}

// Galley is the immutable result of laying out one LayoutJob: positioned
// glyphs grouped into rows, plus tessellated geometry. Once returned it is
// never mutated, which is what makes sharing the pointer across goroutines
// and frames safe without synchronization.
type Galley struct {
	// Job is the request this galley answers. Shared, do not mutate.
	Job *LayoutJob

	Rows []Row

	// Rect bounds all rows logically. Min is not necessarily zero with
	// non-left alignment.
	Rect Rect

	// MeshBounds bounds the tessellated glyph quads, which can spill
	// outside Rect (e.g. italics skew).
	MeshBounds Rect

	// NumVertices and NumIndices are totals over all rows, so painters can
	// reserve before copying.
	NumVertices int
	NumIndices  int
}

// Size returns the logical extent: (widest row, total height).
func (g *Galley) Size() Vec2 {
	return g.Rect.Size()
}

// IsEmpty reports whether the galley has no glyphs at all.
func (g *Galley) IsEmpty() bool {
	for i := range g.Rows {
		if len(g.Rows[i].Glyphs) > 0 {
			return false
		}
	}
	return true
}

// Text returns the laid-out text.
func (g *Galley) Text() string {
	return g.Job.Text
}
