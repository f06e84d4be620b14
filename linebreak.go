package galley

import "unicode"

// nonBreakingSpace is whitespace that never qualifies as a break candidate.
const nonBreakingSpace = ' '

// rowBreakCandidates tracks good places to break a long row of text, one
// slot per candidate class in descending preference:
// whitespace > logogram > dash > ASCII punctuation > any character.
// Within a class the latest index scanned wins, so rows fill as much as
// possible before breaking. -1 means no candidate seen.
type rowBreakCandidates struct {
	// space: breaking at whitespace is always the primary candidate.
	space int
	// logogram: single characters representing whole words (CJK) break
	// like word boundaries.
	logogram int
	// dash: breaking after '-' is a super-
	// good idea.
	dash int
	// punctuation is nicer for things like URLs, e.g. www.
	// example.com.
	punctuation int
	// any: breaking after a random character is sometimes necessary.
	any int
}

func newRowBreakCandidates() rowBreakCandidates {
	return rowBreakCandidates{space: -1, logogram: -1, dash: -1, punctuation: -1, any: -1}
}

// add records glyph index i as a break candidate of r's class.
func (c *rowBreakCandidates) add(i int, r rune) {
	switch {
	case unicode.IsSpace(r) && r != nonBreakingSpace:
		c.space = i
	case isLogogram(r):
		c.logogram = i
	case r == '-':
		c.dash = i
	case r < unicode.MaxASCII && unicode.IsPunct(r):
		c.punctuation = i
	default:
		c.any = i
	}
}

// hasWordBoundary reports whether a word-level candidate exists.
func (c *rowBreakCandidates) hasWordBoundary() bool {
	return c.space >= 0 || c.logogram >= 0
}

// get returns the best candidate index, or -1 if none.
func (c *rowBreakCandidates) get() int {
	for _, i := range [...]int{c.space, c.logogram, c.dash, c.punctuation, c.any} {
		if i >= 0 {
			return i
		}
	}
	return -1
}

// isLogogram reports CJK ideographs, which break like whole words.
func isLogogram(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified Ideographs
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x2B740 && r <= 0x2B81F) // CJK Extension D
}

// rowsFromParagraphs word-wraps each shaped paragraph at wrapWidth and
// concatenates the resulting rows. Every paragraph except the last ends
// its final row with EndsWithNewline. The result is never empty.
func rowsFromParagraphs(paragraphs []paragraph, wrapWidth float32) []Row {
	rows := make([]Row, 0, len(paragraphs))

	for i := range paragraphs {
		p := &paragraphs[i]
		isLast := i+1 == len(paragraphs)

		if len(p.glyphs) == 0 {
			rows = append(rows, Row{
				Rect: rectFromMinSize(
					pos2(p.cursorX, 0),
					vec2(0, p.emptyParagraphHeight),
				),
				EndsWithNewline: !isLast,
			})
			continue
		}

		if maxX := p.glyphs[len(p.glyphs)-1].MaxX(); maxX <= wrapWidth {
			// Common case: the whole paragraph fits on one row.
			rows = append(rows, Row{
				Glyphs:          p.glyphs,
				Rect:            rectFromXRange(p.glyphs[0].Pos.X, maxX),
				EndsWithNewline: !isLast,
			})
			continue
		}

		lineBreak(p, wrapWidth, &rows)
		rows[len(rows)-1].EndsWithNewline = !isLast
	}

	return rows
}

// lineBreak splits one over-wide paragraph into rows no wider than
// wrapWidth where possible. A row with no break candidate at all (a single
// word wider than wrapWidth) is emitted overflowing; that is accepted
// overflow, not an error.
func lineBreak(p *paragraph, wrapWidth float32, outRows *[]Row) {
	candidates := newRowBreakCandidates()

	firstRowIndentation := p.glyphs[0].Pos.X
	var rowStartX float32
	rowStartIdx := 0

	for i := range p.glyphs {
		potentialRowWidth := p.glyphs[i].MaxX() - rowStartX

		if potentialRowWidth > wrapWidth {
			if firstRowIndentation > 0 && !candidates.hasWordBoundary() {
				// The first row may be empty: it holds only the leading
				// indentation, and the overlong first word falls through to
				// the next, wider row instead of looping forever.
				*outRows = append(*outRows, Row{
					Rect: rectFromXRange(firstRowIndentation, firstRowIndentation),
				})
				rowStartX += firstRowIndentation
				firstRowIndentation = 0
			} else if lastKept := candidates.get(); lastKept >= 0 {
				*outRows = append(*outRows, rowFromGlyphs(p.glyphs[rowStartIdx:lastKept+1], rowStartX))
				rowStartIdx = lastKept + 1
				rowStartX = p.glyphs[rowStartIdx].Pos.X
				candidates = newRowBreakCandidates()
			}
			// else: no place to break, overrun wrapWidth.
		}

		candidates.add(i, p.glyphs[i].Char)
	}

	if rowStartIdx < len(p.glyphs) {
		*outRows = append(*outRows, rowFromGlyphs(p.glyphs[rowStartIdx:], rowStartX))
	}
}

// rowFromGlyphs copies a glyph span into a fresh row, re-basing x to the
// row's own origin.
func rowFromGlyphs(glyphs []Glyph, rowStartX float32) Row {
	out := make([]Glyph, len(glyphs))
	for i, g := range glyphs {
		g.Pos.X -= rowStartX
		out[i] = g
	}
	return Row{
		Glyphs: out,
		Rect:   rectFromXRange(out[0].Pos.X, out[len(out)-1].MaxX()),
	}
}
