package galley

import "math"

// Text cursors name a position between characters of a galley, in three
// coordinate systems at once:
//
//   - CCursor counts characters from the start of the text.
//   - RCursor addresses a row and a column within it.
//   - PCursor addresses a paragraph (the pieces between '\n') and a
//     character offset within it.
//
// A position exactly on a wrap boundary is ambiguous: it is both the end of
// one row and the start of the next. PreferNextRow picks which of the two a
// conversion resolves to.

// CCursor is a character-count cursor: Index characters precede it.
type CCursor struct {
	Index int

	// PreferNextRow resolves a position on a wrap boundary toward the
	// start of the next row rather than the end of the previous one.
	PreferNextRow bool
}

// Equal ignores PreferNextRow, which is a disambiguation hint rather than
// part of the position.
func (c CCursor) Equal(o CCursor) bool {
	return c.Index == o.Index
}

// RCursor addresses a row of the galley and a column within it. Unlike the
// other two cursors it is unambiguous at wrap boundaries.
type RCursor struct {
	Row    int
	Column int
}

// PCursor addresses a paragraph and a character offset within it. Rows
// created by word wrap do not affect it, so it survives re-wrapping at a
// different width.
type PCursor struct {
	Paragraph int
	Offset    int

	PreferNextRow bool
}

// Equal ignores PreferNextRow, which is a disambiguation hint rather than
// part of the position.
func (p PCursor) Equal(o PCursor) bool {
	return p.Paragraph == o.Paragraph && p.Offset == o.Offset
}

// Cursor is one text position in all three coordinate systems. Build one
// through Galley.FromCCursor and friends so the three stay consistent.
type Cursor struct {
	CCursor CCursor
	RCursor RCursor
	PCursor PCursor
}

// Equal reports whether both cursors name the same position.
func (c Cursor) Equal(o Cursor) bool {
	return c.CCursor.Equal(o.CCursor) && c.RCursor == o.RCursor && c.PCursor.Equal(o.PCursor)
}

// CharCountExcludingNewline excludes the implicit '\n' after the row, if
// any.
func (r *Row) CharCountExcludingNewline() int {
	return len(r.Glyphs)
}

// CharCountIncludingNewline includes the implicit '\n' after the row, if
// any.
func (r *Row) CharCountIncludingNewline() int {
	n := len(r.Glyphs)
	if r.EndsWithNewline {
		n++
	}
	return n
}

// CharAt returns the column closest to the desired x coordinate, in the
// range [0, CharCountExcludingNewline()].
func (r *Row) CharAt(desiredX float32) int {
	for i := range r.Glyphs {
		g := &r.Glyphs[i]
		if desiredX < g.Pos.X+0.5*g.Size.X {
			return i
		}
	}
	return len(r.Glyphs)
}

// XOffset returns the x coordinate of the given column. Columns past the
// end map to the right edge of the row.
func (r *Row) XOffset(column int) float32 {
	if column < len(r.Glyphs) {
		return r.Glyphs[column].Pos.X
	}
	return r.Rect.Max.X
}

// endPos returns a zero-width rect past the last character.
func (g *Galley) endPos() Rect {
	if len(g.Rows) == 0 {
		return rectFromMinMax(pos2(0, 0), pos2(0, 0))
	}
	row := &g.Rows[len(g.Rows)-1]
	x := row.Rect.Max.X
	return rectFromMinMax(pos2(x, row.Rect.Min.Y), pos2(x, row.Rect.Max.Y))
}

// PosFromPCursor returns a zero-width rect at the cursor position, relative
// to the galley origin.
func (g *Galley) PosFromPCursor(pcursor PCursor) Rect {
	var it PCursor
	for i := range g.Rows {
		row := &g.Rows[i]

		if it.Paragraph == pcursor.Paragraph {
			// Right paragraph, but is it the right row in the paragraph?
			if it.Offset <= pcursor.Offset &&
				(pcursor.Offset <= it.Offset+row.CharCountExcludingNewline() ||
					row.EndsWithNewline) {
				column := pcursor.Offset - it.Offset

				selectNextRowInstead := pcursor.PreferNextRow &&
					!row.EndsWithNewline &&
					column >= row.CharCountExcludingNewline()
				if !selectNextRowInstead {
					x := row.XOffset(column)
					return rectFromMinMax(pos2(x, row.Rect.Min.Y), pos2(x, row.Rect.Max.Y))
				}
			}
		}

		if row.EndsWithNewline {
			it.Paragraph++
			it.Offset = 0
		} else {
			it.Offset += row.CharCountIncludingNewline()
		}
	}
	return g.endPos()
}

// PosFromCursor returns a zero-width rect at the cursor position, relative
// to the galley origin.
func (g *Galley) PosFromCursor(cursor Cursor) Rect {
	return g.PosFromPCursor(cursor.PCursor)
}

// CursorFromPos returns the cursor closest to pos (relative to the galley
// origin). Positions outside every row snap to the nearest row.
func (g *Galley) CursorFromPos(pos Pos2) Cursor {
	bestYDist := float32(math.Inf(1))
	var cursor Cursor

	ccursorIndex := 0
	var pcursorIt PCursor

	for rowNr := range g.Rows {
		row := &g.Rows[rowNr]

		isPosWithinRow := row.Rect.Min.Y <= pos.Y && pos.Y <= row.Rect.Max.Y
		yDist := min32(abs32(row.Rect.Min.Y-pos.Y), abs32(row.Rect.Max.Y-pos.Y))
		if isPosWithinRow || yDist < bestYDist {
			bestYDist = yDist
			column := row.CharAt(pos.X)
			preferNextRow := column < row.CharCountExcludingNewline()
			cursor = Cursor{
				CCursor: CCursor{Index: ccursorIndex + column, PreferNextRow: preferNextRow},
				RCursor: RCursor{Row: rowNr, Column: column},
				PCursor: PCursor{
					Paragraph:     pcursorIt.Paragraph,
					Offset:        pcursorIt.Offset + column,
					PreferNextRow: preferNextRow,
				},
			}
			if isPosWithinRow {
				return cursor
			}
		}

		ccursorIndex += row.CharCountIncludingNewline()
		if row.EndsWithNewline {
			pcursorIt.Paragraph++
			pcursorIt.Offset = 0
		} else {
			pcursorIt.Offset += row.CharCountIncludingNewline()
		}
	}
	return cursor
}

// End returns the cursor one past the last character.
func (g *Galley) End() Cursor {
	if len(g.Rows) == 0 {
		return Cursor{}
	}
	ccursor := CCursor{PreferNextRow: true}
	pcursor := PCursor{PreferNextRow: true}
	for i := range g.Rows {
		row := &g.Rows[i]
		ccursor.Index += row.CharCountIncludingNewline()
		if row.EndsWithNewline {
			pcursor.Paragraph++
			pcursor.Offset = 0
		} else {
			pcursor.Offset += row.CharCountIncludingNewline()
		}
	}
	return Cursor{CCursor: ccursor, RCursor: g.EndRCursor(), PCursor: pcursor}
}

// EndRCursor returns the row cursor one past the last character.
func (g *Galley) EndRCursor() RCursor {
	if len(g.Rows) == 0 {
		return RCursor{}
	}
	last := len(g.Rows) - 1
	return RCursor{Row: last, Column: g.Rows[last].CharCountExcludingNewline()}
}

// FromCCursor resolves a character cursor to all three coordinate systems.
// Out-of-range cursors clamp to the end of the text.
func (g *Galley) FromCCursor(ccursor CCursor) Cursor {
	preferNextRow := ccursor.PreferNextRow
	ccursorIt := CCursor{PreferNextRow: preferNextRow}
	pcursorIt := PCursor{PreferNextRow: preferNextRow}

	for rowNr := range g.Rows {
		row := &g.Rows[rowNr]
		rowCharCount := row.CharCountExcludingNewline()

		if ccursorIt.Index <= ccursor.Index && ccursor.Index <= ccursorIt.Index+rowCharCount {
			column := ccursor.Index - ccursorIt.Index

			selectNextRowInstead := preferNextRow &&
				!row.EndsWithNewline &&
				column >= rowCharCount
			if !selectNextRowInstead {
				pcursorIt.Offset += column
				return Cursor{
					CCursor: ccursor,
					RCursor: RCursor{Row: rowNr, Column: column},
					PCursor: pcursorIt,
				}
			}
		}

		ccursorIt.Index += row.CharCountIncludingNewline()
		if row.EndsWithNewline {
			pcursorIt.Paragraph++
			pcursorIt.Offset = 0
		} else {
			pcursorIt.Offset += row.CharCountIncludingNewline()
		}
	}
	return Cursor{CCursor: ccursorIt, RCursor: g.EndRCursor(), PCursor: pcursorIt}
}

// FromRCursor resolves a row cursor. Rows past the end clamp to End.
func (g *Galley) FromRCursor(rcursor RCursor) Cursor {
	if rcursor.Row >= len(g.Rows) {
		return g.End()
	}

	preferNextRow := rcursor.Column < g.Rows[rcursor.Row].CharCountExcludingNewline()
	ccursorIt := CCursor{PreferNextRow: preferNextRow}
	pcursorIt := PCursor{PreferNextRow: preferNextRow}

	for rowNr := range g.Rows {
		row := &g.Rows[rowNr]
		if rowNr == rcursor.Row {
			ccursorIt.Index += min(rcursor.Column, row.CharCountExcludingNewline())
			if row.EndsWithNewline {
				// The offset may point beyond the end of the paragraph.
				pcursorIt.Offset += rcursor.Column
			} else {
				pcursorIt.Offset += min(rcursor.Column, row.CharCountExcludingNewline())
			}
			return Cursor{CCursor: ccursorIt, RCursor: rcursor, PCursor: pcursorIt}
		}

		ccursorIt.Index += row.CharCountIncludingNewline()
		if row.EndsWithNewline {
			pcursorIt.Paragraph++
			pcursorIt.Offset = 0
		} else {
			pcursorIt.Offset += row.CharCountIncludingNewline()
		}
	}
	return Cursor{CCursor: ccursorIt, RCursor: g.EndRCursor(), PCursor: pcursorIt}
}

// FromPCursor resolves a paragraph cursor. Out-of-range cursors clamp to
// the end of the text.
func (g *Galley) FromPCursor(pcursor PCursor) Cursor {
	preferNextRow := pcursor.PreferNextRow
	ccursorIt := CCursor{PreferNextRow: preferNextRow}
	pcursorIt := PCursor{PreferNextRow: preferNextRow}

	for rowNr := range g.Rows {
		row := &g.Rows[rowNr]

		if pcursorIt.Paragraph == pcursor.Paragraph {
			// Right paragraph, but is it the right row in the paragraph?
			if pcursorIt.Offset <= pcursor.Offset &&
				(pcursor.Offset <= pcursorIt.Offset+row.CharCountExcludingNewline() ||
					row.EndsWithNewline) {
				column := pcursor.Offset - pcursorIt.Offset

				selectNextRowInstead := pcursor.PreferNextRow &&
					!row.EndsWithNewline &&
					column >= row.CharCountExcludingNewline()
				if !selectNextRowInstead {
					ccursorIt.Index += min(column, row.CharCountExcludingNewline())
					return Cursor{
						CCursor: ccursorIt,
						RCursor: RCursor{Row: rowNr, Column: column},
						PCursor: pcursor,
					}
				}
			}
		}

		ccursorIt.Index += row.CharCountIncludingNewline()
		if row.EndsWithNewline {
			pcursorIt.Paragraph++
			pcursorIt.Offset = 0
		} else {
			pcursorIt.Offset += row.CharCountIncludingNewline()
		}
	}
	return Cursor{CCursor: ccursorIt, RCursor: g.EndRCursor(), PCursor: pcursor}
}

// CursorLeftOneCharacter moves one character left, stopping at the start of
// the text.
func (g *Galley) CursorLeftOneCharacter(cursor Cursor) Cursor {
	if cursor.CCursor.Index == 0 {
		return Cursor{}
	}
	// When navigating, the start of a row is the more useful resolution of
	// a wrap boundary than the end of the row above.
	return g.FromCCursor(CCursor{Index: cursor.CCursor.Index - 1, PreferNextRow: true})
}

// CursorRightOneCharacter moves one character right, stopping at the end of
// the text.
func (g *Galley) CursorRightOneCharacter(cursor Cursor) Cursor {
	return g.FromCCursor(CCursor{Index: cursor.CCursor.Index + 1, PreferNextRow: true})
}

// CursorUpOneRow moves to the row above, keeping the horizontal position
// when possible. From the first row it moves to the start of the text.
func (g *Galley) CursorUpOneRow(cursor Cursor) Cursor {
	if cursor.RCursor.Row == 0 {
		return Cursor{}
	}
	newRow := cursor.RCursor.Row - 1
	return g.FromRCursor(RCursor{Row: newRow, Column: g.columnForAdjacentRow(cursor, newRow)})
}

// CursorDownOneRow moves to the row below, keeping the horizontal position
// when possible. From the last row it moves to the end of the text.
func (g *Galley) CursorDownOneRow(cursor Cursor) Cursor {
	if cursor.RCursor.Row+1 >= len(g.Rows) {
		return g.End()
	}
	newRow := cursor.RCursor.Row + 1
	return g.FromRCursor(RCursor{Row: newRow, Column: g.columnForAdjacentRow(cursor, newRow)})
}

// columnForAdjacentRow picks the column when moving vertically: the column
// under the cursor's x coordinate, except that a cursor past the end of its
// own row or past the end of newRow keeps its column.
func (g *Galley) columnForAdjacentRow(cursor Cursor, newRow int) int {
	if cursor.RCursor.Column >= g.Rows[cursor.RCursor.Row].CharCountExcludingNewline() {
		return cursor.RCursor.Column
	}
	x := g.PosFromCursor(cursor).Min.X // the rect is zero-width
	if x > g.Rows[newRow].Rect.Max.X {
		return cursor.RCursor.Column
	}
	return g.Rows[newRow].CharAt(x)
}

// CursorBeginOfRow moves to the first column of the cursor's row.
func (g *Galley) CursorBeginOfRow(cursor Cursor) Cursor {
	return g.FromRCursor(RCursor{Row: cursor.RCursor.Row})
}

// CursorEndOfRow moves one past the last character of the cursor's row.
func (g *Galley) CursorEndOfRow(cursor Cursor) Cursor {
	return g.FromRCursor(RCursor{
		Row:    cursor.RCursor.Row,
		Column: g.Rows[cursor.RCursor.Row].CharCountExcludingNewline(),
	})
}
