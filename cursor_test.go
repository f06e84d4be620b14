package galley

import "testing"

// cursorTestGalley lays out "word wrap.\nNew para." wrapped so it splits
// into the rows "word ", "wrap.", "New " and "para.".
func cursorTestGalley(t *testing.T, fonts *Fonts) *Galley {
	t.Helper()
	id := Monospace(12)
	w, err := fonts.GlyphWidth(id, 'w')
	if err != nil {
		t.Fatalf("GlyphWidth: %v", err)
	}
	galley, err := fonts.LayoutJob(SimpleJob("word wrap.\nNew para.", id, ColorWhite, 5.5*w))
	if err != nil {
		t.Fatalf("LayoutJob: %v", err)
	}
	if len(galley.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(galley.Rows))
	}
	return galley
}

func TestRowCharCounts(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	tests := []struct {
		row       int
		excluding int
		including int
		newline   bool
	}{
		{0, 5, 5, false}, // "word "
		{1, 5, 6, true},  // "wrap." + implicit '\n'
		{2, 4, 4, false}, // "New "
		{3, 5, 5, false}, // "para."
	}

	for _, tt := range tests {
		row := &galley.Rows[tt.row]
		if got := row.CharCountExcludingNewline(); got != tt.excluding {
			t.Errorf("row %d: CharCountExcludingNewline = %d, want %d", tt.row, got, tt.excluding)
		}
		if got := row.CharCountIncludingNewline(); got != tt.including {
			t.Errorf("row %d: CharCountIncludingNewline = %d, want %d", tt.row, got, tt.including)
		}
		if row.EndsWithNewline != tt.newline {
			t.Errorf("row %d: EndsWithNewline = %v, want %v", tt.row, row.EndsWithNewline, tt.newline)
		}
	}
}

func TestGalleyEndCursor(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	end := galley.End()
	want := Cursor{
		CCursor: CCursor{Index: 20},
		RCursor: RCursor{Row: 3, Column: 5},
		PCursor: PCursor{Paragraph: 1, Offset: 9},
	}
	if !end.Equal(want) {
		t.Fatalf("End() = %+v, want %+v", end, want)
	}

	var empty Galley
	if got := empty.End(); !got.Equal(Cursor{}) {
		t.Errorf("empty galley End() = %+v, want zero cursor", got)
	}
}

func TestGalleyCursorRoundTrip(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	tests := []struct {
		name   string
		cursor Cursor
	}{
		{"start", Cursor{}},
		{"end", galley.End()},
		{"first row", galley.FromCCursor(CCursor{Index: 1})},
		{"second paragraph first row", galley.FromPCursor(PCursor{Paragraph: 1, Offset: 2})},
		{"second paragraph second row", galley.FromPCursor(PCursor{Paragraph: 1, Offset: 6})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := galley.FromCCursor(tt.cursor.CCursor); !got.Equal(tt.cursor) {
				t.Errorf("FromCCursor = %+v, want %+v", got, tt.cursor)
			}
			if got := galley.FromRCursor(tt.cursor.RCursor); !got.Equal(tt.cursor) {
				t.Errorf("FromRCursor = %+v, want %+v", got, tt.cursor)
			}
			if got := galley.FromPCursor(tt.cursor.PCursor); !got.Equal(tt.cursor) {
				t.Errorf("FromPCursor = %+v, want %+v", got, tt.cursor)
			}
		})
	}
}

func TestGalleyCursorConversions(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	c := galley.FromCCursor(CCursor{Index: 1})
	if want := (RCursor{Row: 0, Column: 1}); c.RCursor != want {
		t.Errorf("FromCCursor(1).RCursor = %+v, want %+v", c.RCursor, want)
	}
	if want := (PCursor{Paragraph: 0, Offset: 1}); !c.PCursor.Equal(want) {
		t.Errorf("FromCCursor(1).PCursor = %+v, want %+v", c.PCursor, want)
	}

	c = galley.FromPCursor(PCursor{Paragraph: 1, Offset: 2})
	if want := (RCursor{Row: 2, Column: 2}); c.RCursor != want {
		t.Errorf("FromPCursor({1,2}).RCursor = %+v, want %+v", c.RCursor, want)
	}

	c = galley.FromPCursor(PCursor{Paragraph: 1, Offset: 6})
	if want := (RCursor{Row: 3, Column: 2}); c.RCursor != want {
		t.Errorf("FromPCursor({1,6}).RCursor = %+v, want %+v", c.RCursor, want)
	}
}

// The character offset 5 sits on the wrap boundary between "word " and
// "wrap.": both row cursors resolve to the same text position.
func TestGalleyWrapBoundary(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	endOfFirst := galley.FromRCursor(RCursor{Row: 0, Column: 5})
	startOfSecond := galley.FromRCursor(RCursor{Row: 1, Column: 0})

	for _, c := range []Cursor{endOfFirst, startOfSecond} {
		if c.CCursor.Index != 5 {
			t.Errorf("CCursor.Index = %d, want 5", c.CCursor.Index)
		}
		if want := (PCursor{Paragraph: 0, Offset: 5}); !c.PCursor.Equal(want) {
			t.Errorf("PCursor = %+v, want %+v", c.PCursor, want)
		}
	}
	if endOfFirst.RCursor == startOfSecond.RCursor {
		t.Error("the two row cursors should stay distinct")
	}
	if got := galley.FromRCursor(endOfFirst.RCursor); !got.Equal(endOfFirst) {
		t.Errorf("FromRCursor(end of first) = %+v, want %+v", got, endOfFirst)
	}
	if got := galley.FromRCursor(startOfSecond.RCursor); !got.Equal(startOfSecond) {
		t.Errorf("FromRCursor(start of second) = %+v, want %+v", got, startOfSecond)
	}
}

func TestGalleyCursorNavigation(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))
	start := Cursor{}

	if got := galley.CursorUpOneRow(start); !got.Equal(start) {
		t.Errorf("up from start = %+v, want start", got)
	}
	if got := galley.CursorBeginOfRow(start); !got.Equal(start) {
		t.Errorf("begin of row from start = %+v, want start", got)
	}

	endOfRow := galley.CursorEndOfRow(start)
	if want := (RCursor{Row: 0, Column: 5}); endOfRow.RCursor != want || endOfRow.CCursor.Index != 5 {
		t.Errorf("end of first row = %+v", endOfRow)
	}

	down := galley.CursorDownOneRow(start)
	if want := (RCursor{Row: 1, Column: 0}); down.RCursor != want || down.CCursor.Index != 5 {
		t.Errorf("down one row = %+v", down)
	}

	downTwice := galley.CursorDownOneRow(down)
	want := Cursor{
		CCursor: CCursor{Index: 11},
		RCursor: RCursor{Row: 2, Column: 0},
		PCursor: PCursor{Paragraph: 1, Offset: 0},
	}
	if !downTwice.Equal(want) {
		t.Errorf("down two rows = %+v, want %+v", downTwice, want)
	}

	end := galley.End()
	if got := galley.CursorDownOneRow(end); !got.Equal(end) {
		t.Errorf("down from end = %+v, want end", got)
	}

	upFromEnd := galley.CursorUpOneRow(end)
	want = Cursor{
		CCursor: CCursor{Index: 15},
		RCursor: RCursor{Row: 2, Column: 5},
		PCursor: PCursor{Paragraph: 1, Offset: 4},
	}
	if !upFromEnd.Equal(want) {
		t.Errorf("up from end = %+v, want %+v", upFromEnd, want)
	}

	if got := galley.CursorLeftOneCharacter(start); !got.Equal(start) {
		t.Errorf("left from start = %+v, want start", got)
	}
	right := galley.CursorRightOneCharacter(start)
	if right.CCursor.Index != 1 {
		t.Errorf("right from start = %+v, want index 1", right)
	}
	if got := galley.CursorLeftOneCharacter(right); !got.Equal(start) {
		t.Errorf("left after right = %+v, want start", got)
	}
}

func TestGalleyCursorFromPos(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	row0 := &galley.Rows[0]
	g1 := &row0.Glyphs[1]
	inGlyph := pos2(g1.Pos.X+0.25*g1.Size.X, (row0.Rect.Min.Y+row0.Rect.Max.Y)/2)
	if got := galley.CursorFromPos(inGlyph); got.CCursor.Index != 1 {
		t.Errorf("cursor in second glyph = %+v, want index 1", got)
	}

	if got := galley.CursorFromPos(pos2(-100, -100)); got.CCursor.Index != 0 {
		t.Errorf("cursor above galley = %+v, want index 0", got)
	}

	below := galley.CursorFromPos(pos2(0, galley.Rect.Max.Y+1000))
	if want := (RCursor{Row: 3, Column: 0}); below.RCursor != want {
		t.Errorf("cursor below galley = %+v, want %+v", below.RCursor, want)
	}
}

func TestGalleyPosFromCursor(t *testing.T) {
	galley := cursorTestGalley(t, newTestFonts(t))

	cursor := galley.FromRCursor(RCursor{Row: 1, Column: 2})
	rect := galley.PosFromCursor(cursor)

	row1 := &galley.Rows[1]
	if rect.Width() != 0 {
		t.Errorf("cursor rect width = %v, want 0", rect.Width())
	}
	if rect.Min.X != row1.Glyphs[2].Pos.X {
		t.Errorf("cursor rect x = %v, want %v", rect.Min.X, row1.Glyphs[2].Pos.X)
	}
	if rect.Min.Y != row1.Rect.Min.Y || rect.Max.Y != row1.Rect.Max.Y {
		t.Errorf("cursor rect y range = [%v, %v], want [%v, %v]",
			rect.Min.Y, rect.Max.Y, row1.Rect.Min.Y, row1.Rect.Max.Y)
	}

	// One past the last character of the galley.
	endRect := galley.PosFromCursor(galley.End())
	lastRow := &galley.Rows[len(galley.Rows)-1]
	if endRect.Min.X != lastRow.Rect.Max.X {
		t.Errorf("end cursor x = %v, want %v", endRect.Min.X, lastRow.Rect.Max.X)
	}
}
