package galley

import (
	"math"
	"strings"
)

// paragraph is temporary storage before line wrapping: the glyphs between
// two '\n', shaped but not yet wrapped or vertically positioned.
type paragraph struct {
	// cursorX is where the next glyph of the paragraph goes.
	cursorX float32

	glyphs []Glyph

	// emptyParagraphHeight is the row height to use when the paragraph has
	// no glyphs ("\n\n").
	emptyParagraphHeight float32
}

// layout turns a LayoutJob into a Galley.
//
// Most callers should use Fonts.LayoutJob instead, which memoizes the
// result so repeated layouts of the same job are free.
func layout(fonts *fontsImpl, shaper RowShaper, job *LayoutJob) (*Galley, error) {
	paragraphs := []paragraph{{}}
	for i := range job.Sections {
		if err := layoutSection(fonts, shaper, job, uint32(i), &job.Sections[i], &paragraphs); err != nil {
			return nil, err
		}
	}

	scale := pointScale{fonts.pixelsPerPoint}

	rows := rowsFromParagraphs(paragraphs, job.WrapWidth)

	justify := job.Justify && !math.IsInf(float64(job.WrapWidth), 1)
	if justify || job.Halign != AlignLeft {
		for i := range rows {
			isLastRow := i+1 == len(rows)
			justifyRow := justify && !rows[i].EndsWithNewline && !isLastRow
			halignAndJustifyRow(scale, &rows[i], job.Halign, job.WrapWidth, justifyRow)
		}
	}

	return galleyFromRows(scale, job, rows), nil
}

// layoutSection shapes one styled byte range, appending glyphs to the last
// paragraph and starting new paragraphs at every '\n' (when the job breaks
// on newlines).
func layoutSection(
	fonts *fontsImpl,
	shaper RowShaper,
	job *LayoutJob,
	sectionIndex uint32,
	section *Section,
	paragraphs *[]paragraph,
) error {
	font, err := fonts.font(section.Format.FontID)
	if err != nil {
		return err
	}
	fontHeight := font.RowHeight()

	last := func() *paragraph { return &(*paragraphs)[len(*paragraphs)-1] }

	if p := last(); len(p.glyphs) == 0 {
		p.emptyParagraphHeight = fontHeight
	}
	last().cursorX += section.LeadingSpace

	text := job.Text[section.Start:section.End]

	var fragments []string
	if job.BreakOnNewline {
		fragments = strings.Split(text, "\n")
	} else {
		// '\n' stays in the run and shows up as the replacement character.
		fragments = []string{text}
	}

	yPlaceholder := float32(math.NaN()) // assigned during vertical stacking

	for fi, fragment := range fragments {
		if fi > 0 {
			*paragraphs = append(*paragraphs, paragraph{emptyParagraphHeight: fontHeight})
		}
		if fragment == "" {
			continue
		}

		p := last()
		offsets := shaper.RuneOffsets(font, fragment)

		k := 0
		for _, r := range fragment {
			_, info := font.glyphInfo(r)
			p.glyphs = append(p.glyphs, Glyph{
				Char:         r,
				Pos:          pos2(p.cursorX+offsets[k], yPlaceholder),
				Size:         vec2(info.AdvanceWidth, fontHeight),
				UvRect:       info.UvRect,
				SectionIndex: sectionIndex,
			})
			k++
		}

		p.cursorX += offsets[len(offsets)-1]
		p.cursorX = font.roundToPixel(p.cursorX)
	}

	return nil
}

// halignAndJustifyRow translates a row's glyphs for horizontal alignment
// and optionally stretches it to exactly wrapWidth. Leading and trailing
// whitespace is excluded from the aligned extent.
func halignAndJustifyRow(scale pointScale, row *Row, halign Align, wrapWidth float32, justify bool) {
	if len(row.Glyphs) == 0 {
		return
	}

	numLeading := 0
	for _, g := range row.Glyphs {
		if !isRowSpace(g.Char) {
			break
		}
		numLeading++
	}

	rangeStart, rangeEnd := 0, len(row.Glyphs)
	if numLeading != len(row.Glyphs) {
		numTrailing := 0
		for i := len(row.Glyphs) - 1; i >= 0 && isRowSpace(row.Glyphs[i].Char); i-- {
			numTrailing++
		}
		rangeStart, rangeEnd = numLeading, len(row.Glyphs)-numTrailing
	}
	numInRange := rangeEnd - rangeStart

	originalMinX := row.Glyphs[rangeStart].Pos.X
	originalMaxX := row.Glyphs[rangeEnd-1].MaxX()
	originalWidth := originalMaxX - originalMinX

	targetWidth := originalWidth
	if justify && numInRange > 1 {
		targetWidth = wrapWidth
	}

	var targetMinX, targetMaxX float32
	switch halign {
	case AlignCenter:
		targetMinX, targetMaxX = -targetWidth/2, targetWidth/2
	case AlignRight:
		targetMinX, targetMaxX = -targetWidth, 0
	default:
		targetMinX, targetMaxX = 0, targetWidth
	}

	numSpacesInRange := 0
	for _, g := range row.Glyphs[rangeStart:rangeEnd] {
		if isRowSpace(g.Char) {
			numSpacesInRange++
		}
	}

	var extraPerGlyph float32
	if numInRange > 1 {
		extraPerGlyph = (targetWidth - originalWidth) / float32(numInRange-1)
	}
	extraPerGlyph = max32(extraPerGlyph, 0) // don't contract

	var extraPerSpace float32
	if 0 < numSpacesInRange && numSpacesInRange < numInRange {
		// Add an integral number of pixels between each glyph,
		// and add the balance to the spaces:
		extraPerGlyph = scale.floorToPixel(extraPerGlyph)
		extraPerSpace = (targetWidth - originalWidth -
			extraPerGlyph*float32(numInRange-1)) / float32(numSpacesInRange)
	}

	translateX := targetMinX - originalMinX - extraPerGlyph*float32(rangeStart)
	for i := range row.Glyphs {
		g := &row.Glyphs[i]
		g.Pos.X += translateX
		g.Pos.X = scale.roundToPixel(g.Pos.X)
		translateX += extraPerGlyph
		if isRowSpace(g.Char) {
			translateX += extraPerSpace
		}
	}

	// Leading/trailing whitespace is deliberately outside the new rect.
	row.Rect.Min.X = targetMinX
	row.Rect.Max.X = targetMaxX
}

// isRowSpace matches the whitespace that justification stretches.
func isRowSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == nonBreakingSpace
}

// galleyFromRows stacks rows vertically, assigns glyph y positions, and
// tessellates each row's geometry.
func galleyFromRows(scale pointScale, job *LayoutJob, rows []Row) *Galley {
	firstRowMinHeight := job.FirstRowMinHeight
	var cursorY, minX, maxX float32

	for i := range rows {
		row := &rows[i]

		rowHeight := max32(firstRowMinHeight, row.Rect.Height())
		firstRowMinHeight = 0
		for _, g := range row.Glyphs {
			rowHeight = max32(rowHeight, g.Size.Y)
		}
		rowHeight = scale.roundToPixel(rowHeight)

		for gi := range row.Glyphs {
			g := &row.Glyphs[gi]
			valign := job.Sections[g.SectionIndex].Format.Valign
			g.Pos.Y = cursorY + valign.Factor()*(rowHeight-g.Size.Y)
			g.Pos.Y = scale.roundToPixel(g.Pos.Y)
		}

		row.Rect.Min.Y = cursorY
		row.Rect.Max.Y = cursorY + rowHeight

		minX = min32(minX, row.Rect.Min.X)
		maxX = max32(maxX, row.Rect.Max.X)
		cursorY += rowHeight
		cursorY = scale.roundToPixel(cursorY)
	}

	summary := summarizeFormats(job)

	meshBounds := rectNothing
	numVertices, numIndices := 0, 0
	for i := range rows {
		rows[i].Visuals = tessellateRow(scale, job, summary, &rows[i])
		meshBounds = meshBounds.Union(rows[i].Visuals.MeshBounds)
		numVertices += len(rows[i].Visuals.Mesh.Vertices)
		numIndices += len(rows[i].Visuals.Mesh.Indices)
	}

	return &Galley{
		Job:         job,
		Rows:        rows,
		Rect:        rectFromMinMax(pos2(minX, 0), pos2(maxX, cursorY)),
		MeshBounds:  meshBounds,
		NumVertices: numVertices,
		NumIndices:  numIndices,
	}
}
