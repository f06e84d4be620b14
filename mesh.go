package galley

import "math"

// whiteUV samples the center of the white pixel reserved at the atlas
// origin. Solid-color geometry (backgrounds, underlines) uses it so that
// everything in a row can be drawn with a single texture.
var whiteUV = pos2(0.5, 0.5)

// Vertex is one textured, colored point of a row mesh. UV is in texel
// coordinates of the font atlas.
type Vertex struct {
	Pos   Pos2
	UV    Pos2
	Color Color32
}

// Mesh is triangle geometry for one row of text.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

func (m *Mesh) reserve(triangles, vertices int) {
	if cap(m.Indices)-len(m.Indices) < 3*triangles {
		indices := make([]uint32, len(m.Indices), len(m.Indices)+3*triangles)
		copy(indices, m.Indices)
		m.Indices = indices
	}
	if cap(m.Vertices)-len(m.Vertices) < vertices {
		verts := make([]Vertex, len(m.Vertices), len(m.Vertices)+vertices)
		copy(verts, m.Vertices)
		m.Vertices = verts
	}
}

func (m *Mesh) addTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// addRectWithUV adds a rectangle textured by the uv rectangle (in texels).
func (m *Mesh) addRectWithUV(rect, uv Rect, color Color32) {
	idx := uint32(len(m.Vertices))
	m.addTriangle(idx, idx+1, idx+2)
	m.addTriangle(idx+2, idx+1, idx+3)

	m.Vertices = append(m.Vertices,
		Vertex{Pos: rect.Min, UV: uv.Min, Color: color},
		Vertex{Pos: pos2(rect.Max.X, rect.Min.Y), UV: pos2(uv.Max.X, uv.Min.Y), Color: color},
		Vertex{Pos: pos2(rect.Min.X, rect.Max.Y), UV: pos2(uv.Min.X, uv.Max.Y), Color: color},
		Vertex{Pos: rect.Max, UV: uv.Max, Color: color},
	)
}

// addColoredRect adds a solid rectangle sampling the white atlas pixel.
func (m *Mesh) addColoredRect(rect Rect, color Color32) {
	m.addRectWithUV(rect, rectFromMinMax(whiteUV, whiteUV), color)
}

// calcBounds returns the bounding rectangle of all vertices.
func (m *Mesh) calcBounds() Rect {
	bounds := rectNothing
	for i := range m.Vertices {
		p := m.Vertices[i].Pos
		bounds.Min.X = min32(bounds.Min.X, p.X)
		bounds.Min.Y = min32(bounds.Min.Y, p.Y)
		bounds.Max.X = max32(bounds.Max.X, p.X)
		bounds.Max.Y = max32(bounds.Max.Y, p.Y)
	}
	return bounds
}

// RowVisuals is the tessellated geometry of one row.
type RowVisuals struct {
	Mesh Mesh

	// MeshBounds covers the mesh vertices in galley-local coordinates.
	// Can be slightly larger than the row's logical rect, e.g. when a
	// glyph overshoots its advance.
	MeshBounds Rect

	// GlyphVertexRange is the [start, end) vertex range holding the glyph
	// quads, so a painter can recolor text without touching backgrounds
	// or line decorations.
	GlyphVertexRange [2]int
}

// formatSummary records which decoration passes a job needs at all, so
// rows without backgrounds or lines skip those passes entirely.
type formatSummary struct {
	anyBackground    bool
	anyUnderline     bool
	anyStrikethrough bool
}

func summarizeFormats(job *LayoutJob) formatSummary {
	var s formatSummary
	for i := range job.Sections {
		format := &job.Sections[i].Format
		s.anyBackground = s.anyBackground || !format.Background.IsTransparent()
		s.anyUnderline = s.anyUnderline || !format.Underline.IsNone()
		s.anyStrikethrough = s.anyStrikethrough || !format.Strikethrough.IsNone()
	}
	return s
}

func tessellateRow(scale pointScale, job *LayoutJob, summary formatSummary, row *Row) RowVisuals {
	if len(row.Glyphs) == 0 {
		return RowVisuals{MeshBounds: rectNothing}
	}

	var mesh Mesh
	mesh.reserve(2*len(row.Glyphs), 4*len(row.Glyphs))

	if summary.anyBackground {
		addRowBackgrounds(job, row, &mesh)
	}

	glyphVertexStart := len(mesh.Vertices)
	tessellateGlyphs(scale, job, row, &mesh)
	glyphVertexEnd := len(mesh.Vertices)

	if summary.anyUnderline {
		addRowHline(scale, row, &mesh, func(g *Glyph) (Stroke, float32) {
			format := &job.Sections[g.SectionIndex].Format
			return format.Underline, g.LogicalRect().Max.Y
		})
	}
	if summary.anyStrikethrough {
		addRowHline(scale, row, &mesh, func(g *Glyph) (Stroke, float32) {
			format := &job.Sections[g.SectionIndex].Format
			r := g.LogicalRect()
			return format.Strikethrough, (r.Min.Y + r.Max.Y) / 2
		})
	}

	return RowVisuals{
		Mesh:             mesh,
		MeshBounds:       mesh.calcBounds(),
		GlyphVertexRange: [2]int{glyphVertexStart, glyphVertexEnd},
	}
}

// addRowBackgrounds emits background rectangles, merging adjacent glyphs
// with the same color and vertical extent into as few quads as possible.
func addRowBackgrounds(job *LayoutJob, row *Row, mesh *Mesh) {
	type run struct {
		color Color32
		rect  Rect
	}

	var current *run
	endRun := func(stopX float32) {
		if current != nil {
			rect := rectFromMinMax(current.rect.Min, pos2(stopX, current.rect.Max.Y))
			mesh.addColoredRect(rect.Expand(1), current.color) // looks better
			current = nil
		}
	}

	lastRight := float32(math.NaN())
	for i := range row.Glyphs {
		g := &row.Glyphs[i]
		color := job.Sections[g.SectionIndex].Format.Background
		rect := g.LogicalRect()

		switch {
		case color.IsTransparent():
			endRun(lastRight)
		case current != nil:
			if current.color == color &&
				current.rect.Min.Y == rect.Min.Y &&
				current.rect.Max.Y == rect.Max.Y {
				// continue the same background rectangle
			} else {
				endRun(lastRight)
				current = &run{color: color, rect: rect}
			}
		default:
			current = &run{color: color, rect: rect}
		}

		lastRight = rect.Max.X
	}
	endRun(lastRight)
}

func tessellateGlyphs(scale pointScale, job *LayoutJob, row *Row, mesh *Mesh) {
	for i := range row.Glyphs {
		g := &row.Glyphs[i]
		uvRect := g.UvRect
		if uvRect.IsNothing() {
			continue
		}

		leftTop := g.Pos.Add(uvRect.Offset)
		leftTop.X = scale.roundToPixel(leftTop.X)
		leftTop.Y = scale.roundToPixel(leftTop.Y)
		rect := rectFromMinSize(leftTop, uvRect.Size)
		uv := rectFromMinMax(
			pos2(float32(uvRect.Min[0]), float32(uvRect.Min[1])),
			pos2(float32(uvRect.Max[0]), float32(uvRect.Max[1])),
		)

		format := &job.Sections[g.SectionIndex].Format
		color := format.Color

		if format.Italics {
			// Fake italics: shear the top of the quad to the right.
			idx := uint32(len(mesh.Vertices))
			mesh.addTriangle(idx, idx+1, idx+2)
			mesh.addTriangle(idx+2, idx+1, idx+3)

			topOffset := rect.Height() * 0.25
			mesh.Vertices = append(mesh.Vertices,
				Vertex{Pos: pos2(rect.Min.X+topOffset, rect.Min.Y), UV: uv.Min, Color: color},
				Vertex{Pos: pos2(rect.Max.X+topOffset, rect.Min.Y), UV: pos2(uv.Max.X, uv.Min.Y), Color: color},
				Vertex{Pos: pos2(rect.Min.X, rect.Max.Y), UV: pos2(uv.Min.X, uv.Max.Y), Color: color},
				Vertex{Pos: rect.Max, UV: uv.Max, Color: color},
			)
		} else {
			mesh.addRectWithUV(rect, uv, color)
		}
	}
}

// addRowHline draws a horizontal decoration (underline or strikethrough)
// under consecutive glyphs that share the same stroke and baseline,
// merging them into single segments.
func addRowHline(scale pointScale, row *Row, mesh *Mesh, strokeAndY func(*Glyph) (Stroke, float32)) {
	type line struct {
		stroke Stroke
		start  Pos2
	}

	var current *line
	endLine := func(stopX float32) {
		if current != nil {
			addHline(scale, current.start, pos2(stopX, current.start.Y), current.stroke, mesh)
			current = nil
		}
	}

	lastRight := float32(math.NaN())
	for i := range row.Glyphs {
		g := &row.Glyphs[i]
		stroke, y := strokeAndY(g)

		switch {
		case stroke.IsNone():
			endLine(lastRight)
		case current != nil:
			if current.stroke == stroke && current.start.Y == y {
				// continue the same line
			} else {
				endLine(lastRight)
				current = &line{stroke: stroke, start: pos2(g.Pos.X, y)}
			}
		default:
			current = &line{stroke: stroke, start: pos2(g.Pos.X, y)}
		}

		lastRight = g.MaxX()
	}
	endLine(lastRight)
}

// addHline emits one horizontal stroke as a pixel-aligned rectangle that
// is at least one pixel tall, so thin lines don't vanish.
func addHline(scale pointScale, start, stop Pos2, stroke Stroke, mesh *Mesh) {
	minY := scale.roundToPixel(start.Y - 0.5*stroke.Width)
	maxY := scale.roundToPixel(minY + stroke.Width)
	if maxY <= minY {
		maxY = minY + 1.0/scale.pixelsPerPoint
	}

	rect := rectFromMinMax(
		pos2(scale.roundToPixel(start.X), minY),
		pos2(scale.roundToPixel(stop.X), maxY),
	)
	mesh.addColoredRect(rect, stroke.Color)
}
