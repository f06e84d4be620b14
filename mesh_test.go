package galley

import "testing"

func styledGalley(t *testing.T, mutate func(*TextFormat)) *Galley {
	t.Helper()
	fonts := newTestFonts(t)

	job := SimpleJob("abc", Proportional(14), ColorWhite, infWidth)
	mutate(&job.Sections[0].Format)
	galley, err := fonts.LayoutJob(job)
	if err != nil {
		t.Fatal(err)
	}
	return galley
}

func TestTessellatePlainText(t *testing.T) {
	galley := styledGalley(t, func(*TextFormat) {})

	visuals := galley.Rows[0].Visuals
	if len(visuals.Mesh.Vertices) == 0 {
		t.Fatal("no vertices")
	}
	// Plain text: every vertex belongs to a glyph quad.
	if visuals.GlyphVertexRange != [2]int{0, len(visuals.Mesh.Vertices)} {
		t.Errorf("GlyphVertexRange = %v, want whole mesh", visuals.GlyphVertexRange)
	}
	if len(visuals.Mesh.Vertices) != 3*4 {
		t.Errorf("got %d vertices, want 4 per glyph", len(visuals.Mesh.Vertices))
	}
}

func TestTessellateBackgroundMergesRuns(t *testing.T) {
	galley := styledGalley(t, func(f *TextFormat) {
		f.Background = Color32{R: 40, G: 40, B: 40, A: 255}
	})

	visuals := galley.Rows[0].Visuals
	// Same color and extent across the row: one merged rect before the
	// glyph quads.
	if visuals.GlyphVertexRange[0] != 4 {
		t.Errorf("glyph vertices start at %d, want 4 (one background rect)",
			visuals.GlyphVertexRange[0])
	}
	for _, v := range visuals.Mesh.Vertices[:4] {
		if v.UV != whiteUV {
			t.Error("background vertex does not sample the white texel")
		}
	}
}

func TestTessellateUnderline(t *testing.T) {
	plain := styledGalley(t, func(*TextFormat) {})
	underlined := styledGalley(t, func(f *TextFormat) {
		f.Underline = Stroke{Width: 1, Color: ColorWhite}
	})

	pv := plain.Rows[0].Visuals
	uv := underlined.Rows[0].Visuals
	if len(uv.Mesh.Vertices) != len(pv.Mesh.Vertices)+4 {
		t.Errorf("underline added %d vertices, want 4 (one merged segment)",
			len(uv.Mesh.Vertices)-len(pv.Mesh.Vertices))
	}
	// Decoration vertices come after the glyph range.
	if uv.GlyphVertexRange[1] != len(pv.Mesh.Vertices) {
		t.Errorf("GlyphVertexRange end = %d, want %d",
			uv.GlyphVertexRange[1], len(pv.Mesh.Vertices))
	}
}

func TestTessellateItalicsSkew(t *testing.T) {
	galley := styledGalley(t, func(f *TextFormat) {
		f.Italics = true
	})

	verts := galley.Rows[0].Visuals.Mesh.Vertices
	if len(verts)%4 != 0 {
		t.Fatalf("vertex count %d not a multiple of 4", len(verts))
	}
	for q := 0; q < len(verts); q += 4 {
		leftTop, leftBottom := verts[q], verts[q+2]
		if leftTop.Pos.X <= leftBottom.Pos.X {
			t.Errorf("quad %d not skewed: top x %v <= bottom x %v",
				q/4, leftTop.Pos.X, leftBottom.Pos.X)
		}
	}
}

func TestMeshCalcBounds(t *testing.T) {
	var m Mesh
	m.addColoredRect(rectFromMinMax(pos2(1, 2), pos2(5, 8)), ColorWhite)

	bounds := m.calcBounds()
	if bounds.Min != pos2(1, 2) || bounds.Max != pos2(5, 8) {
		t.Errorf("bounds = %+v", bounds)
	}
}
