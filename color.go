package galley

// Color32 is a premultiplied RGBA color with 8 bits per channel.
// The zero value is fully transparent.
type Color32 struct {
	R, G, B, A uint8
}

// Common colors.
var (
	ColorTransparent = Color32{}
	ColorBlack       = Color32{A: 255}
	ColorWhite       = Color32{R: 255, G: 255, B: 255, A: 255}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color32 {
	return Color32{R: r, G: g, B: b, A: 255}
}

// IsTransparent reports whether the color would paint nothing.
func (c Color32) IsTransparent() bool {
	return c.A == 0
}

// Stroke describes a line to paint under or through text.
// The zero value paints nothing.
type Stroke struct {
	// Width in points.
	Width float32

	Color Color32
}

// IsNone reports whether the stroke would paint nothing.
func (s Stroke) IsNone() bool {
	return s.Width <= 0 || s.Color.IsTransparent()
}
