package galley

import "math"

// All geometry uses logical points (f32), not physical pixels.
// pixelsPerPoint converts between the two; see pointScale.

// Vec2 is a 2D vector or size in points.
type Vec2 struct {
	X, Y float32
}

// vec2 is a convenience constructor.
func vec2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Add returns the component-wise sum.
func (v Vec2) Add(w Vec2) Vec2 { return Vec2{v.X + w.X, v.Y + w.Y} }

// Div returns the vector divided by a scalar.
func (v Vec2) Div(s float32) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Pos2 is a 2D position in points.
type Pos2 struct {
	X, Y float32
}

// pos2 is a convenience constructor.
func pos2(x, y float32) Pos2 { return Pos2{X: x, Y: y} }

// Add returns the position translated by a vector.
func (p Pos2) Add(v Vec2) Pos2 { return Pos2{p.X + v.X, p.Y + v.Y} }

// Rect is an axis-aligned rectangle in points, Min inclusive, Max exclusive.
type Rect struct {
	Min, Max Pos2
}

// rectNothing is the degenerate rectangle that unions as the identity.
// Width and Height of it are meaningless.
var rectNothing = Rect{
	Min: pos2(float32(math.Inf(1)), float32(math.Inf(1))),
	Max: pos2(float32(math.Inf(-1)), float32(math.Inf(-1))),
}

// rectFromMinMax builds a rectangle from two corners.
func rectFromMinMax(min, max Pos2) Rect { return Rect{Min: min, Max: max} }

// rectFromMinSize builds a rectangle from its top-left corner and size.
func rectFromMinSize(min Pos2, size Vec2) Rect {
	return Rect{Min: min, Max: min.Add(size)}
}

// rectFromXRange builds a rectangle spanning [minX, maxX] with zero height.
// Used during line breaking, where y is not yet known.
func rectFromXRange(minX, maxX float32) Rect {
	return Rect{Min: pos2(minX, 0), Max: pos2(maxX, 0)}
}

// Width returns Max.X - Min.X.
func (r Rect) Width() float32 { return r.Max.X - r.Min.X }

// Height returns Max.Y - Min.Y.
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }

// Size returns the rectangle's extent.
func (r Rect) Size() Vec2 { return vec2(r.Width(), r.Height()) }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: pos2(min32(r.Min.X, o.Min.X), min32(r.Min.Y, o.Min.Y)),
		Max: pos2(max32(r.Max.X, o.Max.X), max32(r.Max.Y, o.Max.Y)),
	}
}

// Expand returns the rectangle grown by d on every side.
func (r Rect) Expand(d float32) Rect {
	return Rect{
		Min: pos2(r.Min.X-d, r.Min.Y-d),
		Max: pos2(r.Max.X+d, r.Max.Y+d),
	}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func abs32(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

// pointScale carries the GUI scale and rounds point coordinates to whole
// device pixels. The snapping is load-bearing: without it cumulative glyph
// offsets drift between pixels and bitmap-hinted fonts look unevenly spaced.
type pointScale struct {
	pixelsPerPoint float32
}

// roundToPixel rounds a point coordinate to the nearest device pixel.
func (s pointScale) roundToPixel(point float32) float32 {
	return float32(math.Round(float64(point*s.pixelsPerPoint))) / s.pixelsPerPoint
}

// floorToPixel rounds a point coordinate down to a device pixel.
func (s pointScale) floorToPixel(point float32) float32 {
	return float32(math.Floor(float64(point*s.pixelsPerPoint))) / s.pixelsPerPoint
}
