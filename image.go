package galley

import "image"

// FontImage is a single-channel coverage bitmap: 0 is fully transparent,
// 255 is fully covered. All rasterized glyphs of all fonts share one
// FontImage through the TextureAtlas.
type FontImage struct {
	// W and H are the dimensions in texels.
	W, H int

	// Pixels holds W*H coverage bytes in row-major order.
	Pixels []uint8
}

// NewFontImage returns a cleared w×h coverage image.
func NewFontImage(w, h int) *FontImage {
	return &FontImage{W: w, H: h, Pixels: make([]uint8, w*h)}
}

// At returns the coverage at (x, y).
func (i *FontImage) At(x, y int) uint8 {
	return i.Pixels[y*i.W+x]
}

// Set writes the coverage at (x, y).
func (i *FontImage) Set(x, y int, v uint8) {
	i.Pixels[y*i.W+x] = v
}

// Region copies out the sub-image bounded by r.
func (i *FontImage) Region(r image.Rectangle) *FontImage {
	out := NewFontImage(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		src := (r.Min.Y+y)*i.W + r.Min.X
		copy(out.Pixels[y*out.W:(y+1)*out.W], i.Pixels[src:src+r.Dx()])
	}
	return out
}

// Clone returns a deep copy.
func (i *FontImage) Clone() *FontImage {
	out := &FontImage{W: i.W, H: i.H, Pixels: make([]uint8, len(i.Pixels))}
	copy(out.Pixels, i.Pixels)
	return out
}

// growHeight doubles the image height until it is above required, clamped
// to maxH, keeping the existing pixels. Reports whether the backing store
// was reallocated.
func (i *FontImage) growHeight(required, maxH int) bool {
	h := i.H
	for required >= h {
		h *= 2
	}
	if h > maxH {
		h = maxH
	}
	if h <= i.H {
		return false
	}
	i.H = h
	if i.W*i.H > len(i.Pixels) {
		pixels := make([]uint8, i.W*i.H)
		copy(pixels, i.Pixels)
		i.Pixels = pixels
		return true
	}
	return false
}

// ImageDelta describes a change to the atlas image since the previous
// frame, for incremental GPU texture upload.
type ImageDelta struct {
	// Pos is the top-left corner of Image within the full texture.
	// For a full upload Pos is (0,0) and Full is true.
	Pos image.Point

	// Image holds the changed texels.
	Image *FontImage

	// Full indicates the whole texture must be (re)created:
	// either this is the first frame or the atlas has grown.
	Full bool
}
