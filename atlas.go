package galley

import (
	"image"
	"sync"
	"sync/atomic"
)

// atlasPadding is the number of empty texels left between glyphs. On some
// low-precision GPUs adjacent characters bleed into each other without it.
const atlasPadding = 1

// TextureAtlas packs rasterized glyph coverage for all fonts and sizes into
// one FontImage, where each glyph occupies a small rectangle.
//
// Allocation is a simple shelf packer: glyphs fill the current row left to
// right; when a glyph does not fit the row, a new row starts below the
// tallest glyph of the previous one. The image height doubles on demand up
// to the width (the maximum texture side).
//
// When even the grown atlas is exhausted the packer restarts a third of the
// way down the texture, overwriting old glyphs, and sets the overflow flag.
// The owner should poll Overflowed and rebuild its fonts next frame; text
// keeps rendering (possibly garbled) in the meantime. This is deliberate:
// evicting individual glyphs would invalidate UV rectangles cached inside
// live Galleys, and failing hard would blank all text.
//
// TextureAtlas is safe for concurrent use.
type TextureAtlas struct {
	mu    sync.Mutex
	image *FontImage

	// dirty is the region changed since the last TakeDelta. Empty means no
	// change; fullDirty trumps it and forces a whole-texture upload.
	dirty     image.Rectangle
	fullDirty bool

	// cursor is where the next glyph goes; rowHeight is the tallest glyph
	// in the current row.
	cursor    image.Point
	rowHeight int

	overflowed bool

	// version is bumped on every write. Consumers poll it to know when the
	// GPU copy of the texture is stale.
	version atomic.Uint64
}

// NewTextureAtlas creates an atlas of the given initial size.
// The top-left texel is reserved and fully white, so painters can draw
// solid-colored geometry with a constant UV.
func NewTextureAtlas(width, height int) *TextureAtlas {
	a := &TextureAtlas{
		image:     NewFontImage(width, height),
		fullDirty: true,
	}
	x, y := a.Allocate(1, 1, func(img *FontImage, x, y int) {
		img.Set(x, y, 255)
	})
	if x != 0 || y != 0 {
		panic("galley: white texel not at atlas origin")
	}
	return a
}

// Allocate reserves a w×h region and returns its top-left corner.
// If draw is non-nil it is invoked with the backing image and the corner,
// inside the same critical section as the allocation, so a glyph can never
// be observed half-written or double-allocated under contention.
func (a *TextureAtlas) Allocate(w, h int, draw func(img *FontImage, x, y int)) (x, y int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if w > a.image.W {
		panic("galley: glyph wider than the texture atlas")
	}
	if h > a.maxHeight() {
		panic("galley: glyph taller than the texture atlas")
	}
	if a.cursor.X+w > a.image.W {
		// New row:
		a.cursor.X = 0
		a.cursor.Y += a.rowHeight + atlasPadding
		a.rowHeight = 0
	}

	if h > a.rowHeight {
		a.rowHeight = h
	}
	required := a.cursor.Y + a.rowHeight

	if required > a.maxHeight() {
		Logger().Warn("galley: texture atlas overflowed",
			"width", a.image.W, "height", a.image.H)
		if a.image.growHeight(a.maxHeight(), a.maxHeight()) {
			a.fullDirty = true
		}
		// Restart a bit down: the top rows hold the white texel and the
		// most reused glyphs. A glyph taller than the remaining space
		// moves the restart up so it still fits.
		restartY := a.image.H / 3
		if restartY+h > a.image.H {
			restartY = a.image.H - h
		}
		a.cursor = image.Pt(0, restartY)
		a.rowHeight = h
		a.overflowed = true
	} else if a.image.growHeight(required, a.maxHeight()) {
		a.fullDirty = true
	}

	pos := a.cursor
	a.cursor.X += w + atlasPadding

	a.dirty = a.dirty.Union(image.Rect(pos.X, pos.Y, pos.X+w, pos.Y+h))

	if draw != nil {
		draw(a.image, pos.X, pos.Y)
	}
	a.version.Add(1)

	return pos.X, pos.Y
}

// maxHeight is how tall the image may grow. The initial width is chosen
// from the maximum texture side, so a square texture is the ceiling.
func (a *TextureAtlas) maxHeight() int {
	return a.image.W
}

// Size returns the current texture dimensions in texels.
func (a *TextureAtlas) Size() (w, h int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.image.W, a.image.H
}

// Version returns the write counter. It changes whenever texels change.
func (a *TextureAtlas) Version() uint64 {
	return a.version.Load()
}

// Overflowed reports whether an allocation ran out of packing space since
// the atlas was created. Once set it stays set; rebuild the fonts to clear.
func (a *TextureAtlas) Overflowed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overflowed
}

// FillRatio estimates how much of the atlas is in use, 0 to 1.
// When this gets high it might be time to start over with bigger sizes.
func (a *TextureAtlas) FillRatio() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.overflowed {
		return 1
	}
	return float32(a.cursor.Y+a.rowHeight) / float32(a.maxHeight())
}

// TakeDelta returns the change to the image since the last call, or nil if
// nothing changed. Call once per frame and apply the delta to the GPU copy.
func (a *TextureAtlas) TakeDelta() *ImageDelta {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.fullDirty:
		a.fullDirty = false
		a.dirty = image.Rectangle{}
		return &ImageDelta{Image: a.image.Clone(), Full: true}
	case a.dirty.Empty():
		return nil
	default:
		dirty := a.dirty
		a.dirty = image.Rectangle{}
		return &ImageDelta{Pos: dirty.Min, Image: a.image.Region(dirty)}
	}
}
