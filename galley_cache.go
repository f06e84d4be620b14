package galley

import "sync/atomic"

// cachedGalley is a memoized layout result stamped with the frame it was
// last requested in.
type cachedGalley struct {
	lastUsed uint32
	galley   *Galley
}

// galleyCache memoizes layout results keyed by the job hash. Entries not
// requested during a frame are evicted when the frame ends, so the cache
// tracks the set of text currently on screen.
//
// Not safe for concurrent use on its own; Fonts serializes access.
type galleyCache struct {
	generation uint32
	cache      map[uint64]*cachedGalley

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

func newGalleyCache() *galleyCache {
	return &galleyCache{cache: make(map[uint64]*cachedGalley)}
}

// CacheStats reports galley cache activity since the process started.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

func (c *galleyCache) layout(fonts *fontsImpl, shaper RowShaper, job *LayoutJob) (*Galley, error) {
	key := job.Hash()

	if entry, ok := c.cache[key]; ok {
		c.hits.Add(1)
		entry.lastUsed = c.generation
		return entry.galley, nil
	}

	c.misses.Add(1)
	galley, err := layout(fonts, shaper, job)
	if err != nil {
		return nil, err
	}
	c.cache[key] = &cachedGalley{lastUsed: c.generation, galley: galley}
	return galley, nil
}

func (c *galleyCache) numGalleys() int { return len(c.cache) }

// endFrame evicts every entry that was not requested since the previous
// endFrame, then advances the generation counter.
func (c *galleyCache) endFrame() {
	before := len(c.cache)
	for key, entry := range c.cache {
		if entry.lastUsed != c.generation {
			delete(c.cache, key)
		}
	}
	if evicted := before - len(c.cache); evicted > 0 {
		c.evictions.Add(uint64(evicted))
	}
	c.generation++ // wraps around; stale entries die within one frame anyway
}

func (c *galleyCache) stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   len(c.cache),
	}
}
