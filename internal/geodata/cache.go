package geodata

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/sardrift/driftsim/internal/models"
)

// DepthCacheCapacity is the hard cap spec.md §5 specifies (~10,000
// entries, FIFO eviction once full).
const DepthCacheCapacity = 10000

// roundKey rounds a coordinate to 1e-4 degrees, the cache key granularity
// spec.md §4.4 specifies.
func roundKey(p models.LatLng) string {
	const scale = 1e4
	latR := float64(int64(p.Lat*scale+sign(p.Lat)*0.5)) / scale
	lngR := float64(int64(p.Lng*scale+sign(p.Lng)*0.5)) / scale
	return fmt.Sprintf("%.4f,%.4f", latR, lngR)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// DepthCache is an LRU cache keyed on (lat, lng) rounded to 1e-4 degrees,
// capped at DepthCacheCapacity entries with FIFO eviction once full
// (spec.md §5). There is no LRU library anywhere in the retrieved pack
// (see DESIGN.md); this is a standard container/list + map structure.
type DepthCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type depthCacheEntry struct {
	key   string
	depth float64
}

// NewDepthCache constructs a cache with the given capacity (0 uses
// DepthCacheCapacity).
func NewDepthCache(capacity int) *DepthCache {
	if capacity <= 0 {
		capacity = DepthCacheCapacity
	}
	return &DepthCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached depth for p, if present.
func (c *DepthCache) Get(p models.LatLng) (float64, bool) {
	key := roundKey(p)
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return 0, false
	}
	return el.Value.(*depthCacheEntry).depth, true
}

// Put inserts or overwrites the cached depth for p, evicting the oldest
// entry (FIFO, per spec.md §5) if the cache is full. Concurrent misses
// that compute the same key are tolerated: whichever Put wins last simply
// overwrites, which is fine since both would have computed the same
// answer.
func (c *DepthCache) Put(p models.LatLng, depthM float64) {
	key := roundKey(p)
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*depthCacheEntry).depth = depthM
		return
	}

	if c.ll.Len() >= c.capacity {
		oldest := c.ll.Front()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*depthCacheEntry).key)
		}
	}

	el := c.ll.PushBack(&depthCacheEntry{key: key, depth: depthM})
	c.items[key] = el
}

// Len returns the current number of cached entries.
func (c *DepthCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
