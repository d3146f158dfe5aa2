package tablebase

import (
	"sync"

	"github.com/chessplay/engine/internal/board"
)

// diskStore is the slice of internal/persist.Store this package needs.
// Declared locally so tablebase doesn't force a persist import on callers
// that never configure disk spill.
type diskStore interface {
	SaveProbe(hash uint64, found bool, wdl int8, dtz int16) error
	LoadProbe(hash uint64) (found, ok bool, wdl int8, dtz int16, err error)
}

// CachedProber wraps another prober with an in-memory cache, optionally
// backed by a disk store so decoded results survive process restarts.
// When the cache is full it drops about half of its entries in map
// iteration order; eviction is not least-recently-used.
type CachedProber struct {
	inner   Prober
	cache   map[uint64]ProbeResult
	mu      sync.RWMutex
	maxSize int
	hits    uint64
	misses  uint64
	store   diskStore
}

// NewCachedProber creates a cached prober wrapping the given prober.
func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	return &CachedProber{
		inner:   inner,
		cache:   make(map[uint64]ProbeResult, cacheSize),
		maxSize: cacheSize,
	}
}

// SetStore attaches a persistent backing store. Once set, probe misses
// check the store before falling through to the underlying prober, and
// every freshly decoded result is written back to it.
func (cp *CachedProber) SetStore(store diskStore) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.store = store
}

func (cp *CachedProber) Probe(pos *board.Position) ProbeResult {
	// Check in-memory cache first
	cp.mu.RLock()
	if result, ok := cp.cache[pos.Hash]; ok {
		cp.mu.RUnlock()
		cp.mu.Lock()
		cp.hits++
		cp.mu.Unlock()
		return result
	}
	store := cp.store
	cp.mu.RUnlock()

	// Check the disk-backed cache next, if one is configured.
	if store != nil {
		if found, ok, wdl, dtz, err := store.LoadProbe(pos.Hash); err == nil && ok {
			result := ProbeResult{Found: found, WDL: WDL(wdl), DTZ: int(dtz)}
			cp.mu.Lock()
			cp.hits++
			cp.cacheLocked(pos.Hash, result)
			cp.mu.Unlock()
			return result
		}
	}

	// Cache miss - probe underlying
	result := cp.inner.Probe(pos)

	cp.mu.Lock()
	cp.misses++
	cp.cacheLocked(pos.Hash, result)
	cp.mu.Unlock()

	if store != nil {
		_ = store.SaveProbe(pos.Hash, result.Found, int8(result.WDL), int16(result.DTZ))
	}

	return result
}

// cacheLocked inserts result into the in-memory cache. Caller holds cp.mu.
func (cp *CachedProber) cacheLocked(hash uint64, result ProbeResult) {
	if len(cp.cache) >= cp.maxSize {
		// Simple eviction: clear half the cache
		i := 0
		for k := range cp.cache {
			if i >= cp.maxSize/2 {
				break
			}
			delete(cp.cache, k)
			i++
		}
	}
	cp.cache[hash] = result
}

func (cp *CachedProber) ProbeRoot(pos *board.Position) RootResult {
	// Root probing is not cached (needs move info)
	return cp.inner.ProbeRoot(pos)
}

func (cp *CachedProber) MaxPieces() int {
	return cp.inner.MaxPieces()
}

func (cp *CachedProber) Available() bool {
	return cp.inner.Available()
}

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	total := cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}

// CacheSize returns the current number of cached entries.
func (cp *CachedProber) CacheSize() int {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	return len(cp.cache)
}

// Clear clears the cache.
func (cp *CachedProber) Clear() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.cache = make(map[uint64]ProbeResult, cp.maxSize)
	cp.hits = 0
	cp.misses = 0
}
