package twig

import (
	"container/list"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/tevino/abool/v2"
	"github.com/zeebo/blake3"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
	// SweepInterval is how often expired entries are purged. Only used with a TTL.
	SweepInterval time.Duration
}

// TemplateCache is an LRU cache of compiled templates keyed by source text.
// Entries are looked up by the FNV-1a hash of the source and verified against
// its BLAKE3 digest, so a hash collision is a miss.
type TemplateCache struct {
	mu     sync.RWMutex
	cache  map[uint64]*cacheEntry
	lru    *list.List
	config CacheConfig
	logger *Logger

	scheduler gocron.Scheduler
	sweeping  *abool.AtomicBool
}

type cacheEntry struct {
	key         uint64
	fingerprint [32]byte
	template    *Template
	expiry      time.Time
	element     *list.Element
}

// NewTemplateCache creates a cache. With a TTL, expired entries are also swept
// periodically in the background until Close.
func NewTemplateCache(config CacheConfig, logger *Logger) *TemplateCache {
	tc := &TemplateCache{
		cache:    make(map[uint64]*cacheEntry),
		lru:      list.New(),
		config:   config,
		logger:   logger,
		sweeping: abool.NewBool(false),
	}

	if config.MaxSize > 0 && config.TTL > 0 && config.SweepInterval > 0 {
		if err := tc.startSweeper(); err != nil {
			// Expired entries are still dropped on access
			logger.WithField("error", err).Warn("Cache sweeper not started")
		}
	}
	return tc
}

func (tc *TemplateCache) startSweeper() error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = scheduler.NewJob(gocron.DurationJob(tc.config.SweepInterval), gocron.NewTask(tc.sweepTask))
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}
	scheduler.Start()
	tc.scheduler = scheduler
	return nil
}

func (tc *TemplateCache) sweepTask() {
	if !tc.sweeping.SetToIf(false, true) {
		return
	}
	defer tc.sweeping.UnSet()

	if n := tc.Sweep(); n > 0 {
		tc.logger.WithField("removed", n).Debug("Swept expired templates")
	}
}

func cacheKey(source string) (uint64, [32]byte) {
	return fnv1a.HashString64(source), blake3.Sum256([]byte(source))
}

// Get returns the template cached for source.
func (tc *TemplateCache) Get(source string) (*Template, bool) {
	if tc.config.MaxSize == 0 {
		return nil, false
	}
	key, fingerprint := cacheKey(source)

	tc.mu.RLock()
	entry, exists := tc.cache[key]
	tc.mu.RUnlock()

	if !exists || entry.fingerprint != fingerprint {
		return nil, false
	}

	// Check expiry
	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		tc.remove(key, fingerprint)
		return nil, false
	}

	tc.mu.Lock()
	// The entry may have been evicted since the read lock was released
	if tc.cache[key] == entry {
		tc.lru.MoveToFront(entry.element)
	}
	tc.mu.Unlock()

	return entry.template, true
}

// Set caches template under source, evicting the least recently used entry
// when the cache is full.
func (tc *TemplateCache) Set(source string, template *Template) {
	if tc.config.MaxSize == 0 {
		return
	}
	key, fingerprint := cacheKey(source)

	expiry := time.Time{}
	if tc.config.TTL > 0 {
		expiry = time.Now().Add(tc.config.TTL)
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	// Entries are never modified once published; replace instead, including an
	// entry for a colliding source
	if existing, exists := tc.cache[key]; exists {
		delete(tc.cache, key)
		tc.lru.Remove(existing.element)
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		if oldest := tc.lru.Back(); oldest != nil {
			oldEntry := oldest.Value.(*cacheEntry)
			delete(tc.cache, oldEntry.key)
			tc.lru.Remove(oldest)
			if tc.logger.IsDebugMode() {
				tc.logger.WithField("key", oldEntry.key).Debug("Evicted template")
			}
		}
	}

	entry := &cacheEntry{
		key:         key,
		fingerprint: fingerprint,
		template:    template,
		expiry:      expiry,
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Remove drops the template cached for source.
func (tc *TemplateCache) Remove(source string) {
	tc.remove(cacheKey(source))
}

func (tc *TemplateCache) remove(key uint64, fingerprint [32]byte) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists || entry.fingerprint != fingerprint {
		return
	}
	delete(tc.cache, key)
	tc.lru.Remove(entry.element)
}

// Sweep removes expired entries and returns how many were removed.
func (tc *TemplateCache) Sweep() int {
	if tc.config.TTL <= 0 {
		return 0
	}
	now := time.Now()

	tc.mu.Lock()
	defer tc.mu.Unlock()

	removed := 0
	for key, entry := range tc.cache {
		if now.After(entry.expiry) {
			delete(tc.cache, key)
			tc.lru.Remove(entry.element)
			removed++
		}
	}
	return removed
}

// Clear removes all templates from the cache
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[uint64]*cacheEntry)
	tc.lru = list.New()
}

// Size returns the current number of cached templates
func (tc *TemplateCache) Size() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}

// Close stops the background sweeper and clears the cache.
// Close may be called more than once and from several goroutines.
func (tc *TemplateCache) Close() error {
	tc.mu.Lock()
	scheduler := tc.scheduler
	tc.scheduler = nil
	tc.mu.Unlock()

	// Shutdown waits for a running sweep, which needs tc.mu
	var err error
	if scheduler != nil {
		err = scheduler.Shutdown()
	}
	tc.Clear()
	return err
}
