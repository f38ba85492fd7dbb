package application

import (
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/paulvitic/hotel-booking/ddd"
	"github.com/paulvitic/hotel-booking/hotel/domain"
)

const defaultCleanupInterval = 10 * time.Minute

// availabilityCache memoises availability answers per stay until the next
// room or reservation change flushes it. Every flush starts a new generation;
// an answer read during an older generation is never stored.
type availabilityCache struct {
	cache  *gocache.Cache
	logger *ddd.Logger

	mu         sync.Mutex
	generation uint64
}

func newAvailabilityCache(ttl time.Duration, logger *ddd.Logger) *availabilityCache {
	return &availabilityCache{
		cache:  gocache.New(ttl, defaultCleanupInterval),
		logger: logger,
	}
}

func (c *availabilityCache) get(stay domain.Stay) ([]domain.Room, bool) {
	if c == nil {
		return nil, false
	}
	value, found := c.cache.Get(stay.String())
	if !found {
		return nil, false
	}
	rooms, ok := value.([]domain.Room)
	if !ok {
		c.logger.Error("wrong type cached for stay %s", stay)
		return nil, false
	}
	c.logger.Debug("availability cache hit for %s", stay)
	return slices.Clone(rooms), true
}

// current returns the generation to pass to set; take it before reading the registry.
func (c *availabilityCache) current() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// set stores rooms unless a flush happened since generation was taken.
func (c *availabilityCache) set(stay domain.Stay, rooms []domain.Room, generation uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		c.logger.Debug("availability for %s changed while it was read, not cached", stay)
		return
	}
	c.cache.SetDefault(stay.String(), slices.Clone(rooms))
}

func (c *availabilityCache) flush() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cache.Flush()
}
