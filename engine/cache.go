package engine

import (
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/giygas/medicaments-safety/data"
	"github.com/giygas/medicaments-safety/metrics"
)

// alternativesCache memoises scored alternatives per snapshot generation,
// medicine and age. A nil lru disables caching.
type alternativesCache struct {
	lru *lru.Cache[string, []Alternative]
}

func newAlternativesCache(size int) (*alternativesCache, error) {
	if size == 0 {
		return &alternativesCache{}, nil
	}
	c, err := lru.New[string, []Alternative](size)
	if err != nil {
		return nil, fmt.Errorf("creating alternatives cache: %w", err)
	}
	return &alternativesCache{lru: c}, nil
}

func cacheKey(generation uint64, name string, ageMonths *int) string {
	age := "-"
	if ageMonths != nil {
		age = fmt.Sprint(*ageMonths)
	}
	return fmt.Sprintf("%d|%s|%s", generation, data.Key(name), age)
}

// get hands out a copy so callers may not alter the cached slice.
func (c *alternativesCache) get(key string) ([]Alternative, bool) {
	if c.lru == nil {
		return nil, false
	}
	alts, ok := c.lru.Get(key)
	metrics.ObserveCache(ok)
	if !ok {
		return nil, false
	}
	return slices.Clone(alts), true
}

func (c *alternativesCache) add(key string, alts []Alternative) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, slices.Clone(alts))
}

func (c *alternativesCache) purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *alternativesCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
