package pikere

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes compiled patterns.
//
// The most recently used patterns are kept up to a fixed count. Concurrent
// misses for the same pattern compile it once and share the result.
// Compilation errors are returned but not cached.
//
// Example:
//
//	cache, _ := pikere.NewCache(128, pikere.DefaultConfig())
//	re, err := cache.Compile(userPattern)
type Cache struct {
	config  Config
	entries *lru.Cache[string, *Regex]
	group   singleflight.Group
}

// NewCache creates a cache holding up to size compiled patterns, all
// compiled with config.
func NewCache(size int, config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	entries, err := lru.New[string, *Regex](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		config:  config,
		entries: entries,
	}, nil
}

// Compile returns the cached Regex for pattern, compiling it on a miss.
func (c *Cache) Compile(pattern string) (*Regex, error) {
	if re, ok := c.entries.Get(pattern); ok {
		return re, nil
	}
	v, err, _ := c.group.Do(pattern, func() (any, error) {
		if re, ok := c.entries.Get(pattern); ok {
			return re, nil
		}
		re, err := CompileWithConfig(pattern, c.config)
		if err != nil {
			return nil, err
		}
		c.entries.Add(pattern, re)
		return re, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Regex), nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached pattern.
func (c *Cache) Purge() {
	c.entries.Purge()
}
