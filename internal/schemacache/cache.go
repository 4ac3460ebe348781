// Package schemacache keeps parsed metadata profiles in memory.
package schemacache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/kaltura/kal-metadata-utils/internal/schema"
)

// Fetcher returns the XSD text of a profile. kmeta.MetadataStore satisfies it.
type Fetcher interface {
	FetchSchema(ctx context.Context, profileID string) (string, error)
}

// Cache parses each profile once and keeps the most recently used ones.
// Concurrent requests for the same missing profile share one fetch.
// Safe for concurrent use.
type Cache struct {
	fetcher Fetcher
	opts    []schema.Option
	lru     *lru.Cache[string, *schema.Schema]
	group   singleflight.Group
}

// New creates a cache holding at most size schemas.
// Panics if fetcher is nil or size is not positive.
func New(fetcher Fetcher, size int, opts ...schema.Option) *Cache {
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	c, err := lru.New[string, *schema.Schema](size)
	if err != nil {
		panic(err)
	}
	return &Cache{fetcher: fetcher, opts: opts, lru: c}
}

// Get returns the parsed schema of profileID, fetching it on a miss.
// Failed fetches and parse errors are not cached.
func (c *Cache) Get(ctx context.Context, profileID string) (*schema.Schema, error) {
	if s, ok := c.lru.Get(profileID); ok {
		return s, nil
	}

	v, err, _ := c.group.Do(profileID, func() (interface{}, error) {
		if s, ok := c.lru.Get(profileID); ok {
			return s, nil
		}
		text, err := c.fetcher.FetchSchema(ctx, profileID)
		if err != nil {
			return nil, err
		}
		s, err := schema.Parse(text, c.opts...)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", profileID, err)
		}
		c.lru.Add(profileID, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*schema.Schema), nil
}

// Invalidate drops profileID from the cache.
func (c *Cache) Invalidate(profileID string) {
	c.lru.Remove(profileID)
}

// Len returns the number of cached schemas.
func (c *Cache) Len() int {
	return c.lru.Len()
}
