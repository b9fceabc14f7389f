package cache

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// InMemoryCache stores entries in process memory. Used by tests and as the
// zero-setup default for ad hoc runs.
type InMemoryCache struct {
	mu   sync.RWMutex
	rev  uint64
	data map[string]memoryEntry
}

type memoryEntry struct {
	value string
	etag  ETag
}

var _ ListCache = (*InMemoryCache)(nil)

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		data: make(map[string]memoryEntry),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (io.ReadCloser, ETag, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, "", ErrNotFound
	}
	return io.NopCloser(strings.NewReader(entry.value)), entry.etag, nil
}

func (c *InMemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	_, ok := c.data[key]
	c.mu.RUnlock()
	return ok, nil
}

func (c *InMemoryCache) Put(_ context.Context, key, value string, opts PutOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.data[key]
	switch opts.Condition {
	case PutIfNoneMatch:
		if exists {
			return ErrAlreadyExists
		}
	case PutIfMatch:
		if !exists || existing.etag != opts.ETag {
			return ErrPreconditionFailed
		}
	}

	c.rev++
	c.data[key] = memoryEntry{value: value, etag: ETag(strconv.FormatUint(c.rev, 10))}
	return nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) List(_ context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	keys := make([]string, 0)
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, strings.TrimPrefix(key, prefix))
		}
	}
	c.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
