// Package pantry stores per-owner inventory snapshots and serves the
// pantry-facing HTTP surface, including autocomplete search.
package pantry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"larder/internal/cache"
	"larder/internal/match"
)

type Storage struct {
	cache cache.Cache
}

const keyPrefix = "pantry/"

func NewStorage(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

// Get returns the owner's snapshot; a never-written pantry reads as empty.
// Negative quantities are clamped to zero so the scorer never sees them.
func (s *Storage) Get(ctx context.Context, owner string) ([]match.Item, error) {
	rc, _, err := s.cache.Get(ctx, keyPrefix+owner)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []match.Item{}, nil
		}
		return nil, err
	}
	defer rc.Close()

	var items []match.Item
	if err := json.NewDecoder(rc).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode pantry for %s: %w", owner, err)
	}
	for i := range items {
		if items[i].Quantity < 0 {
			items[i].Quantity = 0
		}
	}
	return items, nil
}

// Put replaces the snapshot wholesale. Inventory edits happen between match
// runs, so last-writer-wins is fine here.
func (s *Storage) Put(ctx context.Context, owner string, items []match.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal pantry for %s: %w", owner, err)
	}
	return s.cache.Put(ctx, keyPrefix+owner, string(data), cache.Unconditional())
}
