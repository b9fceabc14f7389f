// Package grocery persists the pending grocery list and reconciles missing
// ingredients into it. The pending entry for an (owner, item) pair lives at
// exactly one key, which is what makes the upsert's uniqueness invariant
// hold across backends.
package grocery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"larder/internal/cache"
	"larder/internal/match"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPurchased Status = "purchased"
)

type Entry struct {
	Owner     string    `json:"owner"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Storage struct {
	cache cache.ListCache
}

// ErrConflict reports a lost write race on a pending entry. The store makes
// one attempt and surfaces the conflict; retry policy belongs to the caller.
var ErrConflict = errors.New("concurrent grocery list update")

var ErrNotFound = errors.New("grocery entry not found")

func NewStorage(c cache.ListCache) *Storage {
	return &Storage{cache: c}
}

func pendingPrefix(owner string) string {
	return "grocery/" + owner + "/pending/"
}

func pendingKey(owner, normalizedName string) string {
	return pendingPrefix(owner) + normalizedName
}

func purchasedKey(owner, normalizedName string, at time.Time) string {
	return "grocery/" + owner + "/purchased/" + normalizedName + "/" + strconv.FormatInt(at.UnixNano(), 10)
}

// Upsert merges a missing-item delta into the owner's pending entry for the
// item: increment if present, create otherwise. Both arms are conditional
// writes, so two concurrent upserts for the same key cannot silently drop an
// increment; the loser fails with ErrConflict.
func (s *Storage) Upsert(ctx context.Context, owner string, delta match.Result) error {
	name := match.Normalize(delta.Name)
	if name == "" {
		return fmt.Errorf("missing item has no name")
	}
	key := pendingKey(owner, name)
	now := time.Now().UTC()

	rc, etag, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			return fmt.Errorf("failed to read grocery entry %s: %w", key, err)
		}
		entry := Entry{
			Owner:     owner,
			Name:      delta.Name,
			Quantity:  delta.MissingAmount,
			Unit:      delta.Unit,
			Status:    StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal grocery entry: %w", err)
		}
		if err := s.cache.Put(ctx, key, string(data), cache.IfNoneMatch()); err != nil {
			if errors.Is(err, cache.ErrAlreadyExists) {
				return fmt.Errorf("create of %s lost a race: %w", key, ErrConflict)
			}
			return fmt.Errorf("failed to create grocery entry %s: %w", key, err)
		}
		return nil
	}
	defer rc.Close()

	var entry Entry
	if err := json.NewDecoder(rc).Decode(&entry); err != nil {
		return fmt.Errorf("failed to decode grocery entry %s: %w", key, err)
	}
	entry.Quantity += delta.MissingAmount
	entry.Unit = delta.Unit
	entry.UpdatedAt = now

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal grocery entry: %w", err)
	}
	if err := s.cache.Put(ctx, key, string(data), cache.IfMatch(etag)); err != nil {
		if errors.Is(err, cache.ErrPreconditionFailed) {
			return fmt.Errorf("increment of %s lost a race: %w", key, ErrConflict)
		}
		return fmt.Errorf("failed to update grocery entry %s: %w", key, err)
	}
	return nil
}

// Pending returns the owner's pending entries sorted by normalized name.
func (s *Storage) Pending(ctx context.Context, owner string) ([]Entry, error) {
	names, err := s.cache.List(ctx, pendingPrefix(owner))
	if err != nil {
		return nil, fmt.Errorf("failed to list grocery entries for %s: %w", owner, err)
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		rc, _, err := s.cache.Get(ctx, pendingKey(owner, name))
		if err != nil {
			if errors.Is(err, cache.ErrNotFound) {
				// purchased after the list call; skip
				continue
			}
			return nil, err
		}
		var entry Entry
		err = json.NewDecoder(rc).Decode(&entry)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode grocery entry %s: %w", name, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Purchase transitions a pending entry to purchased: the entry is archived
// under a timestamped key and the pending slot frees up for future deltas.
func (s *Storage) Purchase(ctx context.Context, owner, itemName string) error {
	name := match.Normalize(itemName)
	key := pendingKey(owner, name)

	rc, _, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read grocery entry %s: %w", key, err)
	}
	var entry Entry
	err = json.NewDecoder(rc).Decode(&entry)
	rc.Close()
	if err != nil {
		return fmt.Errorf("failed to decode grocery entry %s: %w", key, err)
	}

	now := time.Now().UTC()
	entry.Status = StatusPurchased
	entry.UpdatedAt = now
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal grocery entry: %w", err)
	}
	if err := s.cache.Put(ctx, purchasedKey(owner, name, now), string(data), cache.Unconditional()); err != nil {
		return fmt.Errorf("failed to archive grocery entry %s: %w", key, err)
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to clear grocery entry %s: %w", key, err)
	}
	return nil
}
