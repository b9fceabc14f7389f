// Package recipes stores recipe definitions and serves the availability
// surface: given a recipe and an owner's pantry snapshot, what's missing?
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"larder/internal/cache"
	"larder/internal/match"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Recipe is a stored recipe definition. Ingredients are immutable once a
// match run starts; edits create a new revision via Save.
type Recipe struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Ingredients []match.Requirement `json:"ingredients"`
}

type Storage struct {
	cache cache.ListCache
}

var ErrNotFound = errors.New("recipe not found")

const keyPrefix = "recipe/"

func NewStorage(c cache.ListCache) *Storage {
	return &Storage{cache: c}
}

// Save stores a recipe, assigning an id when absent. Ids are create-only:
// writing an existing id is a conflict, not an overwrite.
func (s *Storage) Save(ctx context.Context, recipe *Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	data := lo.Must(json.Marshal(recipe))
	if err := s.cache.Put(ctx, keyPrefix+recipe.ID, string(data), cache.IfNoneMatch()); err != nil {
		if errors.Is(err, cache.ErrAlreadyExists) {
			return fmt.Errorf("recipe %s: %w", recipe.ID, cache.ErrAlreadyExists)
		}
		slog.ErrorContext(ctx, "failed to store recipe", "recipe", recipe.Name, "error", err)
		return err
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, id string) (*Recipe, error) {
	rc, _, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	var recipe Recipe
	if err := json.NewDecoder(rc).Decode(&recipe); err != nil {
		return nil, fmt.Errorf("failed to decode recipe %s: %w", id, err)
	}
	return &recipe, nil
}

// ListIDs returns the ids of every stored recipe, sorted.
func (s *Storage) ListIDs(ctx context.Context) ([]string, error) {
	return s.cache.List(ctx, keyPrefix)
}
