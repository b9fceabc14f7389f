package grocery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"larder/internal/match"
)

// Reconciler turns an availability report's missing entries into grocery
// list deltas. Each item's upsert stands alone: a failure mid-batch leaves
// earlier items applied, and the joined error tells the caller which items
// did not land. Whole-batch atomicity belongs to the persistence layer, not
// here.
type Reconciler struct {
	storage *Storage
}

func NewReconciler(storage *Storage) *Reconciler {
	return &Reconciler{storage: storage}
}

// AddMissing merges every missing result into the owner's pending list.
// Entries that are not actually missing, or have nothing to acquire, are
// skipped rather than rejected.
func (r *Reconciler) AddMissing(ctx context.Context, owner string, missing []match.Result) error {
	var errs []error
	for _, m := range missing {
		if !m.IsMissing || m.MissingAmount <= 0 {
			continue
		}
		if err := r.storage.Upsert(ctx, owner, m); err != nil {
			slog.ErrorContext(ctx, "failed to add missing item", "owner", owner, "item", m.Name, "error", err)
			errs = append(errs, fmt.Errorf("add %q: %w", m.Name, err))
		}
	}
	return errors.Join(errs...)
}
