package recipes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"larder/internal/match"
	"larder/internal/pantry"
	"larder/internal/users"

	"golang.org/x/sync/errgroup"
)

// batchFanout bounds the goroutines scoring recipes concurrently in the
// batch endpoint.
const batchFanout = 8

type Handler struct {
	storage *Storage
	pantry  *pantry.Storage
	users   *users.Storage
}

func NewHandler(storage *Storage, pantryStorage *pantry.Storage, userStorage *users.Storage) *Handler {
	return &Handler{storage: storage, pantry: pantryStorage, users: userStorage}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/recipes", h.handleRecipes)
	mux.HandleFunc("/availability", h.handleAvailability)
	mux.HandleFunc("/availability/batch", h.handleBatchAvailability)
}

func (h *Handler) resolveOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, "provide an owner id with ?owner=", http.StatusBadRequest)
		return "", false
	}
	if _, err := h.users.GetByID(r.Context(), owner); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			http.Error(w, "unknown owner", http.StatusNotFound)
			return "", false
		}
		slog.ErrorContext(r.Context(), "failed to resolve owner", "owner", owner, "error", err)
		http.Error(w, "unable to load account", http.StatusInternalServerError)
		return "", false
	}
	return owner, true
}

func (h *Handler) handleRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodPost:
		var recipe Recipe
		if err := json.NewDecoder(r.Body).Decode(&recipe); err != nil {
			http.Error(w, "invalid recipe", http.StatusBadRequest)
			return
		}
		if recipe.Name == "" {
			http.Error(w, "recipe name is required", http.StatusBadRequest)
			return
		}
		if err := h.storage.Save(ctx, &recipe); err != nil {
			slog.ErrorContext(ctx, "failed to save recipe", "recipe", recipe.Name, "error", err)
			http.Error(w, "failed to save recipe", http.StatusInternalServerError)
			return
		}
		writeJSON(w, recipe)
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		if id == "" {
			ids, err := h.storage.ListIDs(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to list recipes", "error", err)
				http.Error(w, "failed to list recipes", http.StatusInternalServerError)
				return
			}
			writeJSON(w, ids)
			return
		}
		recipe, err := h.storage.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "unknown recipe", http.StatusNotFound)
				return
			}
			slog.ErrorContext(ctx, "failed to load recipe", "id", id, "error", err)
			http.Error(w, "failed to load recipe", http.StatusInternalServerError)
			return
		}
		writeJSON(w, recipe)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAvailability answers "can I cook this?" for one recipe against the
// owner's current pantry snapshot.
func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	recipeID := r.URL.Query().Get("recipe")
	if recipeID == "" {
		http.Error(w, "provide a recipe id with ?recipe=", http.StatusBadRequest)
		return
	}

	recipe, err := h.storage.Get(ctx, recipeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "unknown recipe", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to load recipe", "id", recipeID, "error", err)
		http.Error(w, "failed to load recipe", http.StatusInternalServerError)
		return
	}

	items, err := h.pantry.Get(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load pantry", "owner", owner, "error", err)
		http.Error(w, "failed to load pantry", http.StatusInternalServerError)
		return
	}

	report := match.CheckAvailability(match.Recipe{Name: recipe.Name, Ingredients: recipe.Ingredients}, items)
	writeJSON(w, report)
}

// handleBatchAvailability scores every stored recipe against the owner's
// pantry. Scoring is pure, so recipes fan out concurrently.
func (h *Handler) handleBatchAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	items, err := h.pantry.Get(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load pantry", "owner", owner, "error", err)
		http.Error(w, "failed to load pantry", http.StatusInternalServerError)
		return
	}

	ids, err := h.storage.ListIDs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list recipes", "error", err)
		http.Error(w, "failed to list recipes", http.StatusInternalServerError)
		return
	}

	reports := make([]match.Report, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchFanout)
	for i, id := range ids {
		g.Go(func() error {
			recipe, err := h.storage.Get(gctx, id)
			if err != nil {
				return err
			}
			reports[i] = match.CheckAvailability(match.Recipe{Name: recipe.Name, Ingredients: recipe.Ingredients}, items)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "failed to score recipes", "owner", owner, "error", err)
		http.Error(w, "failed to score recipes", http.StatusInternalServerError)
		return
	}

	// reports[i] follows ids[i], so the response is already in id order
	writeJSON(w, reports)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
