package grocery

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"larder/internal/match"
	"larder/internal/users"

	"github.com/samber/lo"
)

type Handler struct {
	storage    *Storage
	reconciler *Reconciler
	users      *users.Storage
}

func NewHandler(storage *Storage, reconciler *Reconciler, userStorage *users.Storage) *Handler {
	return &Handler{storage: storage, reconciler: reconciler, users: userStorage}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/grocery", h.handleList)
	mux.HandleFunc("/grocery/missing", h.handleAddMissing)
	mux.HandleFunc("/grocery/purchase", h.handlePurchase)
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

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	entries, err := h.storage.Pending(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load grocery list", "owner", owner, "error", err)
		http.Error(w, "failed to load grocery list", http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// handleAddMissing accepts the MatchResult subset a client wants on the
// list. Results that are not missing are filtered out rather than rejected,
// so a client may post a whole availability report unmodified.
func (h *Handler) handleAddMissing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	var results []match.Result
	if err := json.NewDecoder(r.Body).Decode(&results); err != nil {
		http.Error(w, "invalid match results", http.StatusBadRequest)
		return
	}
	missing := lo.Filter(results, func(m match.Result, _ int) bool { return m.IsMissing })

	if err := h.reconciler.AddMissing(ctx, owner, missing); err != nil {
		if errors.Is(err, ErrConflict) {
			http.Error(w, "grocery list changed underneath the request, try again", http.StatusConflict)
			return
		}
		slog.ErrorContext(ctx, "failed to add missing items", "owner", owner, "error", err)
		http.Error(w, "failed to update grocery list", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": fmt.Sprintf("added %d missing items to grocery list", len(missing))})
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "provide an item name with ?name=", http.StatusBadRequest)
		return
	}

	if err := h.storage.Purchase(ctx, owner, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "no pending entry for that item", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "failed to mark purchased", "owner", owner, "item", name, "error", err)
		http.Error(w, "failed to update grocery list", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "marked purchased"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
