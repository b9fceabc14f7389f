package pantry

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"larder/internal/history"
	"larder/internal/match"
	"larder/internal/users"
)

type Handler struct {
	storage *Storage
	users   *users.Storage
	history *history.Store
}

func NewHandler(storage *Storage, userStorage *users.Storage, hist *history.Store) *Handler {
	return &Handler{storage: storage, users: userStorage, history: hist}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/pantry", h.handlePantry)
	mux.HandleFunc("/pantry/search", h.handleSearch)
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

func (h *Handler) handlePantry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := h.storage.Get(ctx, owner)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load pantry", "owner", owner, "error", err)
			http.Error(w, "failed to load pantry", http.StatusInternalServerError)
			return
		}
		writeJSON(w, items)
	case http.MethodPut:
		var items []match.Item
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			http.Error(w, "invalid pantry snapshot", http.StatusBadRequest)
			return
		}
		if err := h.storage.Put(ctx, owner, items); err != nil {
			slog.ErrorContext(ctx, "failed to store pantry", "owner", owner, "error", err)
			http.Error(w, "failed to store pantry", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]string{"message": "pantry updated"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type searchResponse struct {
	Suggestions []match.Suggestion `json:"suggestions"`
	Recent      []string           `json:"recent,omitempty"`
}

// handleSearch is the autocomplete surface: it scores the owner's pantry
// against the query and records the lookup in the history store.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "provide a search term with ?q=", http.StatusBadRequest)
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items, err := h.storage.Get(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load pantry for search", "owner", owner, "error", err)
		http.Error(w, "failed to load pantry", http.StatusInternalServerError)
		return
	}

	if err := h.history.Record(owner, query); err != nil {
		// history is best effort; the search result still stands
		slog.WarnContext(ctx, "failed to record lookup", "owner", owner, "error", err)
	}
	recent, err := h.history.Recent(owner)
	if err != nil {
		slog.WarnContext(ctx, "failed to load recent lookups", "owner", owner, "error", err)
	}

	writeJSON(w, searchResponse{
		Suggestions: match.SuggestMatches(query, items, limit),
		Recent:      recent,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
