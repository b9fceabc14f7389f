package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

type Handler struct {
	storage *Storage
}

func NewHandler(storage *Storage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/users", h.handleUsers)
}

type createRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodPost:
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			http.Error(w, "email is required", http.StatusBadRequest)
			return
		}
		user, err := h.storage.FindOrCreateByEmail(ctx, req.Email)
		if err != nil {
			slog.ErrorContext(ctx, "failed to create user", "error", err)
			http.Error(w, "failed to create user", http.StatusInternalServerError)
			return
		}
		writeJSON(w, user)
	case http.MethodGet:
		id := r.URL.Query().Get("id")
		email := r.URL.Query().Get("email")
		var user *User
		var err error
		switch {
		case id != "":
			user, err = h.storage.GetByID(ctx, id)
		case email != "":
			user, err = h.storage.GetByEmail(ctx, email)
		default:
			http.Error(w, "provide ?id= or ?email=", http.StatusBadRequest)
			return
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			slog.ErrorContext(ctx, "failed to load user", "error", err)
			http.Error(w, "failed to load user", http.StatusInternalServerError)
			return
		}
		writeJSON(w, user)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
