package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"larder/internal/cache"

	"github.com/google/uuid"
)

// User is the owner of a pantry and a grocery list. The matching engine
// itself never sees users; handlers resolve them before calling it.
type User struct {
	ID        string    `json:"id"`
	Email     []string  `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Storage struct {
	cache cache.Cache
}

var ErrNotFound = errors.New("user not found")

const (
	userKeyPrefix  = "user/"
	emailKeyPrefix = "email/"
)

func NewStorage(c cache.Cache) *Storage {
	return &Storage{cache: c}
}

func (s *Storage) GetByID(ctx context.Context, id string) (*User, error) {
	rc, _, err := s.cache.Get(ctx, userKeyPrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	var user User
	if err := json.NewDecoder(rc).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

func (s *Storage) GetByEmail(ctx context.Context, email string) (*User, error) {
	rc, _, err := s.cache.Get(ctx, emailKeyPrefix+normalizeEmail(email))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	id, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, string(id))
}

// FindOrCreateByEmail resolves an owner, creating one on first sight. The
// email index is written create-only so two concurrent first sights converge
// on a single user.
func (s *Storage) FindOrCreateByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	newUser := User{
		ID:        uuid.NewString(),
		Email:     []string{normalizeEmail(email)},
		CreatedAt: time.Now().UTC(),
	}
	userBytes, err := json.Marshal(newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal new user: %w", err)
	}
	if err := s.cache.Put(ctx, userKeyPrefix+newUser.ID, string(userBytes), cache.Unconditional()); err != nil {
		return nil, fmt.Errorf("failed to store new user: %w", err)
	}
	if err := s.cache.Put(ctx, emailKeyPrefix+newUser.Email[0], newUser.ID, cache.IfNoneMatch()); err != nil {
		if errors.Is(err, cache.ErrAlreadyExists) {
			// concurrent create won; discard our record and read theirs
			if delErr := s.cache.Delete(ctx, userKeyPrefix+newUser.ID); delErr != nil {
				slog.WarnContext(ctx, "failed to remove losing user record", "id", newUser.ID, "error", delErr)
			}
			return s.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to index new user by email: %w", err)
	}
	return &newUser, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
