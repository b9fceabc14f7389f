// Package history tracks recent ingredient lookups per owner. The store is
// an explicit handle with its own lifecycle: construct it once and pass it
// to whatever needs it; there is no package-level state.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Lookup struct {
	Name       string    `json:"name"`
	LookedUpAt time.Time `json:"looked_up_at"`
}

type Store struct {
	mu            sync.Mutex
	storagePath   string
	retentionDays int
}

type journal struct {
	Lookups map[string][]Lookup `json:"lookups"`
}

func NewStore(storagePath string, retentionDays int) *Store {
	return &Store{
		storagePath:   storagePath,
		retentionDays: retentionDays,
	}
}

// Record appends a lookup for the owner and prunes entries past retention.
func (s *Store) Record(owner, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.load()
	if err != nil {
		return fmt.Errorf("failed to load existing history: %w", err)
	}

	j.Lookups[owner] = append(j.Lookups[owner], Lookup{Name: name, LookedUpAt: time.Now().UTC()})
	s.prune(&j)

	return s.save(j)
}

// Recent returns the distinct names the owner looked up within retention,
// most recent first.
func (s *Store) Recent(owner string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	lookups := j.Lookups[owner]
	cutoff := s.cutoff()
	seen := make(map[string]struct{})
	var names []string
	for i := len(lookups) - 1; i >= 0; i-- {
		l := lookups[i]
		if !l.LookedUpAt.After(cutoff) {
			continue
		}
		if _, dup := seen[l.Name]; dup {
			continue
		}
		seen[l.Name] = struct{}{}
		names = append(names, l.Name)
	}
	return names, nil
}

func (s *Store) cutoff() time.Time {
	if s.retentionDays <= 0 {
		return time.Time{}
	}
	return time.Now().UTC().AddDate(0, 0, -s.retentionDays)
}

func (s *Store) prune(j *journal) {
	cutoff := s.cutoff()
	if cutoff.IsZero() {
		return
	}
	for owner, lookups := range j.Lookups {
		keep := lookups[:0]
		for _, l := range lookups {
			if l.LookedUpAt.After(cutoff) {
				keep = append(keep, l)
			}
		}
		if len(keep) == 0 {
			delete(j.Lookups, owner)
			continue
		}
		j.Lookups[owner] = keep
	}
}

func (s *Store) load() (journal, error) {
	j := journal{Lookups: make(map[string][]Lookup)}

	data, err := os.ReadFile(s.storagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return j, nil
		}
		return j, fmt.Errorf("failed to read history file: %w", err)
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return j, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	if j.Lookups == nil {
		j.Lookups = make(map[string][]Lookup)
	}
	return j, nil
}

func (s *Store) save(j journal) error {
	if err := os.MkdirAll(filepath.Dir(s.storagePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(s.storagePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}
