package history

import (
	"path/filepath"
	"testing"
)

func TestRecordAndRecent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 14)

	for _, name := range []string{"tomato", "basil", "tomato"} {
		if err := store.Record("alice", name); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := store.Record("bob", "milk"); err != nil {
		t.Fatalf("record: %v", err)
	}

	names, err := store.Recent("alice")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	// distinct, most recent first
	if len(names) != 2 || names[0] != "tomato" || names[1] != "basil" {
		t.Fatalf("unexpected recent names %v", names)
	}

	bob, err := store.Recent("bob")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(bob) != 1 || bob[0] != "milk" {
		t.Fatalf("owners must not share history, got %v", bob)
	}
}

func TestRecentEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 14)
	names, err := store.Recent("nobody")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no history, got %v", names)
	}
}

func TestZeroRetentionKeepsEverything(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "history.json"), 0)
	if err := store.Record("alice", "tomato"); err != nil {
		t.Fatalf("record: %v", err)
	}
	names, err := store.Recent("alice")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("expected entry retained, got %v", names)
	}
}
