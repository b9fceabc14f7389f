package cache

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]ListCache {
	t.Helper()
	return map[string]ListCache{
		"memory": NewInMemoryCache(),
		"file":   NewFileCache(t.TempDir()),
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, _, err := c.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put(ctx, "grocery/alice/pending/milk", `{"quantity":2}`, Unconditional()); err != nil {
				t.Fatalf("put: %v", err)
			}
			rc, etag, err := c.Get(ctx, "grocery/alice/pending/milk")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if etag == "" {
				t.Fatal("expected a non-empty etag")
			}
			if got := readAll(t, rc); got != `{"quantity":2}` {
				t.Fatalf("unexpected value %q", got)
			}
		})
	}
}

func TestIfNoneMatch(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put(ctx, "k", "first", IfNoneMatch()); err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := c.Put(ctx, "k", "second", IfNoneMatch()); !errors.Is(err, ErrAlreadyExists) {
				t.Fatalf("expected ErrAlreadyExists, got %v", err)
			}
			rc, _, err := c.Get(ctx, "k")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got := readAll(t, rc); got != "first" {
				t.Fatalf("losing put overwrote value: %q", got)
			}
		})
	}
}

func TestIfMatch(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put(ctx, "k", "v1", Unconditional()); err != nil {
				t.Fatalf("put: %v", err)
			}
			rc, etag, err := c.Get(ctx, "k")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			rc.Close()

			if err := c.Put(ctx, "k", "v2", IfMatch(etag)); err != nil {
				t.Fatalf("cas with fresh etag: %v", err)
			}
			// The old etag is now stale.
			if err := c.Put(ctx, "k", "v3", IfMatch(etag)); !errors.Is(err, ErrPreconditionFailed) {
				t.Fatalf("expected ErrPreconditionFailed, got %v", err)
			}
			if err := c.Put(ctx, "missing", "v", IfMatch(etag)); !errors.Is(err, ErrPreconditionFailed) {
				t.Fatalf("cas against absent key: expected ErrPreconditionFailed, got %v", err)
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put(ctx, "k", "v", Unconditional()); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("second delete: %v", err)
			}
			if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestFileCacheRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	c := NewFileCache(filepath.Join(root, "cache"))

	for _, key := range []string{
		"../outside/evil",
		"grocery/alice/pending/../../../../outside/evil",
		"..",
		"",
	} {
		t.Run(key, func(t *testing.T) {
			if err := c.Put(ctx, key, "{}", Unconditional()); err == nil {
				t.Fatalf("put of key %q succeeded", key)
			}
			if _, _, err := c.Get(ctx, key); err == nil || errors.Is(err, ErrNotFound) {
				t.Fatalf("get of key %q not rejected, got %v", key, err)
			}
			if err := c.Delete(ctx, key); err == nil {
				t.Fatalf("delete of key %q succeeded", key)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(root, "outside")); !os.IsNotExist(err) {
		t.Fatalf("a rejected key still reached outside the cache dir: %v", err)
	}
}

func TestListTrimsPrefix(t *testing.T) {
	ctx := context.Background()
	for name, c := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"recipe/a", "recipe/b", "pantry/alice"} {
				if err := c.Put(ctx, key, "{}", Unconditional()); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			keys, err := c.List(ctx, "recipe/")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
				t.Fatalf("unexpected keys %v", keys)
			}
		})
	}
}
