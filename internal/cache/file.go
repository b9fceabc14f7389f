package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileCache keeps one file per key under Dir. Good enough for local
// development; the mutex makes conditional puts atomic within the process.
type FileCache struct {
	Dir string
	mu  sync.Mutex
}

var _ ListCache = (*FileCache)(nil)

func NewFileCache(dir string) *FileCache {
	return &FileCache{Dir: dir}
}

func contentETag(data []byte) ETag {
	return ETag(fmt.Sprintf("%x", sha256.Sum256(data)))
}

// path maps a key onto a file under Dir. Keys come from user input (item
// names end up in grocery keys), so anything that resolves outside Dir is
// rejected rather than joined.
func (fc *FileCache) path(key string) (string, error) {
	p := filepath.Join(fc.Dir, filepath.FromSlash(key))
	rel, err := filepath.Rel(fc.Dir, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("key %q escapes the cache directory", key)
	}
	return p, nil
}

func (fc *FileCache) Get(_ context.Context, key string) (io.ReadCloser, ETag, error) {
	p, err := fc.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return io.NopCloser(strings.NewReader(string(data))), contentETag(data), nil
}

func (fc *FileCache) Exists(_ context.Context, key string) (bool, error) {
	p, err := fc.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (fc *FileCache) Put(_ context.Context, key, value string, opts PutOptions) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	filePath, err := fc.path(key)
	if err != nil {
		return err
	}
	current, err := os.ReadFile(filePath)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	switch opts.Condition {
	case PutIfNoneMatch:
		if exists {
			return ErrAlreadyExists
		}
	case PutIfMatch:
		if !exists || contentETag(current) != opts.ETag {
			return ErrPreconditionFailed
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(value), 0644)
}

func (fc *FileCache) Delete(_ context.Context, key string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	p, err := fc.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (fc *FileCache) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(fc.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(fc.Dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, strings.TrimPrefix(key, prefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
