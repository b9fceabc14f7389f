// Package cache is a small key/value document store with conditional writes.
// Backends differ in durability (memory, files, badger, azure blobs) but all
// honor the same put conditions, which is what the optimistic concurrency in
// the stores above relies on.
package cache

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound           = errors.New("key not found")
	ErrAlreadyExists      = errors.New("key already exists")
	ErrPreconditionFailed = errors.New("etag precondition failed")
)

// ETag identifies a stored value's revision. Opaque; only equality matters.
type ETag string

type Cache interface {
	Get(ctx context.Context, key string) (io.ReadCloser, ETag, error)
	Exists(ctx context.Context, key string) (bool, error)
	Put(ctx context.Context, key, value string, opts PutOptions) error
	Delete(ctx context.Context, key string) error
}

// ListCache adds prefix listing. List returns keys with the prefix trimmed.
type ListCache interface {
	Cache
	List(ctx context.Context, prefix string) ([]string, error)
}

type PutCondition int

const (
	// PutUnconditional overwrites whatever is there.
	PutUnconditional PutCondition = iota
	// PutIfNoneMatch succeeds only when the key does not exist yet.
	PutIfNoneMatch
	// PutIfMatch succeeds only when the stored ETag equals PutOptions.ETag.
	PutIfMatch
)

type PutOptions struct {
	Condition PutCondition
	ETag      ETag
}

func Unconditional() PutOptions {
	return PutOptions{Condition: PutUnconditional}
}

func IfNoneMatch() PutOptions {
	return PutOptions{Condition: PutIfNoneMatch}
}

func IfMatch(etag ETag) PutOptions {
	return PutOptions{Condition: PutIfMatch, ETag: etag}
}
