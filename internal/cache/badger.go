package cache

import (
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"

	badger "github.com/dgraph-io/badger/v3"
)

// BadgerCache persists entries in an embedded badger store. Conditional puts
// run inside a single transaction, so the check and the write cannot be
// interleaved with another writer.
type BadgerCache struct {
	db *badger.DB
}

var _ ListCache = (*BadgerCache)(nil)

func NewBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerCache{db: db}, nil
}

func (bc *BadgerCache) Close() error {
	return bc.db.Close()
}

func (bc *BadgerCache) Get(_ context.Context, key string) (io.ReadCloser, ETag, error) {
	var value []byte
	var etag ETag
	err := bc.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		etag = ETag(strconv.FormatUint(item.Version(), 10))
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	return io.NopCloser(strings.NewReader(string(value))), etag, nil
}

func (bc *BadgerCache) Exists(_ context.Context, key string) (bool, error) {
	err := bc.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (bc *BadgerCache) Put(_ context.Context, key, value string, opts PutOptions) error {
	err := bc.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		exists := err == nil
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		switch opts.Condition {
		case PutIfNoneMatch:
			if exists {
				return ErrAlreadyExists
			}
		case PutIfMatch:
			if !exists || ETag(strconv.FormatUint(item.Version(), 10)) != opts.ETag {
				return ErrPreconditionFailed
			}
		}

		return txn.Set([]byte(key), []byte(value))
	})
	if errors.Is(err, badger.ErrConflict) {
		return ErrPreconditionFailed
	}
	return err
}

func (bc *BadgerCache) Delete(_ context.Context, key string) error {
	return bc.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (bc *BadgerCache) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := bc.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().KeyCopy(nil))
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
