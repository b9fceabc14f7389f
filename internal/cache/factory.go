package cache

import (
	"log/slog"
	"os"
)

// MakeCache picks a backend from the environment: Azure blob storage when
// storage account credentials are present, an embedded badger store when
// LARDER_BADGER_DIR is set, otherwise files under LARDER_CACHE_DIR.
func MakeCache() (ListCache, error) {
	if _, ok := os.LookupEnv("AZURE_STORAGE_ACCOUNT_NAME"); ok {
		slog.Info("using azure blob storage")
		return NewBlobCache("larder")
	}

	if dir, ok := os.LookupEnv("LARDER_BADGER_DIR"); ok {
		slog.Info("using badger store", "dir", dir)
		return NewBadgerCache(dir)
	}

	dir := os.Getenv("LARDER_CACHE_DIR")
	if dir == "" {
		dir = "cache"
	}
	slog.Info("using file store", "dir", dir)
	return NewFileCache(dir), nil
}
