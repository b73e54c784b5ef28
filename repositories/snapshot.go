package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// LoadSnapshot reads and decodes the collection stored under key. A missing
// key yields an empty collection. Corrupt or unreadable data is recovered to
// an empty collection and logged; it never fails the caller.
func LoadSnapshot[T any](ctx context.Context, store BlobStore, key string, logger *zap.Logger) []T {
	data, err := store.Get(ctx, key)
	if err != nil {
		logger.Error("failed to read snapshot, starting empty",
			zap.String("key", key),
			zap.Error(err))
		return []T{}
	}
	if len(data) == 0 {
		return []T{}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Error("corrupt snapshot, starting empty",
			zap.String("key", key),
			zap.Error(err))
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

// SaveSnapshot encodes the collection and writes it under key
func SaveSnapshot[T any](ctx context.Context, store BlobStore, key string, records []T) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	return nil
}
