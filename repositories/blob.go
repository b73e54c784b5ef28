package repositories

import "context"

// BlobStore is the durability boundary: a generic key/value store holding
// one JSON snapshot per entity kind.
type BlobStore interface {
	// Get returns the blob stored under key, or (nil, nil) when the key
	// does not exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the blob under key. The write is atomic from a reader's
	// perspective: a concurrent Get sees either the old or the new blob,
	// never a partial one.
	Set(ctx context.Context, key string, data []byte) error
}
