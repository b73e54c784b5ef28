package repositories_test

import (
	"context"
	"testing"

	"github.com/medtrack/pharmacy-inventory/repositories"
	"github.com/medtrack/pharmacy-inventory/repositories/blobmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobmem.New()
	records := []item{{ID: "1", Name: "a"}, {ID: "2", Name: "b"}}

	require.NoError(t, repositories.SaveSnapshot(ctx, store, "items", records))

	loaded := repositories.LoadSnapshot[item](ctx, store, "items", zap.NewNop())
	assert.Equal(t, records, loaded)
}

func TestLoadSnapshotMissingKey(t *testing.T) {
	loaded := repositories.LoadSnapshot[item](context.Background(), blobmem.New(), "absent", zap.NewNop())

	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoadSnapshotCorruptData(t *testing.T) {
	ctx := context.Background()
	store := blobmem.New()
	require.NoError(t, store.Set(ctx, "items", []byte("{not json")))

	loaded := repositories.LoadSnapshot[item](ctx, store, "items", zap.NewNop())

	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestLoadSnapshotNullBlob(t *testing.T) {
	ctx := context.Background()
	store := blobmem.New()
	require.NoError(t, store.Set(ctx, "items", []byte("null")))

	loaded := repositories.LoadSnapshot[item](ctx, store, "items", zap.NewNop())

	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}
