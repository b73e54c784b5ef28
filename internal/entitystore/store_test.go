package entitystore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/medtrack/pharmacy-inventory/repositories/blobmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (i item) RecordID() string { return i.ID }

// countingBlobs wraps an in-memory store and counts writes
type countingBlobs struct {
	*blobmem.Store
	mu   sync.Mutex
	sets int
}

func newCountingBlobs() *countingBlobs {
	return &countingBlobs{Store: blobmem.New()}
}

func (c *countingBlobs) Set(ctx context.Context, key string, data []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Store.Set(ctx, key, data)
}

func (c *countingBlobs) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func newStore(t *testing.T, blobs *countingBlobs, normalize func(item) item) *Store[item] {
	t.Helper()
	return New[item](context.Background(), "items", blobs, zap.NewNop(), normalize)
}

func TestHydrateEmpty(t *testing.T) {
	s := newStore(t, newCountingBlobs(), nil)
	assert.Empty(t, s.All())
}

func TestHydrateAppliesNormalize(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()
	require.NoError(t, blobs.Set(ctx, "items", []byte(`[{"id":"1","name":"aspirin"}]`)))

	s := New[item](ctx, "items", blobs, zap.NewNop(), func(i item) item {
		i.Name = strings.ToUpper(i.Name)
		return i
	})

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "ASPIRIN", all[0].Name)
}

func TestInsertPublishesAndPersists(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()
	s := newStore(t, blobs, nil)

	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	got, found := s.Get("1")
	assert.True(t, found)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, 1, blobs.setCount())
}

func TestGetAllIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newCountingBlobs(), nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	assert.Equal(t, s.All(), s.All())
}

func TestAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newCountingBlobs(), nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	first := s.All()
	first[0].Name = "mutated"

	fresh := s.All()
	assert.Equal(t, "a", fresh[0].Name)
}

func TestUpdateExisting(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()
	s := newStore(t, blobs, nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	prior, updated, found, err := s.Update(ctx, "1", func(i item) item {
		i.Name = "b"
		return i
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", prior.Name)
	assert.Equal(t, "b", updated.Name)
	assert.Equal(t, 2, blobs.setCount())
}

func TestUpdateMissingIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()
	s := newStore(t, blobs, nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))
	before := blobs.setCount()

	_, _, found, err := s.Update(ctx, "nonexistent-id", func(i item) item { return i })

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, blobs.setCount(), "no persistence write expected")
}

func TestUpdateKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newCountingBlobs(), nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))
	require.NoError(t, s.Insert(ctx, item{ID: "2", Name: "b"}))

	_, _, found, err := s.Update(ctx, "1", func(i item) item {
		i.Name = "z"
		return i
	})
	require.NoError(t, err)
	require.True(t, found)

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "z", all[0].Name)
}

func TestRemoveExisting(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newCountingBlobs(), nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	removed, found, err := s.Remove(ctx, "1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", removed.Name)

	_, stillThere := s.Get("1")
	assert.False(t, stillThere)
}

func TestRemoveMissingIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()
	s := newStore(t, blobs, nil)
	before := blobs.setCount()

	_, found, err := s.Remove(ctx, "nonexistent-id")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, before, blobs.setCount())
}

func TestWatchSeesCommits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newStore(t, newCountingBlobs(), nil)
	ch := s.Watch(ctx)

	// Initial replay
	select {
	case snapshot := <-ch:
		assert.Empty(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	select {
	case snapshot := <-ch:
		require.Len(t, snapshot, 1)
		assert.Equal(t, "1", snapshot[0].ID)
	case <-time.After(time.Second):
		t.Fatal("no commit delivered")
	}
}

func TestCommitTransform(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newCountingBlobs(), nil)
	require.NoError(t, s.Insert(ctx, item{ID: "1", Name: "a"}))

	next, err := s.Commit(ctx, func(current []item) []item {
		return append([]item{{ID: "0", Name: "front"}}, current...)
	})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "0", s.All()[0].ID)
}

func TestPersistedStateSurvivesRehydration(t *testing.T) {
	ctx := context.Background()
	blobs := newCountingBlobs()

	first := newStore(t, blobs, nil)
	require.NoError(t, first.Insert(ctx, item{ID: "1", Name: "a"}))
	require.NoError(t, first.Insert(ctx, item{ID: "2", Name: "b"}))

	second := newStore(t, blobs, nil)
	all := second.All()
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)
}
