// Package entitystore implements the reactive cache holding the
// authoritative in-memory collection for one entity kind. Mutations update
// the in-memory snapshot and publish to subscribers before the persistence
// write; against storage the last write wins.
package entitystore

import (
	"context"
	"sync"

	"github.com/medtrack/pharmacy-inventory/internal/watch"
	"github.com/medtrack/pharmacy-inventory/repositories"
	"go.uber.org/zap"
)

// Entity is a record held in a Store
type Entity interface {
	RecordID() string
}

// Store owns the collection of one entity kind: an insertion-ordered slice
// unique by record ID, a behavior subject carrying the latest committed
// snapshot, and one blob store key for durability. Hydration happens
// synchronously in New, so the store is ready as soon as it is constructed.
type Store[T Entity] struct {
	key     string
	blobs   repositories.BlobStore
	logger  *zap.Logger
	subject *watch.Subject[[]T]

	// mu serializes the read-modify-write of each mutation. The persistence
	// write happens outside the lock; concurrent writes race and the final
	// durable state is whichever lands last.
	mu sync.Mutex
}

// New hydrates a Store from the blob stored under key. The optional
// normalize hook runs over every hydrated record (derived fields may be
// stale after a restart, e.g. an expiry date passed since the last save).
func New[T Entity](ctx context.Context, key string, blobs repositories.BlobStore, logger *zap.Logger, normalize func(T) T) *Store[T] {
	records := repositories.LoadSnapshot[T](ctx, blobs, key, logger)
	if normalize != nil {
		for i := range records {
			records[i] = normalize(records[i])
		}
	}

	logger.Debug("hydrated collection",
		zap.String("key", key),
		zap.Int("records", len(records)))

	return &Store[T]{
		key:     key,
		blobs:   blobs,
		logger:  logger,
		subject: watch.NewSubject(records),
	}
}

// All returns a copy of the latest committed snapshot
func (s *Store[T]) All() []T {
	current := s.subject.Value()
	out := make([]T, len(current))
	copy(out, current)
	return out
}

// Get returns the record with the given ID, if present
func (s *Store[T]) Get(id string) (T, bool) {
	for _, rec := range s.subject.Value() {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Watch returns a live channel over committed snapshots: the current
// snapshot is delivered immediately, then every subsequent commit
func (s *Store[T]) Watch(ctx context.Context) <-chan []T {
	return s.subject.Subscribe(ctx)
}

// Insert appends a record, publishes the new snapshot and persists it
func (s *Store[T]) Insert(ctx context.Context, rec T) error {
	s.mu.Lock()
	next := append(s.snapshotLocked(), rec)
	s.subject.Set(next)
	s.mu.Unlock()

	return repositories.SaveSnapshot(ctx, s.blobs, s.key, next)
}

// Update replaces the record with the given ID by the result of apply,
// keeping its position in the collection. When the ID is absent nothing is
// published or persisted and found is false.
func (s *Store[T]) Update(ctx context.Context, id string, apply func(T) T) (prior T, updated T, found bool, err error) {
	s.mu.Lock()
	current := s.snapshotLocked()
	idx := -1
	for i, rec := range current {
		if rec.RecordID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return prior, updated, false, nil
	}

	prior = current[idx]
	updated = apply(prior)
	current[idx] = updated
	s.subject.Set(current)
	s.mu.Unlock()

	return prior, updated, true, repositories.SaveSnapshot(ctx, s.blobs, s.key, current)
}

// Remove deletes the record with the given ID. When the ID is absent
// nothing is published or persisted and found is false.
func (s *Store[T]) Remove(ctx context.Context, id string) (removed T, found bool, err error) {
	s.mu.Lock()
	current := s.snapshotLocked()
	next := make([]T, 0, len(current))
	for _, rec := range current {
		if rec.RecordID() == id {
			removed = rec
			found = true
			continue
		}
		next = append(next, rec)
	}
	if !found {
		s.mu.Unlock()
		return removed, false, nil
	}
	s.subject.Set(next)
	s.mu.Unlock()

	return removed, true, repositories.SaveSnapshot(ctx, s.blobs, s.key, next)
}

// Commit applies an arbitrary transform to the collection, publishes the
// result and persists it. Used by specializations (the audit trail's
// prepend-and-truncate) that don't fit the per-record mutations.
func (s *Store[T]) Commit(ctx context.Context, transform func([]T) []T) ([]T, error) {
	s.mu.Lock()
	next := transform(s.snapshotLocked())
	s.subject.Set(next)
	s.mu.Unlock()

	return next, repositories.SaveSnapshot(ctx, s.blobs, s.key, next)
}

// snapshotLocked copies the current snapshot; callers hold s.mu
func (s *Store[T]) snapshotLocked() []T {
	current := s.subject.Value()
	out := make([]T, len(current))
	copy(out, current)
	return out
}
