// Package audit implements the append-only audit trail: a capacity-bounded,
// newest-first log of every committed mutation. The trail is itself an
// entity store specialization with no derived fields; audit events are not
// audited.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/medtrack/pharmacy-inventory/internal/entitystore"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/repositories"
	"github.com/medtrack/pharmacy-inventory/services"
	"go.uber.org/zap"
)

const storageKey = "audit_logs_data"

// DefaultMaxEntries caps the trail at the most recent 1000 events
const DefaultMaxEntries = 1000

// Actor identifies who performed a mutation
type Actor struct {
	ID       string
	Username string
}

// AnonymousActor stands in when no one is authenticated
var AnonymousActor = Actor{ID: "anonymous", Username: "anonymous"}

// ActorProvider supplies the currently authenticated actor, if any
type ActorProvider interface {
	CurrentActor() (Actor, bool)
}

// Entry describes one mutation to be recorded
type Entry struct {
	Action      models.AuditAction
	EntityType  models.EntityType
	EntityID    string
	EntityName  string
	Changes     []models.FieldChange
	Description string
}

// Recorder is the write surface the entity stores emit through
type Recorder interface {
	Record(ctx context.Context, e Entry) (models.AuditLog, error)
}

// Trail holds the audit log in memory, newest first, truncated to max
// entries, and persists every append. Events are never edited or removed
// except by cap eviction.
type Trail struct {
	store  *entitystore.Store[models.AuditLog]
	actors ActorProvider
	logger *zap.Logger
	max    int
	seq    atomic.Uint64
}

// NewTrail hydrates the trail from the blob store. A max of 0 uses
// DefaultMaxEntries. The actor provider may be nil; every event then
// carries the anonymous actor.
func NewTrail(ctx context.Context, blobs repositories.BlobStore, actors ActorProvider, logger *zap.Logger, max int) *Trail {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &Trail{
		store:  entitystore.New[models.AuditLog](ctx, storageKey, blobs, logger, nil),
		actors: actors,
		logger: logger,
		max:    max,
	}
}

// Record appends one audit event: assigns a generation-ordered ID, stamps
// the current actor and timestamp, prepends the event and evicts the oldest
// entries beyond the cap. The in-memory append and publish always commit;
// only the persistence write can fail.
func (t *Trail) Record(ctx context.Context, e Entry) (models.AuditLog, error) {
	actor := AnonymousActor
	if t.actors != nil {
		if a, ok := t.actors.CurrentActor(); ok {
			actor = a
		}
	}

	log := models.AuditLog{
		ID:          t.nextID(),
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		EntityName:  e.EntityName,
		UserID:      actor.ID,
		Username:    actor.Username,
		Timestamp:   time.Now(),
		Changes:     e.Changes,
		Description: e.Description,
	}

	_, err := t.store.Commit(ctx, func(current []models.AuditLog) []models.AuditLog {
		next := append([]models.AuditLog{log}, current...)
		if len(next) > t.max {
			next = next[:t.max]
		}
		return next
	})
	if err != nil {
		t.logger.Error("failed to persist audit trail",
			zap.String("action", string(e.Action)),
			zap.String("entity_id", e.EntityID),
			zap.Error(err))
		return log, services.WrapStorage("audit snapshot not persisted", err)
	}

	t.logger.Debug("recorded audit event",
		zap.String("id", log.ID),
		zap.String("action", string(log.Action)),
		zap.String("entity_type", string(log.EntityType)),
		zap.String("entity_id", log.EntityID),
		zap.String("username", log.Username))

	return log, nil
}

// GetAllLogs returns the current log, newest first
func (t *Trail) GetAllLogs() []models.AuditLog {
	return t.store.All()
}

// Watch returns a live channel over the log: the current state immediately,
// then every subsequent append
func (t *Trail) Watch(ctx context.Context) <-chan []models.AuditLog {
	return t.store.Watch(ctx)
}

// Query filters the in-memory log with a predicate; no storage round-trip
func (t *Trail) Query(pred func(models.AuditLog) bool) []models.AuditLog {
	out := make([]models.AuditLog, 0)
	for _, log := range t.store.All() {
		if pred(log) {
			out = append(out, log)
		}
	}
	return out
}

// SearchLogs returns events matching the query as a case-insensitive
// substring of action, entity name, username or description, newest first
func (t *Trail) SearchLogs(query string) []models.AuditLog {
	q := strings.ToLower(query)
	matched := t.Query(func(log models.AuditLog) bool {
		return strings.Contains(strings.ToLower(string(log.Action)), q) ||
			strings.Contains(strings.ToLower(log.EntityName), q) ||
			strings.Contains(strings.ToLower(log.Username), q) ||
			strings.Contains(strings.ToLower(log.Description), q)
	})
	sortNewestFirst(matched)
	return matched
}

// GetLogsByEntity returns events for one entity type, optionally restricted
// to a single entity ID, newest first
func (t *Trail) GetLogsByEntity(entityType models.EntityType, entityID string) []models.AuditLog {
	matched := t.Query(func(log models.AuditLog) bool {
		return log.EntityType == entityType && (entityID == "" || log.EntityID == entityID)
	})
	sortNewestFirst(matched)
	return matched
}

// MedicineHistory returns the audit history of one medicine, newest first
func (t *Trail) MedicineHistory(medicineID string) []models.AuditLog {
	return t.GetLogsByEntity(models.EntityTypeMedicine, medicineID)
}

// nextID builds a generation-ordered event ID. The millisecond timestamp
// orders events across process restarts; the sequence component only
// disambiguates events sharing a millisecond within one process, and
// restarts at zero with it.
func (t *Trail) nextID() string {
	return fmt.Sprintf("log_%d_%06d", time.Now().UnixMilli(), t.seq.Add(1))
}

// sortNewestFirst orders events by timestamp descending. The sort is stable
// so events sharing a timestamp keep their commit order.
func sortNewestFirst(logs []models.AuditLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
}
