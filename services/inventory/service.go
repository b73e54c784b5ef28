// Package inventory implements the entity store for medicines: the
// authoritative in-memory collection, status derivation, change tracking
// and audit emission for every mutation.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medtrack/pharmacy-inventory/internal/diff"
	"github.com/medtrack/pharmacy-inventory/internal/entitystore"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/repositories"
	"github.com/medtrack/pharmacy-inventory/services"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"go.uber.org/zap"
)

const storageKey = "medicines_data"

// trackedFields is the allowlist of medicine fields eligible to appear in a
// diff, in declaration order. Status is derived and deliberately not tracked.
var trackedFields = []diff.Field[models.Medicine]{
	{Name: "name", Value: func(m models.Medicine) interface{} { return m.Name }},
	{Name: "quantity", Value: func(m models.Medicine) interface{} { return m.Quantity }},
	{Name: "price", Value: func(m models.Medicine) interface{} { return m.Price }},
	{Name: "expiryDate", Value: func(m models.Medicine) interface{} { return m.ExpiryDate }},
	{Name: "batchNumber", Value: func(m models.Medicine) interface{} { return m.BatchNumber }},
	{Name: "manufacturer", Value: func(m models.Medicine) interface{} { return m.Manufacturer }},
	{Name: "category", Value: func(m models.Medicine) interface{} { return m.Category }},
}

// Stats summarizes the current inventory snapshot
type Stats struct {
	TotalMedicines  int     `json:"totalMedicines"`
	LowStockCount   int     `json:"lowStockCount"`
	ExpiredCount    int     `json:"expiredCount"`
	OutOfStockCount int     `json:"outOfStockCount"`
	TotalStockValue float64 `json:"totalStockValue"`
}

// Service is the medicine entity store
type Service struct {
	store  *entitystore.Store[models.Medicine]
	trail  audit.Recorder
	logger *zap.Logger
	now    func() time.Time
}

// NewService hydrates the medicine collection from the blob store. Statuses
// are recomputed during hydration: dates may have advanced since the last
// persisted snapshot, so an item can expire without any explicit mutation.
func NewService(ctx context.Context, blobs repositories.BlobStore, trail audit.Recorder, logger *zap.Logger) *Service {
	now := time.Now
	store := entitystore.New[models.Medicine](ctx, storageKey, blobs, logger, func(m models.Medicine) models.Medicine {
		m.Status = models.DeriveStatus(m, now())
		return m
	})

	return &Service{
		store:  store,
		trail:  trail,
		logger: logger,
		now:    now,
	}
}

// GetAll returns a copy of the current collection
func (s *Service) GetAll() []models.Medicine {
	return s.store.All()
}

// Watch returns a live channel over the collection: the current snapshot is
// delivered immediately, then every subsequent commit. Callers must not
// mutate the records they receive.
func (s *Service) Watch(ctx context.Context) <-chan []models.Medicine {
	return s.store.Watch(ctx)
}

// GetByID returns the medicine with the given ID, if present
func (s *Service) GetByID(id string) (models.Medicine, bool) {
	return s.store.Get(id)
}

// Create assigns an ID, derives the status and commits the new medicine.
// Exactly one create audit event is emitted, with no change list. The
// in-memory commit and the audit event stand even when the persistence
// write fails; the error is surfaced to the caller.
func (s *Service) Create(ctx context.Context, m models.Medicine) (models.Medicine, error) {
	m.ID = newID()
	m.Status = models.DeriveStatus(m, s.now())

	insertErr := s.store.Insert(ctx, m)

	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionCreate,
		EntityType:  models.EntityTypeMedicine,
		EntityID:    m.ID,
		EntityName:  m.Name,
		Description: "Added new medicine: " + m.Name,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("medicine_id", m.ID), zap.Error(err))
	}

	if insertErr != nil {
		return m, services.WrapStorage("medicine snapshot not persisted", insertErr)
	}

	s.logger.Info("created medicine",
		zap.String("id", m.ID),
		zap.String("name", m.Name),
		zap.String("status", string(m.Status)))
	return m, nil
}

// Update replaces the fields of an existing medicine, keeping its ID and
// re-deriving its status. A missing ID is a silent no-op: found is false
// and no audit event or persistence write happens. On a hit, one update
// audit event carries the tracked-field diff (possibly empty).
func (s *Service) Update(ctx context.Context, id string, m models.Medicine) (models.Medicine, bool, error) {
	prior, updated, found, updateErr := s.store.Update(ctx, id, func(models.Medicine) models.Medicine {
		next := m
		next.ID = id
		next.Status = models.DeriveStatus(next, s.now())
		return next
	})
	if !found {
		return models.Medicine{}, false, nil
	}

	changes := diff.Changes(prior, updated, trackedFields)
	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionUpdate,
		EntityType:  models.EntityTypeMedicine,
		EntityID:    id,
		EntityName:  updated.Name,
		Changes:     changes,
		Description: "Updated medicine: " + updated.Name,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("medicine_id", id), zap.Error(err))
	}

	if updateErr != nil {
		return updated, true, services.WrapStorage("medicine snapshot not persisted", updateErr)
	}

	s.logger.Info("updated medicine",
		zap.String("id", id),
		zap.String("name", updated.Name),
		zap.Int("changed_fields", len(changes)))
	return updated, true, nil
}

// Delete removes a medicine and reports whether one was actually removed.
// A missing ID is a silent no-op with no audit event.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	removed, found, removeErr := s.store.Remove(ctx, id)
	if !found {
		return false, nil
	}

	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionDelete,
		EntityType:  models.EntityTypeMedicine,
		EntityID:    id,
		EntityName:  removed.Name,
		Description: "Deleted medicine: " + removed.Name,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("medicine_id", id), zap.Error(err))
	}

	if removeErr != nil {
		return true, services.WrapStorage("medicine snapshot not persisted", removeErr)
	}

	s.logger.Info("deleted medicine",
		zap.String("id", id),
		zap.String("name", removed.Name))
	return true, nil
}

// Search returns medicines whose name, batch number, manufacturer or
// category contains the query, case-insensitive. Pure filter over the
// current snapshot.
func (s *Service) Search(query string) []models.Medicine {
	q := strings.ToLower(query)
	out := make([]models.Medicine, 0)
	for _, m := range s.store.All() {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.BatchNumber), q) ||
			strings.Contains(strings.ToLower(m.Manufacturer), q) ||
			strings.Contains(strings.ToLower(m.Category), q) {
			out = append(out, m)
		}
	}
	return out
}

// LowStock returns medicines at or below the low stock threshold that are
// not out of stock
func (s *Service) LowStock() []models.Medicine {
	out := make([]models.Medicine, 0)
	for _, m := range s.store.All() {
		if m.Quantity <= models.LowStockThreshold && m.Status != models.StatusOutOfStock {
			out = append(out, m)
		}
	}
	return out
}

// Expired returns medicines whose expiry date has passed, date-only compare
func (s *Service) Expired() []models.Medicine {
	asOf := s.now()
	out := make([]models.Medicine, 0)
	for _, m := range s.store.All() {
		if models.DeriveStatus(m, asOf) == models.StatusExpired {
			out = append(out, m)
		}
	}
	return out
}

// GetStats summarizes the current snapshot for the dashboard
func (s *Service) GetStats() Stats {
	asOf := s.now()
	stats := Stats{}
	for _, m := range s.store.All() {
		stats.TotalMedicines++
		stats.TotalStockValue += float64(m.Quantity) * m.Price
		switch {
		case models.DeriveStatus(m, asOf) == models.StatusExpired:
			stats.ExpiredCount++
		case m.Quantity == 0:
			stats.OutOfStockCount++
		case m.Quantity <= models.LowStockThreshold:
			stats.LowStockCount++
		}
	}
	return stats
}

func newID() string {
	return "med_" + uuid.NewString()
}
