// Package users implements the entity store for user accounts. It follows
// the same commit sequence as the medicine store but has no derived status.
package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/medtrack/pharmacy-inventory/internal/diff"
	"github.com/medtrack/pharmacy-inventory/internal/entitystore"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/repositories"
	"github.com/medtrack/pharmacy-inventory/services"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"go.uber.org/zap"
)

const storageKey = "users_data"

// trackedFields is the allowlist of user fields eligible to appear in a diff
var trackedFields = []diff.Field[models.User]{
	{Name: "username", Value: func(u models.User) interface{} { return u.Username }},
	{Name: "email", Value: func(u models.User) interface{} { return u.Email }},
	{Name: "role", Value: func(u models.User) interface{} { return u.Role }},
	{Name: "name", Value: func(u models.User) interface{} { return u.Name }},
}

// Patch carries a partial user update; nil fields are left unchanged
type Patch struct {
	Username *string
	Email    *string
	Role     *models.UserRole
	Name     *string
}

// Service is the user entity store
type Service struct {
	store  *entitystore.Store[models.User]
	trail  audit.Recorder
	logger *zap.Logger
}

// NewService hydrates the user collection. An empty collection is seeded
// with the default admin account so the application is usable on first run;
// the seed is bootstrap state, not an audited mutation.
func NewService(ctx context.Context, blobs repositories.BlobStore, trail audit.Recorder, logger *zap.Logger) *Service {
	s := &Service{
		store:  entitystore.New[models.User](ctx, storageKey, blobs, logger, nil),
		trail:  trail,
		logger: logger,
	}

	if len(s.store.All()) == 0 {
		admin := models.User{
			ID:       "admin_1",
			Username: "admin",
			Email:    "admin@pharmacy.com",
			Role:     models.RoleAdmin,
			Name:     "Administrator",
		}
		if err := s.store.Insert(ctx, admin); err != nil {
			logger.Error("failed to seed default admin user", zap.Error(err))
		} else {
			logger.Info("seeded default admin user", zap.String("id", admin.ID))
		}
	}

	return s
}

// GetAll returns a copy of the current collection
func (s *Service) GetAll() []models.User {
	return s.store.All()
}

// Watch returns a live channel over the collection
func (s *Service) Watch(ctx context.Context) <-chan []models.User {
	return s.store.Watch(ctx)
}

// GetByID returns the user with the given ID, if present
func (s *Service) GetByID(id string) (models.User, bool) {
	return s.store.Get(id)
}

// Create assigns an ID and commits the new user, emitting one create audit
// event with no change list
func (s *Service) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = newID()

	insertErr := s.store.Insert(ctx, u)

	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionCreate,
		EntityType:  models.EntityTypeUser,
		EntityID:    u.ID,
		EntityName:  u.Username,
		Description: "Added new user: " + u.Username,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("user_id", u.ID), zap.Error(err))
	}

	if insertErr != nil {
		return u, services.WrapStorage("user snapshot not persisted", insertErr)
	}

	s.logger.Info("created user",
		zap.String("id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)))
	return u, nil
}

// Update merges the patch into an existing user. A missing ID is a silent
// no-op. One update audit event carries the tracked-field diff.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (models.User, bool, error) {
	prior, updated, found, updateErr := s.store.Update(ctx, id, func(current models.User) models.User {
		next := current
		if patch.Username != nil {
			next.Username = *patch.Username
		}
		if patch.Email != nil {
			next.Email = *patch.Email
		}
		if patch.Role != nil {
			next.Role = *patch.Role
		}
		if patch.Name != nil {
			next.Name = *patch.Name
		}
		return next
	})
	if !found {
		return models.User{}, false, nil
	}

	changes := diff.Changes(prior, updated, trackedFields)
	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionUpdate,
		EntityType:  models.EntityTypeUser,
		EntityID:    id,
		EntityName:  updated.Username,
		Changes:     changes,
		Description: "Updated user: " + updated.Username,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("user_id", id), zap.Error(err))
	}

	if updateErr != nil {
		return updated, true, services.WrapStorage("user snapshot not persisted", updateErr)
	}

	s.logger.Info("updated user",
		zap.String("id", id),
		zap.Int("changed_fields", len(changes)))
	return updated, true, nil
}

// Delete removes a user and reports whether one was actually removed
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	removed, found, removeErr := s.store.Remove(ctx, id)
	if !found {
		return false, nil
	}

	if _, err := s.trail.Record(ctx, audit.Entry{
		Action:      models.AuditActionDelete,
		EntityType:  models.EntityTypeUser,
		EntityID:    id,
		EntityName:  removed.Username,
		Description: "Deleted user: " + removed.Username,
	}); err != nil {
		s.logger.Warn("audit event not persisted", zap.String("user_id", id), zap.Error(err))
	}

	if removeErr != nil {
		return true, services.WrapStorage("user snapshot not persisted", removeErr)
	}

	s.logger.Info("deleted user",
		zap.String("id", id),
		zap.String("username", removed.Username))
	return true, nil
}

func newID() string {
	return "user_" + uuid.NewString()
}
