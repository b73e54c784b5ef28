package app

import (
	"context"
	"fmt"

	"github.com/medtrack/pharmacy-inventory/config"
	"github.com/medtrack/pharmacy-inventory/middleware"
	"github.com/medtrack/pharmacy-inventory/repositories"
	"github.com/medtrack/pharmacy-inventory/repositories/blobfile"
	"github.com/medtrack/pharmacy-inventory/repositories/blobmem"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"github.com/medtrack/pharmacy-inventory/services/auth"
	"github.com/medtrack/pharmacy-inventory/services/inventory"
	"github.com/medtrack/pharmacy-inventory/services/users"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point: each entity store is constructed exactly once per process
// and handed by reference to every consumer.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger
	Blobs  repositories.BlobStore

	// Services
	Auth      *auth.Service
	Audit     *audit.Trail
	Inventory *inventory.Service
	Users     *users.Service

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
// Construction order matters: the audit trail takes the auth service as its
// actor provider, and both entity stores emit into the trail.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initStorage(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	deps.Auth = auth.NewService(auth.Config{
		TokenSecret: []byte(cfg.Auth.TokenSecret),
		TokenTTL:    cfg.Auth.TokenTTL,
		LoginDelay:  cfg.Auth.LoginDelay,
	}, logger)

	deps.Audit = audit.NewTrail(ctx, deps.Blobs, deps.Auth, logger, cfg.Audit.MaxEntries)
	deps.Inventory = inventory.NewService(ctx, deps.Blobs, deps.Audit, logger)
	deps.Users = users.NewService(ctx, deps.Blobs, deps.Audit, logger)

	deps.AuthMiddleware = middleware.NewAuthMiddleware(deps.Auth, logger)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initStorage selects the blob store backing: file-based under the
// configured data directory, or in-memory when none is set
func (d *Dependencies) initStorage(cfg *config.Config) error {
	if cfg.Storage.DataDir == "" {
		d.Logger.Warn("no data directory configured, state will not survive restarts")
		d.Blobs = blobmem.New()
		return nil
	}

	store, err := blobfile.New(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	d.Logger.Info("using file-backed storage", zap.String("data_dir", cfg.Storage.DataDir))
	d.Blobs = store
	return nil
}
