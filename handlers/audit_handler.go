package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"github.com/medtrack/pharmacy-inventory/utils"
	"go.uber.org/zap"
)

// AuditHandler exposes the audit trail read API
type AuditHandler struct {
	trail  *audit.Trail
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(trail *audit.Trail, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		trail:  trail,
		logger: logger,
	}
}

// HandleList handles GET /api/v1/audit-logs
func (h *AuditHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.trail.GetAllLogs())
}

// HandleSearch handles GET /api/v1/audit-logs/search?q=
func (h *AuditHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.trail.SearchLogs(r.URL.Query().Get("q")))
}

// HandleByEntity handles GET /api/v1/audit-logs/entity/{type}?id=
func (h *AuditHandler) HandleByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := models.EntityType(chi.URLParam(r, "type"))
	if entityType != models.EntityTypeMedicine && entityType != models.EntityTypeUser {
		_ = utils.WriteBadRequest(w, "Unknown entity type", nil)
		return
	}
	_ = utils.WriteOK(w, h.trail.GetLogsByEntity(entityType, r.URL.Query().Get("id")))
}
