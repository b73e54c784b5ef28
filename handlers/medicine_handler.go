package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/services/inventory"
	"github.com/medtrack/pharmacy-inventory/utils"
	"go.uber.org/zap"
)

// MedicineRequest represents a request to create or replace a medicine.
// Status is never accepted from callers; the store derives it.
type MedicineRequest struct {
	Name         string     `json:"name" validate:"required"`
	BatchNumber  string     `json:"batchNumber" validate:"required"`
	Manufacturer string     `json:"manufacturer" validate:"required"`
	ExpiryDate   time.Time  `json:"expiryDate" validate:"required"`
	Quantity     int        `json:"quantity" validate:"gte=0"`
	Price        float64    `json:"price" validate:"gte=0"`
	Category     string     `json:"category" validate:"required"`
	Description  string     `json:"description,omitempty"`
	Location     string     `json:"location,omitempty"`
	Supplier     string     `json:"supplier,omitempty"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty"`
}

func (req MedicineRequest) toModel() models.Medicine {
	return models.Medicine{
		Name:         req.Name,
		BatchNumber:  req.BatchNumber,
		Manufacturer: req.Manufacturer,
		ExpiryDate:   req.ExpiryDate,
		Quantity:     req.Quantity,
		Price:        req.Price,
		Category:     req.Category,
		Description:  req.Description,
		Location:     req.Location,
		Supplier:     req.Supplier,
		PurchaseDate: req.PurchaseDate,
	}
}

// MedicineHandler handles medicine-related HTTP requests
type MedicineHandler struct {
	inventory *inventory.Service
	logger    *zap.Logger
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(inventoryService *inventory.Service, logger *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		inventory: inventoryService,
		logger:    logger,
	}
}

// HandleList handles GET /api/v1/medicines
func (h *MedicineHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.inventory.GetAll())
}

// HandleGet handles GET /api/v1/medicines/{id}
func (h *MedicineHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	medicine, found := h.inventory.GetByID(id)
	if !found {
		_ = utils.WriteNotFound(w, "Medicine not found")
		return
	}
	_ = utils.WriteOK(w, medicine)
}

// HandleCreate handles POST /api/v1/medicines
func (h *MedicineHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req MedicineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	medicine, err := h.inventory.Create(r.Context(), req.toModel())
	if err != nil {
		h.logger.Error("failed to persist medicine", zap.Error(err))
		writePersistenceError(w, err, "Failed to persist medicine")
		return
	}
	_ = utils.WriteCreated(w, medicine)
}

// HandleUpdate handles PUT /api/v1/medicines/{id}
func (h *MedicineHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MedicineRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	medicine, found, err := h.inventory.Update(r.Context(), id, req.toModel())
	if !found {
		_ = utils.WriteNotFound(w, "Medicine not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to persist medicine", zap.String("id", id), zap.Error(err))
		writePersistenceError(w, err, "Failed to persist medicine")
		return
	}
	_ = utils.WriteOK(w, medicine)
}

// HandleDelete handles DELETE /api/v1/medicines/{id}
func (h *MedicineHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.inventory.Delete(r.Context(), id)
	if !removed {
		_ = utils.WriteNotFound(w, "Medicine not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to persist deletion", zap.String("id", id), zap.Error(err))
		writePersistenceError(w, err, "Failed to persist deletion")
		return
	}
	utils.WriteNoContent(w)
}

// HandleSearch handles GET /api/v1/medicines/search?q=
func (h *MedicineHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.inventory.Search(r.URL.Query().Get("q")))
}

// HandleLowStock handles GET /api/v1/medicines/low-stock
func (h *MedicineHandler) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.inventory.LowStock())
}

// HandleExpired handles GET /api/v1/medicines/expired
func (h *MedicineHandler) HandleExpired(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.inventory.Expired())
}

// HandleStats handles GET /api/v1/medicines/stats
func (h *MedicineHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.inventory.GetStats())
}

// HandleCategories handles GET /api/v1/medicines/categories
func (h *MedicineHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, models.MedicineCategories)
}
