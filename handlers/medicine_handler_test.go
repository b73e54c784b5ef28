package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/medtrack/pharmacy-inventory/models"
	"github.com/medtrack/pharmacy-inventory/repositories/blobmem"
	"github.com/medtrack/pharmacy-inventory/services/audit"
	"github.com/medtrack/pharmacy-inventory/services/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMedicineRouter(t *testing.T) (*chi.Mux, *inventory.Service) {
	t.Helper()
	ctx := context.Background()
	trail := audit.NewTrail(ctx, blobmem.New(), nil, zap.NewNop(), 0)
	svc := inventory.NewService(ctx, blobmem.New(), trail, zap.NewNop())
	h := NewMedicineHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/medicines", h.HandleList)
	r.Post("/medicines", h.HandleCreate)
	r.Get("/medicines/search", h.HandleSearch)
	r.Get("/medicines/low-stock", h.HandleLowStock)
	r.Get("/medicines/stats", h.HandleStats)
	r.Get("/medicines/categories", h.HandleCategories)
	r.Get("/medicines/{id}", h.HandleGet)
	r.Put("/medicines/{id}", h.HandleUpdate)
	r.Delete("/medicines/{id}", h.HandleDelete)
	return r, svc
}

func medicineBody(name string, quantity int) *bytes.Buffer {
	body := fmt.Sprintf(`{
		"name": %q,
		"batchNumber": "B-100",
		"manufacturer": "Bayer",
		"expiryDate": %q,
		"quantity": %d,
		"price": 4.99,
		"category": "analgesic"
	}`, name, time.Now().AddDate(1, 0, 0).Format(time.RFC3339), quantity)
	return bytes.NewBufferString(body)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func TestMedicineCreate(t *testing.T) {
	router, _ := newMedicineRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/medicines", medicineBody("Aspirin", 5)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Medicine
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Aspirin", created.Name)
	assert.Equal(t, models.StatusLowStock, created.Status)
}

func TestMedicineCreateRejectsInvalidBody(t *testing.T) {
	router, _ := newMedicineRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{not json`},
		{"missing name", `{"batchNumber":"B-1","manufacturer":"x","expiryDate":"2030-01-01T00:00:00Z","quantity":1,"price":1,"category":"c"}`},
		{"negative quantity", `{"name":"a","batchNumber":"B-1","manufacturer":"x","expiryDate":"2030-01-01T00:00:00Z","quantity":-1,"price":1,"category":"c"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/medicines", bytes.NewBufferString(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMedicineListAndGet(t *testing.T) {
	router, svc := newMedicineRouter(t)
	created, err := svc.Create(context.Background(), models.Medicine{
		Name: "Aspirin", Quantity: 20, ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Medicine
	decodeData(t, rec, &list)
	require.Len(t, list, 1)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Medicine
	decodeData(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
}

func TestMedicineGetMissing(t *testing.T) {
	router, _ := newMedicineRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/nonexistent-id", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMedicineUpdate(t *testing.T) {
	router, svc := newMedicineRouter(t)
	created, err := svc.Create(context.Background(), models.Medicine{
		Name: "Aspirin", Quantity: 20, ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/medicines/"+created.ID, medicineBody("Aspirin", 0)))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Medicine
	decodeData(t, rec, &updated)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, models.StatusOutOfStock, updated.Status)
}

func TestMedicineUpdateMissingIs404(t *testing.T) {
	router, _ := newMedicineRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/medicines/nonexistent-id", medicineBody("Aspirin", 1)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMedicineDelete(t *testing.T) {
	router, svc := newMedicineRouter(t)
	created, err := svc.Create(context.Background(), models.Medicine{
		Name: "Aspirin", Quantity: 20, ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/medicines/"+created.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/medicines/"+created.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMedicineSearch(t *testing.T) {
	router, svc := newMedicineRouter(t)
	_, err := svc.Create(context.Background(), models.Medicine{
		Name: "Aspirin", Quantity: 20, ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/search?q=aspirin", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.Medicine
	decodeData(t, rec, &results)
	assert.Len(t, results, 1)
}

func TestMedicineStats(t *testing.T) {
	router, svc := newMedicineRouter(t)
	_, err := svc.Create(context.Background(), models.Medicine{
		Name: "Aspirin", Quantity: 5, Price: 2, ExpiryDate: time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats inventory.Stats
	decodeData(t, rec, &stats)
	assert.Equal(t, 1, stats.TotalMedicines)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 10.0, stats.TotalStockValue)
}

// failingBlobs rejects every write
type failingBlobs struct{}

func (failingBlobs) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (failingBlobs) Set(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestMedicineCreateStorageFailureIsServiceUnavailable(t *testing.T) {
	ctx := context.Background()
	trail := audit.NewTrail(ctx, blobmem.New(), nil, zap.NewNop(), 0)
	svc := inventory.NewService(ctx, failingBlobs{}, trail, zap.NewNop())
	h := NewMedicineHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/medicines", h.HandleCreate)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/medicines", medicineBody("Aspirin", 5)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMedicineCategories(t *testing.T) {
	router, _ := newMedicineRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []models.MedicineCategory
	decodeData(t, rec, &categories)
	assert.Equal(t, models.MedicineCategories, categories)
}
