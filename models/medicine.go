package models

import "time"

// MedicineStatus represents the lifecycle status of an inventory item.
// It is derived from quantity and expiry date and is never set by callers.
type MedicineStatus string

const (
	StatusAvailable  MedicineStatus = "available"
	StatusLowStock   MedicineStatus = "low-stock"
	StatusOutOfStock MedicineStatus = "out-of-stock"
	StatusExpired    MedicineStatus = "expired"
)

// LowStockThreshold is the quantity at or below which an item counts as low stock.
const LowStockThreshold = 10

// Medicine represents one inventory item
type Medicine struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	BatchNumber  string         `json:"batchNumber"`
	Manufacturer string         `json:"manufacturer"`
	ExpiryDate   time.Time      `json:"expiryDate"`
	Quantity     int            `json:"quantity"`
	Price        float64        `json:"price"`
	Category     string         `json:"category"`
	Description  string         `json:"description,omitempty"`
	Location     string         `json:"location,omitempty"`
	Supplier     string         `json:"supplier,omitempty"`
	PurchaseDate *time.Time     `json:"purchaseDate,omitempty"`
	Status       MedicineStatus `json:"status"`
}

// RecordID returns the unique identifier of the medicine
func (m Medicine) RecordID() string {
	return m.ID
}

// DeriveStatus computes the status of a medicine as of the given date.
// Pure function of (expiryDate, quantity, asOf); expiry wins over the
// quantity rules, and the comparison is date-only (time of day ignored).
func DeriveStatus(m Medicine, asOf time.Time) MedicineStatus {
	if dateOnly(m.ExpiryDate).Before(dateOnly(asOf)) {
		return StatusExpired
	}
	if m.Quantity == 0 {
		return StatusOutOfStock
	}
	if m.Quantity <= LowStockThreshold {
		return StatusLowStock
	}
	return StatusAvailable
}

// dateOnly normalizes a timestamp to its calendar date. The components are
// rebuilt in UTC so two timestamps sharing a calendar date compare equal
// regardless of their zone offsets.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MedicineCategory is a selectable category for inventory items
type MedicineCategory struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// MedicineCategories lists the categories offered by the application
var MedicineCategories = []MedicineCategory{
	{Value: "antibiotic", Label: "Antibiotic"},
	{Value: "analgesic", Label: "Analgesic"},
	{Value: "antiviral", Label: "Antiviral"},
	{Value: "antifungal", Label: "Antifungal"},
	{Value: "vitamin", Label: "Vitamin"},
	{Value: "supplement", Label: "Supplement"},
	{Value: "cardiac", Label: "Cardiac"},
	{Value: "diabetic", Label: "Diabetic"},
	{Value: "respiratory", Label: "Respiratory"},
	{Value: "other", Label: "Other"},
}
