package models

import "time"

// AuditAction represents the type of mutation being audited
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// EntityType identifies which collection an audit entry refers to
type EntityType string

const (
	EntityTypeMedicine EntityType = "medicine"
	EntityTypeUser     EntityType = "user"
)

// FieldChange records one field-level difference between two versions
// of the same record
type FieldChange struct {
	Field    string      `json:"field"`
	OldValue interface{} `json:"oldValue"`
	NewValue interface{} `json:"newValue"`
}

// AuditLog represents one immutable audit trail entry. The entity name and
// actor are captured at mutation time, not looked up later.
type AuditLog struct {
	ID          string        `json:"id"`
	Action      AuditAction   `json:"action"`
	EntityType  EntityType    `json:"entityType"`
	EntityID    string        `json:"entityId"`
	EntityName  string        `json:"entityName"`
	UserID      string        `json:"userId"`
	Username    string        `json:"username"`
	Timestamp   time.Time     `json:"timestamp"`
	Changes     []FieldChange `json:"changes,omitempty"`
	Description string        `json:"description,omitempty"`
}

// RecordID returns the unique identifier of the audit entry
func (l AuditLog) RecordID() string {
	return l.ID
}
