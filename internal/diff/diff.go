// Package diff computes field-level differences between two versions of
// the same record, restricted to an explicit per-kind allowlist.
package diff

import "github.com/medtrack/pharmacy-inventory/models"

// Field declares one tracked field of a record: its wire name and how to
// read its value. Tracked values are scalars or dates, never nested objects.
type Field[T any] struct {
	Name  string
	Value func(T) interface{}
}

// Changes compares two versions of a record over the tracked allowlist.
// Entries are emitted in allowlist order for strictly unequal values.
// The result is an empty (non-nil) slice when nothing changed.
func Changes[T any](oldRec, newRec T, tracked []Field[T]) []models.FieldChange {
	changes := make([]models.FieldChange, 0)
	for _, f := range tracked {
		oldValue := f.Value(oldRec)
		newValue := f.Value(newRec)
		if oldValue != newValue {
			changes = append(changes, models.FieldChange{
				Field:    f.Name,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}
	return changes
}
