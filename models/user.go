package models

// UserRole represents the role of a user within the pharmacy
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RolePharmacist UserRole = "pharmacist"
	RoleStaff      UserRole = "staff"
)

// User represents a user account
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
	Name     string   `json:"name,omitempty"`
}

// RecordID returns the unique identifier of the user
func (u User) RecordID() string {
	return u.ID
}

// IsAdmin returns true if the user has admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
