package types

import "time"

// UserRole represents the role assigned to a user account
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RolePatient   UserRole = "patient"
	RoleDoctor    UserRole = "doctor"
	RoleCaregiver UserRole = "caregiver"
)

// User is the directory view of an account, enough for notification
// content and ownership checks. Credential and session fields live
// outside this service.
type User struct {
	ID               string    `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Role             UserRole  `json:"role" db:"role"`
	HealthConditions []string  `json:"health_conditions,omitempty" db:"health_conditions"`
	IsActive         bool      `json:"is_active" db:"is_active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// UserClaims carries the identity extracted from a bearer token
type UserClaims struct {
	UserID string   `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}
