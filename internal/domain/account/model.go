package account

import (
	"time"

	"github.com/google/uuid"
)

// User is a login account. The password hash never leaves the package.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Staff is a clinic practitioner listed on examination and declaration
// forms. Staff entries are directory data, not login accounts.
type Staff struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Designation    *string   `json:"designation,omitempty" db:"designation"`
	RegistrationNo *string   `json:"registration_no,omitempty" db:"registration_no"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
