package company

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company maps to the company table. TotalWorkers is a cached aggregate
// recomputed from occupational_history whenever employment rows change.
type Company struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Code           string    `db:"company_code" json:"company_code"`
	Name           string    `db:"name" json:"name"`
	AddressLine1   *string   `db:"address_line1" json:"address_line1,omitempty"`
	AddressLine2   *string   `db:"address_line2" json:"address_line2,omitempty"`
	City           *string   `db:"city" json:"city,omitempty"`
	State          *string   `db:"state" json:"state,omitempty"`
	Postcode       *string   `db:"postcode" json:"postcode,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	RegistrationNo *string   `db:"registration_no" json:"registration_no,omitempty"`
	ContactPerson  *string   `db:"contact_person" json:"contact_person,omitempty"`
	TotalWorkers   int       `db:"total_workers" json:"total_workers"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

var codePattern = regexp.MustCompile(`^OHC-\d{4,}$`)

// IsCode reports whether the identifier is a formatted company code
// (e.g. "OHC-0042") rather than a primary key.
func IsCode(identifier string) bool {
	return codePattern.MatchString(identifier)
}

// NormalizeName is the single normalization used to link patient employment
// text to a company row: trim then case-fold. Two spellings that normalize
// identically are counted as the same employer; two distinct companies whose
// names collide after normalization collapse into one count.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
