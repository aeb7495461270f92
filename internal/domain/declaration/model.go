package declaration

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Declaration is an append-only signing record. Signatures are captured
// client-side and stored as base64 data URIs; rows are never updated
// except to back-fill the surveillance reference.
type Declaration struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	PatientID         uuid.UUID  `json:"patient_id" db:"patient_id"`
	SurveillanceID    *uuid.UUID `json:"surveillance_id,omitempty" db:"surveillance_id"`
	CompanyName       *string    `json:"company_name,omitempty" db:"company_name"`
	ExamineeSignature string     `json:"examinee_signature" db:"examinee_signature"`
	ExamineeSignedOn  time.Time  `json:"examinee_signed_on" db:"examinee_signed_on"`
	ExaminerSignature string     `json:"examiner_signature" db:"examiner_signature"`
	ExaminerSignedOn  time.Time  `json:"examiner_signed_on" db:"examiner_signed_on"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

var signaturePrefixes = []string{
	"data:image/png;base64,",
	"data:image/jpeg;base64,",
}

// ValidSignature reports whether s is a data URI of an accepted image
// type with a non-empty payload.
func ValidSignature(s string) bool {
	for _, prefix := range signaturePrefixes {
		if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
			return true
		}
	}
	return false
}
