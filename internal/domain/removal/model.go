package removal

import (
	"time"

	"github.com/google/uuid"
)

// Removal records a medical removal protection decision taken after a
// not-fit surveillance conclusion.
type Removal struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	PatientID           uuid.UUID  `json:"patient_id" db:"patient_id"`
	SurveillanceID      *uuid.UUID `json:"surveillance_id,omitempty" db:"surveillance_id"`
	EmployerName        *string    `json:"employer_name,omitempty" db:"employer_name"`
	RemovalDate         *time.Time `json:"removal_date,omitempty" db:"removal_date"`
	Reason              *string    `json:"reason,omitempty" db:"reason"`
	RecommendedDuration *string    `json:"recommended_duration,omitempty" db:"recommended_duration"`
	Doctor              *string    `json:"doctor,omitempty" db:"doctor"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
}
