package patient

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Patient is the wide identity/demographics row. Identity documents are
// optional individually but at least one of NRIC or passport must be set.
type Patient struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Code          string     `json:"patient_code" db:"patient_code"`
	Name          string     `json:"name" db:"name"`
	NRIC          *string    `json:"nric,omitempty" db:"nric"`
	Passport      *string    `json:"passport,omitempty" db:"passport"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender        *string    `json:"gender,omitempty" db:"gender"`
	Race          *string    `json:"race,omitempty" db:"race"`
	Nationality   *string    `json:"nationality,omitempty" db:"nationality"`
	MaritalStatus *string    `json:"marital_status,omitempty" db:"marital_status"`
	Phone         *string    `json:"phone,omitempty" db:"phone"`
	Email         *string    `json:"email,omitempty" db:"email"`
	AddressLine1  *string    `json:"address_line1,omitempty" db:"address_line1"`
	AddressLine2  *string    `json:"address_line2,omitempty" db:"address_line2"`
	City          *string    `json:"city,omitempty" db:"city"`
	State         *string    `json:"state,omitempty" db:"state"`
	Postcode      *string    `json:"postcode,omitempty" db:"postcode"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type MedicalHistory struct {
	Asthma            bool    `json:"asthma" db:"asthma"`
	Diabetes          bool    `json:"diabetes" db:"diabetes"`
	Hypertension      bool    `json:"hypertension" db:"hypertension"`
	HeartDisease      bool    `json:"heart_disease" db:"heart_disease"`
	KidneyDisease     bool    `json:"kidney_disease" db:"kidney_disease"`
	LiverDisease      bool    `json:"liver_disease" db:"liver_disease"`
	SkinDisease       bool    `json:"skin_disease" db:"skin_disease"`
	Allergies         *string `json:"allergies,omitempty" db:"allergies"`
	CurrentMedication *string `json:"current_medication,omitempty" db:"current_medication"`
	OtherConditions   *string `json:"other_conditions,omitempty" db:"other_conditions"`
}

type SocialHistory struct {
	SmokingStatus    *string `json:"smoking_status,omitempty" db:"smoking_status"`
	CigarettesPerDay *int    `json:"cigarettes_per_day,omitempty" db:"cigarettes_per_day"`
	SmokingYears     *int    `json:"smoking_years,omitempty" db:"smoking_years"`
	VapingStatus     *string `json:"vaping_status,omitempty" db:"vaping_status"`
	AlcoholUse       *string `json:"alcohol_use,omitempty" db:"alcohol_use"`
}

type OccupationalHistory struct {
	CompanyName       *string  `json:"company_name,omitempty" db:"company_name"`
	JobTitle          *string  `json:"job_title,omitempty" db:"job_title"`
	Department        *string  `json:"department,omitempty" db:"department"`
	YearsExposed      *float64 `json:"years_exposed,omitempty" db:"years_exposed"`
	PreviousEmployers *string  `json:"previous_employers,omitempty" db:"previous_employers"`
	Incidents         *string  `json:"incidents,omitempty" db:"incidents"`
}

type TrainingHistory struct {
	ChemicalHandlingTrained bool    `json:"chemical_handling_trained" db:"chemical_handling_trained"`
	ChemicalHandlingComment *string `json:"chemical_handling_comment,omitempty" db:"chemical_handling_comment"`
	PPETrained              bool    `json:"ppe_trained" db:"ppe_trained"`
	PPEComment              *string `json:"ppe_comment,omitempty" db:"ppe_comment"`
}

// Record bundles the wide patient row with its four 1:1 sub-records.
// Writes overwrite the whole bundle.
type Record struct {
	Patient
	Medical      MedicalHistory      `json:"medical_history"`
	Social       SocialHistory       `json:"social_history"`
	Occupational OccupationalHistory `json:"occupational_history"`
	Training     TrainingHistory     `json:"training_history"`
}

var codePattern = regexp.MustCompile(`^OHP-\d{5,}$`)

// IsCode reports whether s looks like a formatted patient code.
func IsCode(s string) bool {
	return codePattern.MatchString(s)
}

// HasIdentityDocument reports whether the record carries at least one of
// NRIC or passport.
func (p *Patient) HasIdentityDocument() bool {
	return (p.NRIC != nil && *p.NRIC != "") || (p.Passport != nil && *p.Passport != "")
}

// EmployerName returns the current employer name, or "" when none recorded.
func (r *Record) EmployerName() string {
	if r.Occupational.CompanyName == nil {
		return ""
	}
	return *r.Occupational.CompanyName
}
