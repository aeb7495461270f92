// Package reports exports clinic registers as XLSX workbooks.
package reports

import (
	"context"
	"time"
)

// PatientRow is one line of the patient register export.
type PatientRow struct {
	Code     string
	Name     string
	NRIC     string
	Passport string
	Employer string
	JobTitle string
}

// SurveillanceRow is one line of the examination summary export.
type SurveillanceRow struct {
	PatientCode string
	PatientName string
	ExamDate    time.Time
	Chemical    string
	Fitness     string
	Status      string
}

type Repository interface {
	PatientRows(ctx context.Context) ([]PatientRow, error)
	SurveillanceRows(ctx context.Context) ([]SurveillanceRow, error)
}
