package surveillance

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("surveillance record not found")

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error)
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
	EmployerName(ctx context.Context, patientID uuid.UUID) (string, error)
}
