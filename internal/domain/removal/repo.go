package removal

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("medical removal not found")

type Repository interface {
	Create(ctx context.Context, rm *Removal) error
	Get(ctx context.Context, id uuid.UUID) (*Removal, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Removal, error)
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
}
