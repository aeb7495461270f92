package declaration

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("declaration not found")

// Repository persists declarations. There is no update or delete: the
// table is append-only apart from the surveillance back-fill.
type Repository interface {
	Create(ctx context.Context, d *Declaration) error
	Get(ctx context.Context, id uuid.UUID) (*Declaration, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Declaration, error)
	SetSurveillance(ctx context.Context, id, surveillanceID uuid.UUID) error
	PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error)
}
