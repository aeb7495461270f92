package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

// Repository persists patient records. Write methods honor an ambient
// transaction placed in the context by db.WithTx; the delete steps are
// split out so the service can run the cascade in a fixed order.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByCode(ctx context.Context, code string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	List(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error)
	NextCode(ctx context.Context) (string, error)

	DeleteDeclarations(ctx context.Context, patientID uuid.UUID) error
	DeleteRemovals(ctx context.Context, patientID uuid.UUID) error
	DeleteSurveillance(ctx context.Context, patientID uuid.UUID) error
	DeleteHistories(ctx context.Context, patientID uuid.UUID) error
	DeletePatientRow(ctx context.Context, patientID uuid.UUID) error
}
