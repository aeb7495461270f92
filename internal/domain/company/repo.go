package company

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound marks a lookup that matched no company row. It is distinct
// from an empty listing and never surfaces as a raw scan error.
var ErrNotFound = errors.New("company not found")

type Repository interface {
	Create(ctx context.Context, co *Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
	GetByCode(ctx context.Context, code string) (*Company, error)
	Update(ctx context.Context, co *Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Company, int, error)
	NextCode(ctx context.Context) (string, error)

	// Worker-count aggregate maintenance.
	CountDistinctWorkers(ctx context.Context, normalizedName string) (int, error)
	SetWorkerCountByName(ctx context.Context, normalizedName string, count int) (int, error)
	AllNames(ctx context.Context) ([]string, error)
}
