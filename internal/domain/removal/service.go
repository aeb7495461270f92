package removal

import (
	"context"

	"github.com/google/uuid"

	"github.com/medisurv/medisurv/pkg/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateRemoval(ctx context.Context, rm *Removal) error {
	if rm.PatientID == uuid.Nil {
		return validation.Errorf("patient reference is required")
	}
	exists, err := s.repo.PatientExists(ctx, rm.PatientID)
	if err != nil {
		return err
	}
	if !exists {
		return validation.Errorf("patient %s does not exist", rm.PatientID)
	}
	return s.repo.Create(ctx, rm)
}

func (s *Service) GetRemoval(ctx context.Context, id uuid.UUID) (*Removal, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Removal, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
