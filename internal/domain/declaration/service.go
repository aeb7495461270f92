package declaration

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

// SaveDeclaration appends a new signing record. Re-signing creates a new
// row; existing declarations are never overwritten.
func (s *Service) SaveDeclaration(ctx context.Context, d *Declaration) error {
	if d.PatientID == uuid.Nil {
		return validation.Errorf("patient reference is required")
	}
	if !ValidSignature(d.ExamineeSignature) {
		return validation.Errorf("examinee signature must be a PNG or JPEG data URI")
	}
	if !ValidSignature(d.ExaminerSignature) {
		return validation.Errorf("examiner signature must be a PNG or JPEG data URI")
	}
	if d.ExamineeSignedOn.IsZero() || d.ExaminerSignedOn.IsZero() {
		return validation.Errorf("both signing dates are required")
	}

	exists, err := s.repo.PatientExists(ctx, d.PatientID)
	if err != nil {
		return err
	}
	if !exists {
		return validation.Errorf("patient %s does not exist", d.PatientID)
	}

	d.ID = uuid.Nil // force a fresh row even if the client echoes an id
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDeclaration(ctx context.Context, id uuid.UUID) (*Declaration, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Declaration, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// LinkSurveillance back-fills the surveillance reference on an existing
// declaration. This is the only mutation the table permits.
func (s *Service) LinkSurveillance(ctx context.Context, id, surveillanceID uuid.UUID) error {
	if surveillanceID == uuid.Nil {
		return validation.Errorf("surveillance reference is required")
	}
	return s.repo.SetSurveillance(ctx, id, surveillanceID)
}
