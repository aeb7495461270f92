package surveillance

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medisurv/medisurv/pkg/validation"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// resolveVocabulary applies the Other substitution: when the Other option
// is selected the free text becomes the stored value. Selecting Other with
// no free text is an error; the stored value is never literally "Other".
func resolveVocabulary(option, freetext, field string) (string, error) {
	if option != OtherOption {
		return option, nil
	}
	freetext = strings.TrimSpace(freetext)
	if freetext == "" {
		return "", validation.Errorf("%s: Other selected but no value given", field)
	}
	return freetext, nil
}

func (s *Service) prepare(ctx context.Context, rec *Record, action string) error {
	if action != ActionSave && action != ActionSubmit {
		return validation.Errorf("unknown action %q", action)
	}
	if rec.PatientID == uuid.Nil {
		return validation.Errorf("patient reference is required")
	}
	if rec.ExamDate.IsZero() {
		return validation.Errorf("examination date is required")
	}

	exists, err := s.repo.PatientExists(ctx, rec.PatientID)
	if err != nil {
		return err
	}
	if !exists {
		return validation.Errorf("patient %s does not exist", rec.PatientID)
	}

	chem, err := resolveVocabulary(rec.Chemical, rec.ChemicalOther, "chemical")
	if err != nil {
		return err
	}
	rec.Chemical = chem
	rec.ChemicalOther = ""

	det, err := resolveVocabulary(rec.Biological.Determinant, rec.Biological.DeterminantOther, "biological determinant")
	if err != nil {
		return err
	}
	rec.Biological.Determinant = det
	rec.Biological.DeterminantOther = ""

	if action == ActionSubmit {
		if err := validateComplete(rec); err != nil {
			return err
		}
		rec.Status = StatusComplete
	} else {
		rec.Status = StatusDraft
	}
	return nil
}

// validateComplete enforces the full examination contract applied on
// submit. Drafts skip all of this.
func validateComplete(rec *Record) error {
	if rec.Chemical == "" {
		return validation.Errorf("chemical exposure is required to submit")
	}
	if !rec.Symptoms.allAnswered() {
		return validation.Errorf("all symptom questions must be answered to submit")
	}
	if !rec.Physical.vitalsComplete() {
		return validation.Errorf("height, weight, blood pressure and pulse are required to submit")
	}
	if rec.FitnessStatus == nil || strings.TrimSpace(*rec.FitnessStatus) == "" {
		return validation.Errorf("fitness for work conclusion is required to submit")
	}
	if rec.RespiratorFitness == nil || strings.TrimSpace(*rec.RespiratorFitness) == "" {
		return validation.Errorf("respirator fitness conclusion is required to submit")
	}
	return nil
}

// nextPath decides where the client goes after a successful write. A
// not-fit conclusion routes into the medical removal flow pre-filled with
// the patient and current employer.
func (s *Service) nextPath(ctx context.Context, rec *Record) string {
	if !rec.NotFit() {
		return fmt.Sprintf("/patients/%s/surveillance", rec.PatientID)
	}
	employer, err := s.repo.EmployerName(ctx, rec.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("patient_id", rec.PatientID).Msg("employer lookup for removal flow failed")
	}
	q := url.Values{}
	q.Set("patient_id", rec.PatientID.String())
	if employer != "" {
		q.Set("employer", employer)
	}
	return "/removal/new?" + q.Encode()
}

func (s *Service) CreateRecord(ctx context.Context, rec *Record, action string) (string, error) {
	if err := s.prepare(ctx, rec, action); err != nil {
		return "", err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", err
	}
	return s.nextPath(ctx, rec), nil
}

func (s *Service) UpdateRecord(ctx context.Context, id uuid.UUID, rec *Record, action string) (string, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	rec.ID = id
	rec.CreatedAt = existing.CreatedAt

	if err := s.prepare(ctx, rec, action); err != nil {
		return "", err
	}
	if err := s.repo.Update(ctx, rec); err != nil {
		return "", err
	}
	return s.nextPath(ctx, rec), nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
