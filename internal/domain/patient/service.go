package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medisurv/medisurv/internal/domain/company"
	"github.com/medisurv/medisurv/pkg/validation"
)

// WorkerCounter refreshes a company's cached worker count after intake
// touches the employment record. Satisfied by company.Service.
type WorkerCounter interface {
	RecomputeWorkerCount(ctx context.Context, name string) error
}

// TxRunner executes fn with a transaction in the context, committing on
// nil and rolling back on error. Production wiring uses db.WithTx.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo    Repository
	counter WorkerCounter
	inTx    TxRunner
	logger  zerolog.Logger
}

func NewService(repo Repository, counter WorkerCounter, inTx TxRunner, logger zerolog.Logger) *Service {
	return &Service{repo: repo, counter: counter, inTx: inTx, logger: logger}
}

func (s *Service) validate(rec *Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return validation.Errorf("patient name is required")
	}
	if !rec.HasIdentityDocument() {
		return validation.Errorf("either NRIC or passport number is required")
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, rec *Record) error {
	if err := s.validate(rec); err != nil {
		return err
	}

	err := s.inTx(ctx, func(ctx context.Context) error {
		code, err := s.repo.NextCode(ctx)
		if err != nil {
			return fmt.Errorf("allocate patient code: %w", err)
		}
		rec.Code = code
		return s.repo.Create(ctx, rec)
	})
	if err != nil {
		return err
	}

	s.recount(ctx, rec.EmployerName())
	return nil
}

// GetPatient accepts either a formatted patient code or a UUID.
func (s *Service) GetPatient(ctx context.Context, identifier string) (*Record, error) {
	if IsCode(identifier) {
		return s.repo.GetByCode(ctx, identifier)
	}
	id, err := uuid.Parse(identifier)
	if err != nil {
		return nil, validation.Errorf("invalid patient identifier %q", identifier)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, rec *Record) error {
	if err := s.validate(rec); err != nil {
		return err
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	rec.ID = id
	rec.Code = existing.Code

	if err := s.inTx(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, rec)
	}); err != nil {
		return err
	}

	// A changed employer moves this patient between count buckets.
	oldName, newName := existing.EmployerName(), rec.EmployerName()
	s.recount(ctx, oldName)
	if company.NormalizeName(oldName) != company.NormalizeName(newName) {
		s.recount(ctx, newName)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, query, limit, offset)
}

// DeletePatient removes the record and every dependent row. The cascade
// runs inside one transaction so a failure at any step leaves the record
// intact.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	err = s.inTx(ctx, func(ctx context.Context) error {
		for _, step := range []func(context.Context, uuid.UUID) error{
			s.repo.DeleteDeclarations,
			s.repo.DeleteRemovals,
			s.repo.DeleteSurveillance,
			s.repo.DeleteHistories,
			s.repo.DeletePatientRow,
		} {
			if err := step(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.recount(ctx, existing.EmployerName())
	return nil
}

// recount is best-effort; counts drift until the next recount run if it
// fails.
func (s *Service) recount(ctx context.Context, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	if err := s.counter.RecomputeWorkerCount(ctx, name); err != nil {
		s.logger.Error().Err(err).Str("company", name).Msg("worker count recompute failed")
	}
}
