package company

import (
	"context"
	"fmt"
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

func (s *Service) ListCompanies(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// GetCompany looks a company up by formatted code when the identifier
// matches the code pattern, otherwise by primary key.
func (s *Service) GetCompany(ctx context.Context, identifier string) (*Company, error) {
	if IsCode(identifier) {
		return s.repo.GetByCode(ctx, identifier)
	}
	id, err := uuid.Parse(identifier)
	if err != nil {
		return nil, validation.Errorf("invalid company identifier %q", identifier)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateCompany(ctx context.Context, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return validation.Errorf("company name is required")
	}
	code, err := s.repo.NextCode(ctx)
	if err != nil {
		return fmt.Errorf("allocate company code: %w", err)
	}
	co.Code = code

	if err := s.repo.Create(ctx, co); err != nil {
		return err
	}

	// Recompute is intentionally not transactional with the insert; a
	// failure here leaves a stale count until the next recount.
	if err := s.RecomputeWorkerCount(ctx, co.Name); err != nil {
		s.logger.Error().Err(err).Str("company", co.Name).Msg("worker count recompute failed after create")
	}
	return nil
}

func (s *Service) UpdateCompany(ctx context.Context, id uuid.UUID, co *Company) error {
	if strings.TrimSpace(co.Name) == "" {
		return validation.Errorf("company name is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	co.ID = id
	co.Code = existing.Code

	if err := s.repo.Update(ctx, co); err != nil {
		return err
	}

	// A rename moves workers between count buckets, so both the old and
	// new names need recomputing.
	if err := s.RecomputeWorkerCount(ctx, existing.Name); err != nil {
		s.logger.Error().Err(err).Str("company", existing.Name).Msg("worker count recompute failed after update")
	}
	if NormalizeName(existing.Name) != NormalizeName(co.Name) {
		if err := s.RecomputeWorkerCount(ctx, co.Name); err != nil {
			s.logger.Error().Err(err).Str("company", co.Name).Msg("worker count recompute failed after rename")
		}
	}
	return nil
}

func (s *Service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// RecomputeWorkerCount rescans occupational history for the given employer
// name and writes the distinct-patient count back onto every company row
// with that normalized name.
func (s *Service) RecomputeWorkerCount(ctx context.Context, name string) error {
	normalized := NormalizeName(name)
	if normalized == "" {
		return nil
	}

	count, err := s.repo.CountDistinctWorkers(ctx, normalized)
	if err != nil {
		return fmt.Errorf("count workers for %q: %w", name, err)
	}

	matched, err := s.repo.SetWorkerCountByName(ctx, normalized, count)
	if err != nil {
		return fmt.Errorf("write worker count for %q: %w", name, err)
	}
	if matched > 1 {
		s.logger.Warn().
			Str("normalized_name", normalized).
			Int("company_rows", matched).
			Msg("multiple company rows share a normalized name; counts collapsed")
	}
	return nil
}

// RecomputeAllWorkerCounts refreshes the cached aggregate for every company.
func (s *Service) RecomputeAllWorkerCounts(ctx context.Context) (int, error) {
	names, err := s.repo.AllNames(ctx)
	if err != nil {
		return 0, err
	}

	done := make(map[string]bool, len(names))
	for _, name := range names {
		normalized := NormalizeName(name)
		if done[normalized] {
			continue
		}
		if err := s.RecomputeWorkerCount(ctx, name); err != nil {
			return len(done), err
		}
		done[normalized] = true
	}
	return len(done), nil
}
