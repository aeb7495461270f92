package removal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medisurv/medisurv/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const removalCols = `id, patient_id, surveillance_id, employer_name, removal_date,
	reason, recommended_duration, doctor, created_at`

func scanRemoval(row pgx.Row) (*Removal, error) {
	var rm Removal
	err := row.Scan(
		&rm.ID, &rm.PatientID, &rm.SurveillanceID, &rm.EmployerName,
		&rm.RemovalDate, &rm.Reason, &rm.RecommendedDuration, &rm.Doctor,
		&rm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan medical removal: %w", err)
	}
	return &rm, nil
}

func (r *repoPG) Create(ctx context.Context, rm *Removal) error {
	if rm.ID == uuid.Nil {
		rm.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_removal (
			id, patient_id, surveillance_id, employer_name, removal_date,
			reason, recommended_duration, doctor
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rm.ID, rm.PatientID, rm.SurveillanceID, rm.EmployerName, rm.RemovalDate,
		rm.Reason, rm.RecommendedDuration, rm.Doctor,
	)
	if err != nil {
		return fmt.Errorf("insert medical removal: %w", err)
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Removal, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+removalCols+` FROM medical_removal WHERE id = $1`, id)
	return scanRemoval(row)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Removal, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+removalCols+` FROM medical_removal WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, fmt.Errorf("list medical removals: %w", err)
	}
	defer rows.Close()

	var out []*Removal
	for rows.Next() {
		rm, err := scanRemoval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *repoPG) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient_information WHERE id = $1)`, patientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient: %w", err)
	}
	return exists, nil
}
