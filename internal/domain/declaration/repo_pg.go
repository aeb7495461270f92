package declaration

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

const declarationCols = `id, patient_id, surveillance_id, company_name,
	examinee_signature, examinee_signed_on, examiner_signature, examiner_signed_on,
	created_at`

func scanDeclaration(row pgx.Row) (*Declaration, error) {
	var d Declaration
	err := row.Scan(
		&d.ID, &d.PatientID, &d.SurveillanceID, &d.CompanyName,
		&d.ExamineeSignature, &d.ExamineeSignedOn, &d.ExaminerSignature,
		&d.ExaminerSignedOn, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan declaration: %w", err)
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Declaration) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO declarations (
			id, patient_id, surveillance_id, company_name,
			examinee_signature, examinee_signed_on, examiner_signature, examiner_signed_on
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.PatientID, d.SurveillanceID, d.CompanyName,
		d.ExamineeSignature, d.ExamineeSignedOn, d.ExaminerSignature, d.ExaminerSignedOn,
	)
	if err != nil {
		return fmt.Errorf("insert declaration: %w", err)
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Declaration, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+declarationCols+` FROM declarations WHERE id = $1`, id)
	return scanDeclaration(row)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Declaration, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+declarationCols+` FROM declarations WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID)
	if err != nil {
		return nil, fmt.Errorf("list declarations: %w", err)
	}
	defer rows.Close()

	var out []*Declaration
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repoPG) SetSurveillance(ctx context.Context, id, surveillanceID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE declarations SET surveillance_id = $2 WHERE id = $1`, id, surveillanceID)
	if err != nil {
		return fmt.Errorf("link surveillance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
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
