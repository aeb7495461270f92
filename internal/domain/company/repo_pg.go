package company

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
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const companyCols = `id, company_code, name, address_line1, address_line2, city, state, postcode,
	phone, email, registration_no, contact_person, total_workers, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, co *Company) error {
	co.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO company (
			id, company_code, name, address_line1, address_line2, city, state, postcode,
			phone, email, registration_no, contact_person
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		co.ID, co.Code, co.Name, co.AddressLine1, co.AddressLine2, co.City, co.State, co.Postcode,
		co.Phone, co.Email, co.RegistrationNo, co.ContactPerson,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return scanCompany(r.conn(ctx).QueryRow(ctx,
		`SELECT `+companyCols+` FROM company WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Company, error) {
	return scanCompany(r.conn(ctx).QueryRow(ctx,
		`SELECT `+companyCols+` FROM company WHERE company_code = $1`, code))
}

func (r *repoPG) Update(ctx context.Context, co *Company) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE company SET
			name=$2, address_line1=$3, address_line2=$4, city=$5, state=$6, postcode=$7,
			phone=$8, email=$9, registration_no=$10, contact_person=$11, updated_at=NOW()
		WHERE id = $1`,
		co.ID, co.Name, co.AddressLine1, co.AddressLine2, co.City, co.State, co.Postcode,
		co.Phone, co.Email, co.RegistrationNo, co.ContactPerson,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM company WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Company, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM company`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+companyCols+` FROM company ORDER BY company_code LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		co, err := scanCompanyRow(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, co)
	}
	return companies, total, rows.Err()
}

// NextCode derives the next formatted company code from the highest one
// issued so far.
func (r *repoPG) NextCode(ctx context.Context) (string, error) {
	var max *int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT MAX(SUBSTRING(company_code FROM 5)::int) FROM company`).Scan(&max)
	if err != nil {
		return "", err
	}
	next := 1
	if max != nil {
		next = *max + 1
	}
	return fmt.Sprintf("OHC-%04d", next), nil
}

func (r *repoPG) CountDistinctWorkers(ctx context.Context, normalizedName string) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(DISTINCT patient_id) FROM occupational_history
		WHERE LOWER(TRIM(company_name)) = $1`, normalizedName).Scan(&count)
	return count, err
}

// SetWorkerCountByName writes the count onto every company row whose name
// normalizes to the target, returning how many rows matched.
func (r *repoPG) SetWorkerCountByName(ctx context.Context, normalizedName string, count int) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE company SET total_workers = $2, updated_at = NOW()
		WHERE LOWER(TRIM(name)) = $1`, normalizedName, count)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) AllNames(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT name FROM company ORDER BY company_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func scanCompany(row pgx.Row) (*Company, error) {
	var co Company
	err := row.Scan(
		&co.ID, &co.Code, &co.Name, &co.AddressLine1, &co.AddressLine2, &co.City, &co.State, &co.Postcode,
		&co.Phone, &co.Email, &co.RegistrationNo, &co.ContactPerson, &co.TotalWorkers,
		&co.CreatedAt, &co.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &co, nil
}

func scanCompanyRow(rows pgx.Rows) (*Company, error) {
	var co Company
	err := rows.Scan(
		&co.ID, &co.Code, &co.Name, &co.AddressLine1, &co.AddressLine2, &co.City, &co.State, &co.Postcode,
		&co.Phone, &co.Email, &co.RegistrationNo, &co.ContactPerson, &co.TotalWorkers,
		&co.CreatedAt, &co.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &co, nil
}
