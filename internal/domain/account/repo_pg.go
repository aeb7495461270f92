package account

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

const userCols = `id, username, password_hash, role, display_name, active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.DisplayName,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *repoPG) CreateUser(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO users (id, username, password_hash, role, display_name, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.PasswordHash, u.Role, u.DisplayName, u.Active,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *repoPG) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *repoPG) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *repoPG) CreateStaff(ctx context.Context, st *Staff) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_staff (id, name, designation, registration_no)
		VALUES ($1,$2,$3,$4)`,
		st.ID, st.Name, st.Designation, st.RegistrationNo,
	)
	if err != nil {
		return fmt.Errorf("insert medical staff: %w", err)
	}
	return nil
}

func (r *repoPG) ListStaff(ctx context.Context) ([]*Staff, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, designation, registration_no, created_at
		FROM medical_staff ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list medical staff: %w", err)
	}
	defer rows.Close()

	var out []*Staff
	for rows.Next() {
		var st Staff
		if err := rows.Scan(&st.ID, &st.Name, &st.Designation, &st.RegistrationNo, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan medical staff: %w", err)
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}
