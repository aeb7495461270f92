package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("account not found")

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	CreateStaff(ctx context.Context, st *Staff) error
	ListStaff(ctx context.Context) ([]*Staff, error)
}
