package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medisurv/medisurv/internal/platform/auth"
	"github.com/medisurv/medisurv/pkg/validation"
)

// ErrInvalidCredentials is returned for every login failure mode so the
// response never reveals whether the username exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	repo   Repository
	tokens *auth.TokenIssuer
}

func NewService(repo Repository, tokens *auth.TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

var validRoles = map[string]bool{
	auth.RoleAdmin:  true,
	auth.RoleDoctor: true,
	auth.RoleNurse:  true,
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.Active {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID.String(), u.Username, u.Role)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

func (s *Service) CreateUser(ctx context.Context, username, password, role string, displayName *string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validation.Errorf("username is required")
	}
	if len(password) < 8 {
		return nil, validation.Errorf("password must be at least 8 characters")
	}
	if !validRoles[role] {
		return nil, validation.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		DisplayName:  displayName,
		Active:       true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser loads the account behind a session token's subject.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) CreateStaff(ctx context.Context, st *Staff) error {
	if strings.TrimSpace(st.Name) == "" {
		return validation.Errorf("staff name is required")
	}
	return s.repo.CreateStaff(ctx, st)
}

func (s *Service) ListStaff(ctx context.Context) ([]*Staff, error) {
	return s.repo.ListStaff(ctx)
}
