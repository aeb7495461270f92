package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medisurv/medisurv/internal/platform/auth"
)

type mockRepo struct {
	users map[string]*User
	staff []*Staff
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[string]*User)}
}

func (m *mockRepo) CreateUser(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m *mockRepo) GetUserByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) CreateStaff(_ context.Context, st *Staff) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	cp := *st
	m.staff = append(m.staff, &cp)
	return nil
}

func (m *mockRepo) ListStaff(_ context.Context) ([]*Staff, error) {
	return m.staff, nil
}

func newTestService(repo Repository) *Service {
	issuer := auth.NewTokenIssuer("test-secret-test-secret-test-run", time.Hour)
	return NewService(repo, issuer)
}

func TestCreateUserAndLogin(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	u, err := svc.CreateUser(context.Background(), "drtan", "correct horse", auth.RoleDoctor, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.PasswordHash == "correct horse" {
		t.Fatal("password must be stored hashed")
	}

	token, logged, err := svc.Login(context.Background(), "drtan", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if logged.ID != u.ID {
		t.Error("login returned wrong user")
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if _, err := svc.CreateUser(context.Background(), "drtan", "correct horse", auth.RoleDoctor, nil); err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Unknown user and wrong password are indistinguishable.
	_, _, unknownErr := svc.Login(context.Background(), "nobody", "whatever")
	_, _, wrongErr := svc.Login(context.Background(), "drtan", "wrong password")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Errorf("expected uniform ErrInvalidCredentials, got %v and %v", unknownErr, wrongErr)
	}

	// Deactivated accounts fail the same way.
	repo.users["drtan"].Active = false
	_, _, inactiveErr := svc.Login(context.Background(), "drtan", "correct horse")
	if !errors.Is(inactiveErr, ErrInvalidCredentials) {
		t.Errorf("inactive account should return ErrInvalidCredentials, got %v", inactiveErr)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc := newTestService(newMockRepo())

	if _, err := svc.CreateUser(context.Background(), "", "long enough", auth.RoleNurse, nil); err == nil {
		t.Error("blank username should fail")
	}
	if _, err := svc.CreateUser(context.Background(), "nurse1", "short", auth.RoleNurse, nil); err == nil {
		t.Error("short password should fail")
	}
	if _, err := svc.CreateUser(context.Background(), "nurse1", "long enough", "janitor", nil); err == nil {
		t.Error("unknown role should fail")
	}
}

func TestStaffDirectory(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	if err := svc.CreateStaff(context.Background(), &Staff{Name: " "}); err == nil {
		t.Error("blank staff name should fail")
	}

	if err := svc.CreateStaff(context.Background(), &Staff{Name: "Dr Tan Wei Ming"}); err != nil {
		t.Fatalf("create staff: %v", err)
	}
	staff, err := svc.ListStaff(context.Background())
	if err != nil {
		t.Fatalf("list staff: %v", err)
	}
	if len(staff) != 1 || staff[0].Name != "Dr Tan Wei Ming" {
		t.Errorf("unexpected staff listing: %+v", staff)
	}
}
