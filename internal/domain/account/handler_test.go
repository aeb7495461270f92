package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medisurv/medisurv/internal/platform/auth"
)

func newTestHandler(repo Repository) *Handler {
	issuer := auth.NewTokenIssuer("test-secret-test-secret-test-run", time.Hour)
	return NewHandler(NewService(repo, issuer))
}

func TestHandler_Me(t *testing.T) {
	repo := newMockRepo()
	h := newTestHandler(repo)

	u := &User{Username: "drwong", Role: auth.RoleDoctor, Active: true}
	if err := repo.CreateUser(nil, u); err != nil {
		t.Fatalf("seed: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(auth.WithSession(req.Context(), u.ID.String(), u.Username, u.Role))
	rec := httptest.NewRecorder()

	if err := h.Me(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if got.Username != "drwong" {
		t.Errorf("expected drwong, got %q", got.Username)
	}
	if rec.Body.String() != "" && got.PasswordHash != "" {
		t.Error("password hash leaked in response")
	}
}

func TestHandler_MeNoSession(t *testing.T) {
	h := newTestHandler(newMockRepo())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	err := h.Me(e.NewContext(req, rec))
	if err == nil {
		t.Fatal("expected error without a session")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}
