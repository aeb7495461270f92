package company

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisurv/medisurv/pkg/flash"
)

func newTestHandler() (*Handler, *mockRepo, *echo.Echo) {
	repo := newMockRepo()
	h := NewHandler(newTestService(repo))
	e := echo.New()
	return h, repo, e
}

func TestHandler_Create(t *testing.T) {
	h, _, e := newTestHandler()

	body := `{"name":"Acme Plating Sdn Bhd","city":"Shah Alam"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var env flash.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if env.Type != flash.TypeSuccess {
		t.Errorf("expected success envelope, got %q", env.Type)
	}
	if env.Next != "/companies/OHC-0001" {
		t.Errorf("expected next to point at the new company, got %q", env.Next)
	}
}

func TestHandler_CreateMissingName(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); msg != "company name is required" {
		t.Errorf("expected the validation message, got %q", msg)
	}
}

type failingRepo struct {
	*mockRepo
	createErr error
}

func (f *failingRepo) Create(_ context.Context, _ *Company) error {
	return f.createErr
}

func TestHandler_CreateStorageFailure(t *testing.T) {
	repo := &failingRepo{
		mockRepo:  newMockRepo(),
		createErr: errors.New("ERROR: connection refused (SQLSTATE 08006)"),
	}
	h := NewHandler(newTestService(repo))
	e := echo.New()

	body := `{"name":"Acme Plating Sdn Bhd"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/companies", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Create(e.NewContext(req, rec))
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
	if msg, _ := httpErr.Message.(string); strings.Contains(msg, "SQLSTATE") {
		t.Errorf("driver error leaked to client: %q", msg)
	}
	if httpErr.Internal == nil {
		t.Error("expected the cause to be attached for logging")
	}
}

func TestHandler_GetByCode(t *testing.T) {
	h, repo, e := newTestHandler()

	co := &Company{Name: "Acme Plating"}
	if err := newTestService(repo).CreateCompany(nil, co); err != nil {
		t.Fatalf("seed: %v", err)
	}
	// The handler serves lookups through its own service; seed repo state
	// is shared.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(co.Code)

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Company
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Name != "Acme Plating" {
		t.Errorf("expected Acme Plating, got %q", got.Name)
	}
}

func TestHandler_GetNotFound(t *testing.T) {
	h, _, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	if err == nil {
		t.Fatal("expected error for unknown company")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}
