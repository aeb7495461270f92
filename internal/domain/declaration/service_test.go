package declaration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	declarations map[uuid.UUID]*Declaration
	patients     map[uuid.UUID]bool
	created      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		declarations: make(map[uuid.UUID]*Declaration),
		patients:     make(map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, d *Declaration) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	m.declarations[d.ID] = &cp
	m.created++
	return nil
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*Declaration, error) {
	d, ok := m.declarations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Declaration, error) {
	var out []*Declaration
	for _, d := range m.declarations {
		if d.PatientID == patientID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockRepo) SetSurveillance(_ context.Context, id, surveillanceID uuid.UUID) error {
	d, ok := m.declarations[id]
	if !ok {
		return ErrNotFound
	}
	d.SurveillanceID = &surveillanceID
	return nil
}

func (m *mockRepo) PatientExists(_ context.Context, patientID uuid.UUID) (bool, error) {
	return m.patients[patientID], nil
}

const (
	pngSig  = "data:image/png;base64,iVBORw0KGgo="
	jpegSig = "data:image/jpeg;base64,/9j/4AAQ"
)

func validDeclaration(patientID uuid.UUID) *Declaration {
	signedOn := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return &Declaration{
		PatientID:         patientID,
		ExamineeSignature: pngSig,
		ExamineeSignedOn:  signedOn,
		ExaminerSignature: jpegSig,
		ExaminerSignedOn:  signedOn,
	}
}

func TestSaveDeclarationIsAppendOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	patientID := uuid.New()
	repo.patients[patientID] = true

	first := validDeclaration(patientID)
	if err := svc.SaveDeclaration(context.Background(), first); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Re-signing with the previous id still creates a fresh row.
	second := validDeclaration(patientID)
	second.ID = first.ID
	if err := svc.SaveDeclaration(context.Background(), second); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.ID == first.ID {
		t.Error("re-signing must not reuse the previous id")
	}
	if repo.created != 2 {
		t.Errorf("expected 2 rows, got %d", repo.created)
	}
}

func TestSaveDeclarationValidatesSignatures(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()
	repo.patients[patientID] = true

	cases := map[string]func(*Declaration){
		"plain text examinee":  func(d *Declaration) { d.ExamineeSignature = "John Hancock" },
		"wrong scheme":         func(d *Declaration) { d.ExaminerSignature = "http://example.com/sig.png" },
		"gif data uri":         func(d *Declaration) { d.ExamineeSignature = "data:image/gif;base64,R0lGOD" },
		"empty payload":        func(d *Declaration) { d.ExaminerSignature = "data:image/png;base64," },
		"missing signing date": func(d *Declaration) { d.ExamineeSignedOn = time.Time{} },
	}
	for name, corrupt := range cases {
		d := validDeclaration(patientID)
		corrupt(d)
		if err := svc.SaveDeclaration(context.Background(), d); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSaveDeclarationRequiresExistingPatient(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.SaveDeclaration(context.Background(), validDeclaration(uuid.New())); err == nil {
		t.Fatal("expected error for unknown patient")
	}
}

func TestLinkSurveillanceBackfill(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	patientID := uuid.New()
	repo.patients[patientID] = true

	d := validDeclaration(patientID)
	if err := svc.SaveDeclaration(context.Background(), d); err != nil {
		t.Fatalf("save: %v", err)
	}

	surveillanceID := uuid.New()
	if err := svc.LinkSurveillance(context.Background(), d.ID, surveillanceID); err != nil {
		t.Fatalf("link: %v", err)
	}

	got, err := svc.GetDeclaration(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SurveillanceID == nil || *got.SurveillanceID != surveillanceID {
		t.Error("surveillance reference not back-filled")
	}

	if err := svc.LinkSurveillance(context.Background(), d.ID, uuid.Nil); err == nil {
		t.Error("nil surveillance reference should be rejected")
	}
	if err := svc.LinkSurveillance(context.Background(), uuid.New(), surveillanceID); err == nil {
		t.Error("unknown declaration should return an error")
	}
}
