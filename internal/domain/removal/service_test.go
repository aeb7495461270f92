package removal

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	removals map[uuid.UUID]*Removal
	patients map[uuid.UUID]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		removals: make(map[uuid.UUID]*Removal),
		patients: make(map[uuid.UUID]bool),
	}
}

func (m *mockRepo) Create(_ context.Context, rm *Removal) error {
	if rm.ID == uuid.Nil {
		rm.ID = uuid.New()
	}
	cp := *rm
	m.removals[rm.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*Removal, error) {
	rm, ok := m.removals[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rm
	return &cp, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Removal, error) {
	var out []*Removal
	for _, rm := range m.removals {
		if rm.PatientID == patientID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (m *mockRepo) PatientExists(_ context.Context, patientID uuid.UUID) (bool, error) {
	return m.patients[patientID], nil
}

func TestCreateRemovalRequiresExistingPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	rm := &Removal{PatientID: uuid.New()}
	if err := svc.CreateRemoval(context.Background(), rm); err == nil {
		t.Fatal("expected error for unknown patient")
	}

	patientID := uuid.New()
	repo.patients[patientID] = true
	rm = &Removal{PatientID: patientID}
	if err := svc.CreateRemoval(context.Background(), rm); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetRemoval(context.Background(), rm.ID); err != nil {
		t.Fatalf("get after create: %v", err)
	}
}

func TestCreateRemovalRequiresPatientRef(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.CreateRemoval(context.Background(), &Removal{}); err == nil {
		t.Fatal("expected error for missing patient reference")
	}
}

func TestListByPatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	patientID := uuid.New()
	repo.patients[patientID] = true
	for i := 0; i < 2; i++ {
		if err := svc.CreateRemoval(context.Background(), &Removal{PatientID: patientID}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	out, err := svc.ListByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 removals, got %d", len(out))
	}
}
