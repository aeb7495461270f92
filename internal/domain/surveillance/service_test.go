package surveillance

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	records   map[uuid.UUID]*Record
	patients  map[uuid.UUID]bool
	employers map[uuid.UUID]string
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records:   make(map[uuid.UUID]*Record),
		patients:  make(map[uuid.UUID]bool),
		employers: make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) Create(_ context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, rec *Record) error {
	if _, ok := m.records[rec.ID]; !ok {
		return ErrNotFound
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]*Record, int, error) {
	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Record, error) {
	var out []*Record
	for _, rec := range m.records {
		if rec.PatientID == patientID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockRepo) PatientExists(_ context.Context, patientID uuid.UUID) (bool, error) {
	return m.patients[patientID], nil
}

func (m *mockRepo) EmployerName(_ context.Context, patientID uuid.UUID) (string, error) {
	return m.employers[patientID], nil
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, zerolog.Nop())
}

func strPtr(s string) *string   { return &s }
func boolPtr(b bool) *bool      { return &b }
func fltPtr(f float64) *float64 { return &f }
func intPtr(n int) *int         { return &n }

func draftRecord(patientID uuid.UUID) *Record {
	return &Record{
		PatientID: patientID,
		ExamDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Chemical:  "Benzene",
	}
}

func completeRecord(patientID uuid.UUID) *Record {
	rec := draftRecord(patientID)
	no := boolPtr(false)
	rec.Symptoms = Symptoms{
		RespiratoryCough: no, RespiratoryWheeze: no, RespiratoryBreathless: no,
		SkinRash: no, SkinItch: no, NeuroHeadache: no, NeuroDizziness: no,
		NeuroNumbness: no, GINausea: no, GIAppetiteLoss: no,
		GeneralFatigue: no, GeneralWeightLoss: no,
	}
	rec.Physical = Physical{
		HeightCM: fltPtr(172), WeightKG: fltPtr(70),
		BPSystolic: intPtr(120), BPDiastolic: intPtr(80), Pulse: intPtr(68),
	}
	rec.FitnessStatus = strPtr("Fit for Work")
	rec.RespiratorFitness = strPtr("Fit to wear respirator")
	return rec
}

func addPatient(repo *mockRepo, employer string) uuid.UUID {
	id := uuid.New()
	repo.patients[id] = true
	if employer != "" {
		repo.employers[id] = employer
	}
	return id
}

func TestSavePersistsIncompleteDraft(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	rec := draftRecord(patientID)
	// No symptoms, no vitals, no conclusions.
	if _, err := svc.CreateRecord(context.Background(), rec, ActionSave); err != nil {
		t.Fatalf("save should accept incomplete record: %v", err)
	}

	stored, err := repo.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != StatusDraft {
		t.Errorf("expected draft status, got %q", stored.Status)
	}
}

func TestSubmitRejectsIncompleteRecord(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	if _, err := svc.CreateRecord(context.Background(), draftRecord(patientID), ActionSubmit); err == nil {
		t.Fatal("submit should reject incomplete record")
	}
	if len(repo.records) != 0 {
		t.Error("rejected record must not be persisted")
	}
}

func TestSubmitMarksRecordComplete(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	rec := completeRecord(patientID)
	if _, err := svc.CreateRecord(context.Background(), rec, ActionSubmit); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Status != StatusComplete {
		t.Errorf("expected complete status, got %q", rec.Status)
	}
}

func TestSubmitRequiresEveryConstraint(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	cases := map[string]func(*Record){
		"missing chemical":       func(r *Record) { r.Chemical = "" },
		"unanswered symptom":     func(r *Record) { r.Symptoms.NeuroHeadache = nil },
		"missing vitals":         func(r *Record) { r.Physical.Pulse = nil },
		"missing fitness":        func(r *Record) { r.FitnessStatus = nil },
		"missing respirator fit": func(r *Record) { r.RespiratorFitness = strPtr("  ") },
	}
	for name, corrupt := range cases {
		rec := completeRecord(patientID)
		corrupt(rec)
		if _, err := svc.CreateRecord(context.Background(), rec, ActionSubmit); err == nil {
			t.Errorf("%s: submit should fail", name)
		}
	}
}

func TestChemicalOtherSubstitution(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	rec := draftRecord(patientID)
	rec.Chemical = OtherOption
	rec.ChemicalOther = "Unlisted Solvent X"
	if _, err := svc.CreateRecord(context.Background(), rec, ActionSave); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, _ := repo.Get(context.Background(), rec.ID)
	if stored.Chemical != "Unlisted Solvent X" {
		t.Errorf("expected substituted free text, got %q", stored.Chemical)
	}

	// Other with no free text must be rejected.
	bad := draftRecord(patientID)
	bad.Chemical = OtherOption
	if _, err := svc.CreateRecord(context.Background(), bad, ActionSave); err == nil {
		t.Error("Other with empty free text should fail")
	}
}

func TestChemicalSelectionRoundTrip(t *testing.T) {
	rec := &Record{Chemical: "Benzene"}
	opt, free := rec.ChemicalSelection()
	if opt != "Benzene" || free != "" {
		t.Errorf("vocabulary value should select itself, got (%q, %q)", opt, free)
	}

	rec.Chemical = "Unlisted Solvent X"
	opt, free = rec.ChemicalSelection()
	if opt != OtherOption || free != "Unlisted Solvent X" {
		t.Errorf("unlisted value should render as Other+freetext, got (%q, %q)", opt, free)
	}

	rec.Biological.Determinant = "Blood lead"
	opt, free = rec.DeterminantSelection()
	if opt != "Blood lead" || free != "" {
		t.Errorf("determinant vocabulary value should select itself, got (%q, %q)", opt, free)
	}
}

func TestNotFitRoutesToRemovalFlow(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "Acme Plating")

	rec := completeRecord(patientID)
	rec.FitnessStatus = strPtr("Not Fit for Work")
	next, err := svc.CreateRecord(context.Background(), rec, ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(next, "/removal/new?") {
		t.Fatalf("expected removal flow, got %q", next)
	}
	if !strings.Contains(next, "patient_id="+patientID.String()) {
		t.Errorf("next should carry patient id, got %q", next)
	}
	if !strings.Contains(next, "employer=Acme+Plating") {
		t.Errorf("next should carry employer, got %q", next)
	}
}

func TestNotFitRespiratorAlsoRoutesToRemovalFlow(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	rec := completeRecord(patientID)
	rec.RespiratorFitness = strPtr("NOT FIT to wear respirator")
	next, err := svc.CreateRecord(context.Background(), rec, ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !strings.HasPrefix(next, "/removal/new?") {
		t.Errorf("expected removal flow, got %q", next)
	}
}

func TestFitRoutesToPatientSurveillanceList(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	next, err := svc.CreateRecord(context.Background(), completeRecord(patientID), ActionSubmit)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := "/patients/" + patientID.String() + "/surveillance"
	if next != want {
		t.Errorf("expected %q, got %q", want, next)
	}
}

func TestCreateRejectsUnknownPatient(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)

	rec := draftRecord(uuid.New())
	if _, err := svc.CreateRecord(context.Background(), rec, ActionSave); err == nil {
		t.Fatal("expected error for unknown patient")
	}
}

func TestUpdatePreservesCreationTime(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo)
	patientID := addPatient(repo, "")

	rec := draftRecord(patientID)
	if _, err := svc.CreateRecord(context.Background(), rec, ActionSave); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.records[rec.ID].CreatedAt = created

	updated := draftRecord(patientID)
	if _, err := svc.UpdateRecord(context.Background(), rec.ID, updated, ActionSave); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Errorf("update must not rewrite creation time")
	}
}
