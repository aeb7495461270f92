package surveillance

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

const recordCols = `id, patient_id, examiner, exam_date, exam_type, status, chemical, exposure_duration,
	sym_respiratory_cough, sym_respiratory_wheeze, sym_respiratory_breathless,
	sym_skin_rash, sym_skin_itch, sym_neuro_headache, sym_neuro_dizziness,
	sym_neuro_numbness, sym_gi_nausea, sym_gi_appetite_loss, sym_general_fatigue,
	sym_general_weight_loss,
	height_cm, weight_kg, bp_systolic, bp_diastolic, pulse,
	finding_skin, finding_lungs, finding_heart, finding_abdomen, finding_neuro,
	target_organ, lab_fev1, lab_fvc, lab_alt, lab_creatinine, lab_notes,
	bio_determinant, bio_baseline, bio_annual,
	respirator_fitness, fitness_status,
	rec_continue_work, rec_reduce_exposure, rec_medical_removal, rec_refer_specialist,
	followup_date, next_exam_date, created_at, updated_at`

func writeArgs(rec *Record) []any {
	return []any{
		rec.ID, rec.PatientID, rec.Examiner, rec.ExamDate, rec.ExamType,
		rec.Status, rec.Chemical, rec.ExposureDuration,
		rec.Symptoms.RespiratoryCough, rec.Symptoms.RespiratoryWheeze,
		rec.Symptoms.RespiratoryBreathless, rec.Symptoms.SkinRash,
		rec.Symptoms.SkinItch, rec.Symptoms.NeuroHeadache,
		rec.Symptoms.NeuroDizziness, rec.Symptoms.NeuroNumbness,
		rec.Symptoms.GINausea, rec.Symptoms.GIAppetiteLoss,
		rec.Symptoms.GeneralFatigue, rec.Symptoms.GeneralWeightLoss,
		rec.Physical.HeightCM, rec.Physical.WeightKG, rec.Physical.BPSystolic,
		rec.Physical.BPDiastolic, rec.Physical.Pulse, rec.Physical.FindingSkin,
		rec.Physical.FindingLungs, rec.Physical.FindingHeart,
		rec.Physical.FindingAbdomen, rec.Physical.FindingNeuro,
		rec.TargetOrgan.Organ, rec.TargetOrgan.LabFEV1, rec.TargetOrgan.LabFVC,
		rec.TargetOrgan.LabALT, rec.TargetOrgan.LabCreatinine, rec.TargetOrgan.LabNotes,
		rec.Biological.Determinant, rec.Biological.Baseline, rec.Biological.Annual,
		rec.RespiratorFitness, rec.FitnessStatus,
		rec.Recommendations.ContinueWork, rec.Recommendations.ReduceExposure,
		rec.Recommendations.MedicalRemoval, rec.Recommendations.ReferSpecialist,
		rec.Recommendations.FollowupDate, rec.Recommendations.NextExamDate,
	}
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.PatientID, &rec.Examiner, &rec.ExamDate, &rec.ExamType,
		&rec.Status, &rec.Chemical, &rec.ExposureDuration,
		&rec.Symptoms.RespiratoryCough, &rec.Symptoms.RespiratoryWheeze,
		&rec.Symptoms.RespiratoryBreathless, &rec.Symptoms.SkinRash,
		&rec.Symptoms.SkinItch, &rec.Symptoms.NeuroHeadache,
		&rec.Symptoms.NeuroDizziness, &rec.Symptoms.NeuroNumbness,
		&rec.Symptoms.GINausea, &rec.Symptoms.GIAppetiteLoss,
		&rec.Symptoms.GeneralFatigue, &rec.Symptoms.GeneralWeightLoss,
		&rec.Physical.HeightCM, &rec.Physical.WeightKG, &rec.Physical.BPSystolic,
		&rec.Physical.BPDiastolic, &rec.Physical.Pulse, &rec.Physical.FindingSkin,
		&rec.Physical.FindingLungs, &rec.Physical.FindingHeart,
		&rec.Physical.FindingAbdomen, &rec.Physical.FindingNeuro,
		&rec.TargetOrgan.Organ, &rec.TargetOrgan.LabFEV1, &rec.TargetOrgan.LabFVC,
		&rec.TargetOrgan.LabALT, &rec.TargetOrgan.LabCreatinine, &rec.TargetOrgan.LabNotes,
		&rec.Biological.Determinant, &rec.Biological.Baseline, &rec.Biological.Annual,
		&rec.RespiratorFitness, &rec.FitnessStatus,
		&rec.Recommendations.ContinueWork, &rec.Recommendations.ReduceExposure,
		&rec.Recommendations.MedicalRemoval, &rec.Recommendations.ReferSpecialist,
		&rec.Recommendations.FollowupDate, &rec.Recommendations.NextExamDate,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan surveillance record: %w", err)
	}
	return &rec, nil
}

func placeholders(n int) string {
	s := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			s += ","
		}
		s += fmt.Sprintf("$%d", i)
	}
	return s
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	args := writeArgs(rec)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO chemical_information (
			id, patient_id, examiner, exam_date, exam_type, status, chemical, exposure_duration,
			sym_respiratory_cough, sym_respiratory_wheeze, sym_respiratory_breathless,
			sym_skin_rash, sym_skin_itch, sym_neuro_headache, sym_neuro_dizziness,
			sym_neuro_numbness, sym_gi_nausea, sym_gi_appetite_loss, sym_general_fatigue,
			sym_general_weight_loss,
			height_cm, weight_kg, bp_systolic, bp_diastolic, pulse,
			finding_skin, finding_lungs, finding_heart, finding_abdomen, finding_neuro,
			target_organ, lab_fev1, lab_fvc, lab_alt, lab_creatinine, lab_notes,
			bio_determinant, bio_baseline, bio_annual,
			respirator_fitness, fitness_status,
			rec_continue_work, rec_reduce_exposure, rec_medical_removal, rec_refer_specialist,
			followup_date, next_exam_date
		) VALUES (`+placeholders(len(args))+`)`, args...)
	if err != nil {
		return fmt.Errorf("insert surveillance record: %w", err)
	}
	return nil
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	args := writeArgs(rec)
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE chemical_information SET
			patient_id = $2, examiner = $3, exam_date = $4, exam_type = $5,
			status = $6, chemical = $7, exposure_duration = $8,
			sym_respiratory_cough = $9, sym_respiratory_wheeze = $10,
			sym_respiratory_breathless = $11, sym_skin_rash = $12,
			sym_skin_itch = $13, sym_neuro_headache = $14,
			sym_neuro_dizziness = $15, sym_neuro_numbness = $16,
			sym_gi_nausea = $17, sym_gi_appetite_loss = $18,
			sym_general_fatigue = $19, sym_general_weight_loss = $20,
			height_cm = $21, weight_kg = $22, bp_systolic = $23,
			bp_diastolic = $24, pulse = $25,
			finding_skin = $26, finding_lungs = $27, finding_heart = $28,
			finding_abdomen = $29, finding_neuro = $30,
			target_organ = $31, lab_fev1 = $32, lab_fvc = $33, lab_alt = $34,
			lab_creatinine = $35, lab_notes = $36,
			bio_determinant = $37, bio_baseline = $38, bio_annual = $39,
			respirator_fitness = $40, fitness_status = $41,
			rec_continue_work = $42, rec_reduce_exposure = $43,
			rec_medical_removal = $44, rec_refer_specialist = $45,
			followup_date = $46, next_exam_date = $47,
			updated_at = NOW()
		WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("update surveillance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	row := r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM chemical_information WHERE id = $1`, id)
	return scanRecord(row)
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM chemical_information WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete surveillance record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Record, int, error) {
	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM chemical_information`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count surveillance records: %w", err)
	}

	rows, err := q.Query(ctx,
		`SELECT `+recordCols+` FROM chemical_information ORDER BY exam_date DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list surveillance records: %w", err)
	}
	defer rows.Close()

	out, err := collect(rows)
	return out, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM chemical_information WHERE patient_id = $1 ORDER BY exam_date DESC`,
		patientID)
	if err != nil {
		return nil, fmt.Errorf("list surveillance by patient: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Record, error) {
	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repoPG) PatientExists(ctx context.Context, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient_information WHERE id = $1)`, patientID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient: %w", err)
	}
	return exists, nil
}

func (r *repoPG) EmployerName(ctx context.Context, patientID uuid.UUID) (string, error) {
	var name *string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT company_name FROM occupational_history WHERE patient_id = $1`, patientID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get employer name: %w", err)
	}
	if name == nil {
		return "", nil
	}
	return *name, nil
}
