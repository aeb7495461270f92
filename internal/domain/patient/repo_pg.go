package patient

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

const patientCols = `id, patient_code, name, nric, passport, date_of_birth, gender, race,
	nationality, marital_status, phone, email, address_line1, address_line2,
	city, state, postcode, created_at, updated_at`

func scanPatient(row pgx.Row, p *Patient) error {
	return row.Scan(
		&p.ID, &p.Code, &p.Name, &p.NRIC, &p.Passport, &p.DateOfBirth,
		&p.Gender, &p.Race, &p.Nationality, &p.MaritalStatus, &p.Phone,
		&p.Email, &p.AddressLine1, &p.AddressLine2, &p.City, &p.State,
		&p.Postcode, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	q := r.conn(ctx)
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO patient_information (
			id, patient_code, name, nric, passport, date_of_birth, gender, race,
			nationality, marital_status, phone, email, address_line1, address_line2,
			city, state, postcode
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		rec.ID, rec.Code, rec.Name, rec.NRIC, rec.Passport, rec.DateOfBirth,
		rec.Gender, rec.Race, rec.Nationality, rec.MaritalStatus, rec.Phone,
		rec.Email, rec.AddressLine1, rec.AddressLine2, rec.City, rec.State,
		rec.Postcode,
	)
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	return r.writeSubRecords(ctx, rec)
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	q := r.conn(ctx)
	tag, err := q.Exec(ctx, `
		UPDATE patient_information SET
			name = $2, nric = $3, passport = $4, date_of_birth = $5, gender = $6,
			race = $7, nationality = $8, marital_status = $9, phone = $10,
			email = $11, address_line1 = $12, address_line2 = $13, city = $14,
			state = $15, postcode = $16, updated_at = NOW()
		WHERE id = $1`,
		rec.ID, rec.Name, rec.NRIC, rec.Passport, rec.DateOfBirth, rec.Gender,
		rec.Race, rec.Nationality, rec.MaritalStatus, rec.Phone, rec.Email,
		rec.AddressLine1, rec.AddressLine2, rec.City, rec.State, rec.Postcode,
	)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return r.writeSubRecords(ctx, rec)
}

// writeSubRecords upserts the four 1:1 sub-rows. Intake always writes the
// complete bundle, so a plain overwrite is correct.
func (r *repoPG) writeSubRecords(ctx context.Context, rec *Record) error {
	q := r.conn(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO medical_history (
			patient_id, asthma, diabetes, hypertension, heart_disease,
			kidney_disease, liver_disease, skin_disease, allergies,
			current_medication, other_conditions
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (patient_id) DO UPDATE SET
			asthma = EXCLUDED.asthma, diabetes = EXCLUDED.diabetes,
			hypertension = EXCLUDED.hypertension, heart_disease = EXCLUDED.heart_disease,
			kidney_disease = EXCLUDED.kidney_disease, liver_disease = EXCLUDED.liver_disease,
			skin_disease = EXCLUDED.skin_disease, allergies = EXCLUDED.allergies,
			current_medication = EXCLUDED.current_medication,
			other_conditions = EXCLUDED.other_conditions, updated_at = NOW()`,
		rec.ID, rec.Medical.Asthma, rec.Medical.Diabetes, rec.Medical.Hypertension,
		rec.Medical.HeartDisease, rec.Medical.KidneyDisease, rec.Medical.LiverDisease,
		rec.Medical.SkinDisease, rec.Medical.Allergies, rec.Medical.CurrentMedication,
		rec.Medical.OtherConditions,
	)
	if err != nil {
		return fmt.Errorf("upsert medical history: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO social_history (
			patient_id, smoking_status, cigarettes_per_day, smoking_years,
			vaping_status, alcohol_use
		) VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (patient_id) DO UPDATE SET
			smoking_status = EXCLUDED.smoking_status,
			cigarettes_per_day = EXCLUDED.cigarettes_per_day,
			smoking_years = EXCLUDED.smoking_years,
			vaping_status = EXCLUDED.vaping_status,
			alcohol_use = EXCLUDED.alcohol_use, updated_at = NOW()`,
		rec.ID, rec.Social.SmokingStatus, rec.Social.CigarettesPerDay,
		rec.Social.SmokingYears, rec.Social.VapingStatus, rec.Social.AlcoholUse,
	)
	if err != nil {
		return fmt.Errorf("upsert social history: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO occupational_history (
			patient_id, company_name, job_title, department, years_exposed,
			previous_employers, incidents
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (patient_id) DO UPDATE SET
			company_name = EXCLUDED.company_name, job_title = EXCLUDED.job_title,
			department = EXCLUDED.department, years_exposed = EXCLUDED.years_exposed,
			previous_employers = EXCLUDED.previous_employers,
			incidents = EXCLUDED.incidents, updated_at = NOW()`,
		rec.ID, rec.Occupational.CompanyName, rec.Occupational.JobTitle,
		rec.Occupational.Department, rec.Occupational.YearsExposed,
		rec.Occupational.PreviousEmployers, rec.Occupational.Incidents,
	)
	if err != nil {
		return fmt.Errorf("upsert occupational history: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO training_history (
			patient_id, chemical_handling_trained, chemical_handling_comment,
			ppe_trained, ppe_comment
		) VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (patient_id) DO UPDATE SET
			chemical_handling_trained = EXCLUDED.chemical_handling_trained,
			chemical_handling_comment = EXCLUDED.chemical_handling_comment,
			ppe_trained = EXCLUDED.ppe_trained,
			ppe_comment = EXCLUDED.ppe_comment, updated_at = NOW()`,
		rec.ID, rec.Training.ChemicalHandlingTrained, rec.Training.ChemicalHandlingComment,
		rec.Training.PPETrained, rec.Training.PPEComment,
	)
	if err != nil {
		return fmt.Errorf("upsert training history: %w", err)
	}
	return nil
}

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Record, error) {
	return r.get(ctx, `WHERE patient_code = $1`, code)
}

func (r *repoPG) get(ctx context.Context, where string, arg any) (*Record, error) {
	q := r.conn(ctx)

	var rec Record
	row := q.QueryRow(ctx, `SELECT `+patientCols+` FROM patient_information `+where, arg)
	if err := scanPatient(row, &rec.Patient); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}

	// Sub-rows are optional; a missing row leaves the zero value.
	err := q.QueryRow(ctx, `
		SELECT asthma, diabetes, hypertension, heart_disease, kidney_disease,
			liver_disease, skin_disease, allergies, current_medication, other_conditions
		FROM medical_history WHERE patient_id = $1`, rec.ID,
	).Scan(
		&rec.Medical.Asthma, &rec.Medical.Diabetes, &rec.Medical.Hypertension,
		&rec.Medical.HeartDisease, &rec.Medical.KidneyDisease, &rec.Medical.LiverDisease,
		&rec.Medical.SkinDisease, &rec.Medical.Allergies, &rec.Medical.CurrentMedication,
		&rec.Medical.OtherConditions,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get medical history: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT smoking_status, cigarettes_per_day, smoking_years, vaping_status, alcohol_use
		FROM social_history WHERE patient_id = $1`, rec.ID,
	).Scan(
		&rec.Social.SmokingStatus, &rec.Social.CigarettesPerDay,
		&rec.Social.SmokingYears, &rec.Social.VapingStatus, &rec.Social.AlcoholUse,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get social history: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT company_name, job_title, department, years_exposed, previous_employers, incidents
		FROM occupational_history WHERE patient_id = $1`, rec.ID,
	).Scan(
		&rec.Occupational.CompanyName, &rec.Occupational.JobTitle,
		&rec.Occupational.Department, &rec.Occupational.YearsExposed,
		&rec.Occupational.PreviousEmployers, &rec.Occupational.Incidents,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get occupational history: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT chemical_handling_trained, chemical_handling_comment, ppe_trained, ppe_comment
		FROM training_history WHERE patient_id = $1`, rec.ID,
	).Scan(
		&rec.Training.ChemicalHandlingTrained, &rec.Training.ChemicalHandlingComment,
		&rec.Training.PPETrained, &rec.Training.PPEComment,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get training history: %w", err)
	}

	return &rec, nil
}

func (r *repoPG) List(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	q := r.conn(ctx)

	where := ""
	args := []any{}
	if query != "" {
		where = `WHERE name ILIKE $1 OR nric = $2 OR passport = $2 OR patient_code = $2`
		args = append(args, "%"+query+"%", query)
	}

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patient_information `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM patient_information %s ORDER BY patient_code LIMIT $%d OFFSET $%d`,
		patientCols, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []*Patient
	for rows.Next() {
		var p Patient
		if err := scanPatient(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, &p)
	}
	return out, total, rows.Err()
}

func (r *repoPG) NextCode(ctx context.Context) (string, error) {
	q := r.conn(ctx)
	var max *int
	err := q.QueryRow(ctx,
		`SELECT MAX(SUBSTRING(patient_code FROM 5)::int) FROM patient_information`,
	).Scan(&max)
	if err != nil {
		return "", fmt.Errorf("next patient code: %w", err)
	}
	n := 1
	if max != nil {
		n = *max + 1
	}
	return fmt.Sprintf("OHP-%05d", n), nil
}

func (r *repoPG) DeleteDeclarations(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM declarations WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) DeleteRemovals(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_removal WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) DeleteSurveillance(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM chemical_information WHERE patient_id = $1`, patientID)
	return err
}

func (r *repoPG) DeleteHistories(ctx context.Context, patientID uuid.UUID) error {
	q := r.conn(ctx)
	for _, table := range []string{
		"training_history", "occupational_history", "social_history", "medical_history",
	} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE patient_id = $1`, patientID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (r *repoPG) DeletePatientRow(ctx context.Context, patientID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_information WHERE id = $1`, patientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
