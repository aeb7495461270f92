package reports

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) PatientRows(ctx context.Context) ([]PatientRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.patient_code, p.name, COALESCE(p.nric, ''), COALESCE(p.passport, ''),
			COALESCE(o.company_name, ''), COALESCE(o.job_title, '')
		FROM patient_information p
		LEFT JOIN occupational_history o ON o.patient_id = p.id
		ORDER BY p.patient_code`)
	if err != nil {
		return nil, fmt.Errorf("query patient register: %w", err)
	}
	defer rows.Close()

	var out []PatientRow
	for rows.Next() {
		var row PatientRow
		if err := rows.Scan(&row.Code, &row.Name, &row.NRIC, &row.Passport, &row.Employer, &row.JobTitle); err != nil {
			return nil, fmt.Errorf("scan patient register: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repoPG) SurveillanceRows(ctx context.Context) ([]SurveillanceRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.patient_code, p.name, c.exam_date,
			COALESCE(c.chemical, ''), COALESCE(c.fitness_status, ''), c.status
		FROM chemical_information c
		JOIN patient_information p ON p.id = c.patient_id
		ORDER BY c.exam_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("query surveillance summary: %w", err)
	}
	defer rows.Close()

	var out []SurveillanceRow
	for rows.Next() {
		var row SurveillanceRow
		if err := rows.Scan(&row.PatientCode, &row.PatientName, &row.ExamDate, &row.Chemical, &row.Fitness, &row.Status); err != nil {
			return nil, fmt.Errorf("scan surveillance summary: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
