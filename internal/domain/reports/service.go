package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// PatientRegister builds the patient register workbook.
func (s *Service) PatientRegister(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.PatientRows(ctx)
	if err != nil {
		return nil, err
	}

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{r.Code, r.Name, r.NRIC, r.Passport, r.Employer, r.JobTitle})
	}

	f := excelize.NewFile()
	err = writeSheet(f, "Patients",
		[]string{"Code", "Name", "NRIC", "Passport", "Employer", "Job Title"}, data)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("build patient register: %w", err)
	}
	return f, nil
}

// SurveillanceSummary builds the examination summary workbook.
func (s *Service) SurveillanceSummary(ctx context.Context) (*excelize.File, error) {
	rows, err := s.repo.SurveillanceRows(ctx)
	if err != nil {
		return nil, err
	}

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.PatientCode, r.PatientName, r.ExamDate.Format("2006-01-02"),
			r.Chemical, r.Fitness, r.Status,
		})
	}

	f := excelize.NewFile()
	err = writeSheet(f, "Surveillance",
		[]string{"Patient Code", "Patient", "Exam Date", "Chemical", "Fitness", "Status"}, data)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("build surveillance summary: %w", err)
	}
	return f, nil
}
