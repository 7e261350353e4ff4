package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// exportColumns fixes the column order of every export.
var exportColumns = []struct {
	key    string
	header string
}{
	{"id", "ID"},
	{"name", "NAME"},
	{"email", "EMAIL"},
	{"role", "APPLIED ROLE"},
	{"stage", "STAGE"},
	{"resume", "RESUME"},
	{"created_at", "CREATED AT"},
	{"updated_at", "UPDATED AT"},
}

// ExportCandidates renders every candidate, or only those in stage, as xlsx or csv.
func (u *candidateUsecase) ExportCandidates(ctx context.Context, caller domain.Principal, stage *domain.PipelineStage, format string) ([]byte, string, error) {
	if err := u.access.Require(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, "", err
	}
	if format == "" {
		format = domain.ExportFormatXLSX
	}
	if format != domain.ExportFormatXLSX && format != domain.ExportFormatCSV {
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}

	var (
		candidates []domain.Candidate
		err        error
	)
	if stage != nil {
		candidates, err = u.GetCandidatesByStage(ctx, caller, *stage)
	} else {
		candidates, err = u.GetAllCandidates(ctx, caller)
	}
	if err != nil {
		return nil, "", err
	}

	var data []byte
	switch format {
	case domain.ExportFormatCSV:
		data, err = exportCSV(candidates)
	default:
		data, err = exportExcel(candidates)
	}
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	u.secLog.LogDataExport(ctx, string(caller), format, len(candidates))
	filename := fmt.Sprintf("candidates_%s.%s", u.now().Format("20060102_150405"), format)
	return data, filename, nil
}

const exportSheet = "Candidates"

func exportExcel(candidates []domain.Candidate) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
	}
	if err := writeRow(f, exportSheet, 1, header); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, c := range candidates {
		row := make([]interface{}, len(exportColumns))
		for j, col := range exportColumns {
			row[j] = candidateFieldValue(c, col.key)
		}
		if err := writeRow(f, exportSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", lastCol, 20); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow fills sheet row (1-based) starting at column A.
func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}

func exportCSV(candidates []domain.Candidate) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.key
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, c := range candidates {
		row := make([]string, len(exportColumns))
		for i, col := range exportColumns {
			row[i] = candidateFieldValue(c, col.key)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func candidateFieldValue(c domain.Candidate, field string) string {
	switch field {
	case "id":
		return strconv.FormatInt(c.ID, 10)
	case "name":
		return c.Name
	case "email":
		return c.Email
	case "role":
		return c.Role
	case "stage":
		return string(c.Stage)
	case "resume":
		return c.Resume
	case "created_at":
		return c.CreatedAt.UTC().Format(time.RFC3339)
	case "updated_at":
		return c.UpdatedAt.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
