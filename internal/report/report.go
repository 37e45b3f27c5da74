// Package report renders a batch evaluation into an XLSX summary sheet,
// one row per job posting.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/ats-screener/internal/evaluation"
	"github.com/spigell/ats-screener/internal/ranking"
)

const sheetName = "Screening Results"

var headerCells = []string{
	"Company Name",
	"Job Role",
	"Apply Link",
	"Best Match Resume",
	"ATS Score",
	"ATS Result",
	"New Resume Name",
	"All Resume Scores",
}

// Minimum widths per column, in excelize character units.
var columnWidths = []float64{20, 24, 28, 26, 10, 14, 34, 44}

// Write renders the batch into an XLSX file at path.
func Write(batch *ranking.BatchReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := writeHeader(f); err != nil {
		return err
	}

	for i, jobReport := range batch.Jobs {
		if err := writeJobRow(f, i+2, jobReport); err != nil {
			return err
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("resolve column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report %q: %w", path, err)
	}

	return nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Border: []excelize.Border{
			{Type: "left", Style: 1, Color: "000000"},
			{Type: "right", Style: 1, Color: "000000"},
			{Type: "top", Style: 1, Color: "000000"},
			{Type: "bottom", Style: 1, Color: "000000"},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, title := range headerCells {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return fmt.Errorf("style header cell: %w", err)
		}
	}

	return nil
}

func writeJobRow(f *excelize.File, row int, jobReport *ranking.JobReport) error {
	values := rowValues(jobReport)

	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}

	return nil
}

func rowValues(jobReport *ranking.JobReport) []any {
	company := jobReport.Job.CompanyName
	role := jobReport.Job.RoleName

	best := jobReport.BestMatch
	if best == nil {
		return []any{
			company, role, jobReport.Job.ApplyLink,
			"No valid evaluations", 0.0, "FAILED", "", scoreRoster(jobReport),
		}
	}

	return []any{
		company,
		role,
		jobReport.Job.ApplyLink,
		best.CandidateName,
		best.Record.ATSScore,
		resultLabel(best.Record),
		best.Record.NewResumeName,
		scoreRoster(jobReport),
	}
}

func resultLabel(record *evaluation.Record) string {
	if record.Matched() {
		return "MATCHED"
	}
	return "UNMATCHED"
}

// scoreRoster lists every candidate's score for the job, winner first.
func scoreRoster(jobReport *ranking.JobReport) string {
	var lines []string

	if best := jobReport.BestMatch; best != nil {
		lines = append(lines, fmt.Sprintf("%s: %.1f (SELECTED)", best.CandidateName, best.Record.ATSScore))
	}
	for _, other := range jobReport.OtherMatches {
		lines = append(lines, fmt.Sprintf("%s: %.1f (NOT SELECTED)", other.CandidateName, other.Record.ATSScore))
	}
	for _, failed := range jobReport.Failed {
		lines = append(lines, fmt.Sprintf("%s: evaluation failed", failed.CandidateName))
	}

	return strings.Join(lines, "\n")
}
