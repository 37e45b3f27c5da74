package report

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/ats-screener/internal/evaluation"
	"github.com/spigell/ats-screener/internal/jobs"
	"github.com/spigell/ats-screener/internal/ranking"
)

func sampleBatch() *ranking.BatchReport {
	return &ranking.BatchReport{
		Jobs: []*ranking.JobReport{
			{
				Job: jobs.Posting{
					CompanyName: "Acme",
					RoleName:    "Backend Engineer",
					ApplyLink:   "https://acme.example/jobs/1",
				},
				BestMatch: &ranking.Result{
					CandidateName: "alice.pdf",
					Record: &evaluation.Record{
						ATSScore:      8.5,
						CompanyName:   "Acme",
						RoleName:      "Backend Engineer",
						NewResumeName: "Alice_Acme_Backend_Engineer_123456",
					},
				},
				OtherMatches: []*ranking.Result{
					{
						CandidateName: "bob.pdf",
						Record:        &evaluation.Record{ATSScore: 4.0},
					},
				},
			},
			{
				Job: jobs.Posting{CompanyName: "Globex", RoleName: "SRE"},
				Failed: []*ranking.Result{
					{CandidateName: "alice.pdf", Record: &evaluation.Record{}, Err: "upstream down"},
				},
			},
		},
	}
}

func TestWriteProducesReadableWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := Write(sampleBatch(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 job rows, got %d", len(rows))
	}
	if rows[0][0] != "Company Name" || rows[0][7] != "All Resume Scores" {
		t.Fatalf("unexpected header row: %v", rows[0])
	}

	acme := rows[1]
	if acme[0] != "Acme" || acme[3] != "alice.pdf" {
		t.Fatalf("unexpected winner row: %v", acme)
	}
	if acme[5] != "MATCHED" {
		t.Fatalf("expected MATCHED for score 8.5, got %q", acme[5])
	}
	if !strings.Contains(acme[7], "alice.pdf: 8.5 (SELECTED)") {
		t.Fatalf("winner missing from roster: %q", acme[7])
	}
	if !strings.Contains(acme[7], "bob.pdf: 4.0 (NOT SELECTED)") {
		t.Fatalf("runner-up missing from roster: %q", acme[7])
	}
}

func TestWriteMarksJobsWithoutWinners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := Write(sampleBatch(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}

	globex := rows[2]
	if globex[3] != "No valid evaluations" || globex[5] != "FAILED" {
		t.Fatalf("unexpected failed-job row: %v", globex)
	}
	if !strings.Contains(globex[7], "alice.pdf: evaluation failed") {
		t.Fatalf("failure missing from roster: %q", globex[7])
	}
}
