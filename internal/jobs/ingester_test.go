package jobs

import (
	"errors"
	"strings"
	"testing"
)

func TestIngestClassifiesHeadersByKeyword(t *testing.T) {
	rows := [][]string{
		{"Employer", "Title", "JD", "Link"},
		{"Acme Corp", "Go Engineer", "Build and run distributed services in Go.", "https://acme.example/jobs/1"},
	}

	postings, err := Ingest(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}

	p := postings[0]
	if p.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected company: %q", p.CompanyName)
	}
	if p.RoleName != "Go Engineer" {
		t.Fatalf("unexpected role: %q", p.RoleName)
	}
	// "JD" matches no description keyword, so the longest sampled column
	// becomes the description.
	if !strings.Contains(p.Description, "distributed services") {
		t.Fatalf("unexpected description: %q", p.Description)
	}
	if p.ApplyLink != "https://acme.example/jobs/1" {
		t.Fatalf("unexpected link: %q", p.ApplyLink)
	}
}

func TestIngestSnakeCaseExportHeaders(t *testing.T) {
	rows := [][]string{
		{"company_name", "role_name", "full_description", "apply_link"},
		{"Initech", "Backend Developer", "Maintain the TPS reporting backend systems.", "https://initech.example/apply"},
	}

	postings, err := Ingest(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := postings[0]
	if p.CompanyName != "Initech" || p.RoleName != "Backend Developer" {
		t.Fatalf("unexpected posting: %+v", p)
	}
	if p.ApplyLink != "https://initech.example/apply" {
		t.Fatalf("unexpected link: %q", p.ApplyLink)
	}
}

func TestIngestPositionalFallbacks(t *testing.T) {
	// No header matches any keyword set: description falls back to the
	// longest sampled column, company to column 0, role to column 1.
	rows := [][]string{
		{"A", "B", "C"},
		{"Globex", "Analyst", "Analyze quarterly reports and prepare summaries for leadership review."},
	}

	postings, err := Ingest(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := postings[0]
	if p.CompanyName != "Globex" {
		t.Fatalf("unexpected company: %q", p.CompanyName)
	}
	if p.RoleName != "Analyst" {
		t.Fatalf("unexpected role: %q", p.RoleName)
	}
	if !strings.Contains(p.Description, "quarterly reports") {
		t.Fatalf("unexpected description: %q", p.Description)
	}
}

func TestIngestSkipsRowsWithoutDescription(t *testing.T) {
	rows := [][]string{
		{"Company", "Role", "Description"},
		{"Acme", "Engineer", "Ship Go services."},
		{"Hollow Inc", "Ghost", "   "},
		{"Initech", "Developer", "Maintain legacy systems."},
	}

	postings, err := Ingest(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	if postings[1].CompanyName != "Initech" {
		t.Fatalf("unexpected second posting: %+v", postings[1])
	}
}

func TestIngestDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{name: "empty sheet", rows: nil, want: ErrNoHeaderRow},
		{name: "blank header cells", rows: [][]string{{"", ""}}, want: ErrNoColumns},
		{name: "header row without cells", rows: [][]string{{}}, want: ErrNoColumns},
		{
			name: "header only",
			rows: [][]string{{"Company", "Role", "Description"}},
			want: ErrNoDataRows,
		},
		{
			name: "rows without descriptions",
			rows: [][]string{
				{"Company", "Role", "Description"},
				{"Acme", "Engineer", ""},
			},
			want: ErrNoPostings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Ingest(tt.rows)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIngestShortRowsAreSafe(t *testing.T) {
	rows := [][]string{
		{"Company", "Role", "Description", "Link"},
		{"Acme", "Engineer", "Ship Go services."},
	}

	postings, err := Ingest(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if postings[0].ApplyLink != "" {
		t.Fatalf("expected empty link for short row, got %q", postings[0].ApplyLink)
	}
}

func TestDetectColumnsFirstMatchWins(t *testing.T) {
	header := []string{"Company", "Parent Company", "Job Title", "Job Description"}
	rows := [][]string{header, {"a", "b", "c", "d"}}

	layout := detectColumns(header, rows)

	if layout.company != 0 {
		t.Fatalf("expected company at 0, got %d", layout.company)
	}
	// "Parent Company" is skipped for company (already found) and does not
	// match role keywords, so role lands on "Job Title".
	if layout.role != 2 {
		t.Fatalf("expected role at 2, got %d", layout.role)
	}
	if layout.description != 3 {
		t.Fatalf("expected description at 3, got %d", layout.description)
	}
}
