// Package jobs ingests tabular job postings. The first row is treated as a
// header and columns are classified by keyword heuristics, so real-world
// spreadsheets with arbitrary layouts still map onto postings.
package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xuri/excelize/v2"
)

// Posting is one job row extracted from a sheet.
type Posting struct {
	CompanyName string `mapstructure:"company_name" json:"company_name"`
	RoleName    string `mapstructure:"role_name" json:"role_name"`
	Description string `mapstructure:"description" json:"description"`
	ApplyLink   string `mapstructure:"apply_link" json:"apply_link,omitempty"`
}

var (
	// ErrNoHeaderRow means the sheet is empty.
	ErrNoHeaderRow = errors.New("sheet has no header row")
	// ErrNoColumns means the header row is present but carries no usable cells.
	ErrNoColumns = errors.New("header row has no usable columns")
	// ErrNoDataRows means the sheet holds only the header.
	ErrNoDataRows = errors.New("sheet contains no data rows below the header")
	// ErrNoPostings means rows were present but none had a description.
	ErrNoPostings = errors.New("no job postings with a description found")
)

// Keyword sets for header classification. A header matches when it contains
// any keyword; the exact entries cover snake_case export headers.
var (
	companyKeywords = keywordSet{contains: []string{"company", "organization", "employer", "firm"}, exact: "company_name"}
	roleKeywords    = keywordSet{contains: []string{"role", "title", "position", "job", "designation"}}
	linkKeywords    = keywordSet{contains: []string{"apply", "link", "url", "application", "careers"}, exact: "apply_link"}
	descKeywords    = keywordSet{contains: []string{"description", "requirements", "responsibilities", "duties", "summary", "details"}, exact: "full_description"}
)

type keywordSet struct {
	contains []string
	exact    string
}

func (k keywordSet) matches(header string) bool {
	for _, kw := range k.contains {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return k.exact != "" && header == k.exact
}

// columnLayout holds the detected column index per concern; -1 means absent.
type columnLayout struct {
	company     int
	role        int
	description int
	link        int
}

// ReadWorkbook loads the first sheet of an XLSX workbook and ingests it.
// Typed cells (numbers, booleans, formulas) arrive as their string form.
func ReadWorkbook(path string) ([]Posting, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeaderRow
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return Ingest(rows)
}

// Ingest classifies the header row, resolves fallback columns and extracts
// one posting per data row. Rows without a description are skipped.
func Ingest(rows [][]string) ([]Posting, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeaderRow
	}

	header := rows[0]
	if isBlankRow(header) {
		return nil, ErrNoColumns
	}

	if len(rows) <= 1 {
		return nil, ErrNoDataRows
	}

	layout := detectColumns(header, rows)

	var postings []Posting
	for _, row := range rows[1:] {
		description := strings.TrimSpace(cellAt(row, layout.description))
		if description == "" {
			continue
		}

		raw := map[string]any{
			"company_name": strings.TrimSpace(cellAt(row, layout.company)),
			"role_name":    strings.TrimSpace(cellAt(row, layout.role)),
			"description":  description,
		}
		if layout.link != -1 {
			raw["apply_link"] = strings.TrimSpace(cellAt(row, layout.link))
		}

		var posting Posting
		if err := mapstructure.Decode(raw, &posting); err != nil {
			return nil, fmt.Errorf("decode posting row: %w", err)
		}

		postings = append(postings, posting)
	}

	if len(postings) == 0 {
		return nil, fmt.Errorf("%w: %d rows scanned, detected columns company=%d role=%d description=%d",
			ErrNoPostings, len(rows)-1, layout.company+1, layout.role+1, layout.description+1)
	}

	return postings, nil
}

// detectColumns assigns one concern per header cell, first match wins in
// priority order company, role, link, description. Missing concerns fall
// back to positional guesses with collision resolution.
func detectColumns(header []string, rows [][]string) columnLayout {
	layout := columnLayout{company: -1, role: -1, description: -1, link: -1}

	for i, cell := range header {
		text := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case layout.company == -1 && companyKeywords.matches(text):
			layout.company = i
		case layout.role == -1 && roleKeywords.matches(text):
			layout.role = i
		case layout.link == -1 && linkKeywords.matches(text):
			layout.link = i
		case layout.description == -1 && descKeywords.matches(text):
			layout.description = i
		}
	}

	if layout.description == -1 {
		layout.description = longestTextColumn(rows, len(header))
	}

	if layout.company == -1 {
		layout.company = 0
	}

	if layout.role == -1 {
		if layout.company == 0 {
			layout.role = 1
		} else {
			layout.role = 0
		}
		if layout.role == layout.description {
			layout.role = (layout.role + 1) % len(header)
		}
	}

	if layout.company == layout.role || layout.company == layout.description || layout.role == layout.description {
		next := 0
		for next == layout.company || next == layout.role || next == layout.description {
			next++
		}
		switch {
		case layout.company == layout.role:
			layout.role = next
		case layout.company == layout.description:
			layout.description = next
		case layout.role == layout.description:
			layout.description = next
		}
	}

	return layout
}

// longestTextColumn samples the first few data rows and picks the column
// with the single longest cell, the best guess for a description column.
func longestTextColumn(rows [][]string, numCols int) int {
	maxLength := 0
	longest := 0

	for rowIndex := 1; rowIndex < len(rows) && rowIndex < 5; rowIndex++ {
		for colIndex := 0; colIndex < numCols; colIndex++ {
			if cell := cellAt(rows[rowIndex], colIndex); len(cell) > maxLength {
				maxLength = len(cell)
				longest = colIndex
			}
		}
	}

	return longest
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
