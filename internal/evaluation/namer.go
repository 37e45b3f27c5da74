package evaluation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	reNonLetters    = regexp.MustCompile(`[^a-zA-Z]`)
	reNonNameChars  = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	reNonFileChars  = regexp.MustCompile(`[^a-zA-Z0-9\s\-]`)
	reAnyWhitespace = regexp.MustCompile(`\s+`)

	// Lines with these markers are extraction noise, not candidate names.
	skipMarkers = []string{
		"error", "enable", "you need to", "please", "click",
		"javascript", "resume", "curriculum", "vitae", "cv",
	}
)

// nowMillis is replaceable in tests to pin the generated suffix.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// DeriveDisplayName guesses the candidate's name from the top of the resume
// text. It scans the first ten lines for something shaped like a person's
// name, falls back to the first short cleaned line, and finally to "Resume".
func DeriveDisplayName(resumeText string) string {
	if strings.TrimSpace(resumeText) == "" {
		return "Resume"
	}

	lines := strings.Split(strings.ReplaceAll(resumeText, "\r\n", "\n"), "\n")

	for i := 0; i < len(lines) && i < 10; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isNoiseLine(line) {
			continue
		}

		if name, ok := nameFromLine(line); ok {
			return name
		}
	}

	for i := 0; i < len(lines) && i < 5; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || len(line) >= 50 {
			continue
		}
		clean := strings.TrimSpace(reNonNameChars.ReplaceAllString(line, ""))
		if len(clean) > 2 && len(clean) < 50 {
			return clean
		}
	}

	return "Resume"
}

func isNoiseLine(line string) bool {
	if len(line) > 100 {
		return true
	}
	lower := strings.ToLower(line)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// nameFromLine accepts two to four words of 2-20 letters each, where letters
// make up at least 80% of every word.
func nameFromLine(line string) (string, bool) {
	words := strings.Fields(line)
	if len(words) < 2 || len(words) > 4 {
		return "", false
	}

	parts := make([]string, 0, len(words))
	for _, word := range words {
		clean := reNonLetters.ReplaceAllString(word, "")
		if len(clean) < 2 || len(clean) > 20 {
			return "", false
		}
		if !mostlyLetters(word) {
			return "", false
		}
		parts = append(parts, clean)
	}

	return strings.Join(parts, " "), true
}

func mostlyLetters(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters) >= float64(len([]rune(word)))*0.8
}

// NewResumeName builds the renamed file stem for a winning resume:
// Username_Company_Role_<id>, spaces collapsed to underscores, with the last
// six digits of the current unix-milli timestamp as the id.
func NewResumeName(companyName, roleName, resumeText string) string {
	username := DeriveDisplayName(resumeText)
	lower := strings.ToLower(username)
	if username == "" || username == "Resume" ||
		strings.Contains(lower, "error") ||
		strings.Contains(lower, "enable") ||
		strings.Contains(lower, "you_need_to") {
		username = "Candidate"
	}

	cleanCompany := strings.TrimSpace(reNonFileChars.ReplaceAllString(companyName, ""))
	if cleanCompany == "" {
		cleanCompany = "UnknownCompany"
	}

	cleanRole := strings.TrimSpace(reNonFileChars.ReplaceAllString(roleName, ""))
	if cleanRole == "" {
		cleanRole = "UnknownRole"
	}

	ts := fmt.Sprintf("%d", nowMillis())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}

	return fmt.Sprintf("%s_%s_%s_%s",
		reAnyWhitespace.ReplaceAllString(username, "_"),
		reAnyWhitespace.ReplaceAllString(cleanCompany, "_"),
		reAnyWhitespace.ReplaceAllString(cleanRole, "_"),
		ts,
	)
}
