package evaluation

import (
	"regexp"
	"strconv"
	"strings"
)

// The extraction cascades below are ordered most-specific-first; the first
// pattern that yields usable content wins. Model output is messy enough that
// every field needs a default, so Parse never fails.

var (
	reHeadingCareer      = regexp.MustCompile(`(?im)^\s*career summary\s*[:：]`)
	reHeadingScore       = regexp.MustCompile(`(?im)^\s*ats score\s*[:：]`)
	reHeadingSW          = regexp.MustCompile(`(?im)^\s*strengths and weaknesses\s*[:：]`)
	reHeadingSuggestions = regexp.MustCompile(`(?im)^\s*suggestions to improve\s*[:：]`)
	reExtraBlankLines    = regexp.MustCompile(`\n{2,}`)

	reCareerSection = regexp.MustCompile(`(?is)1\.\s*Career Summary\s*:?\s*(.*?)(?:\s*2\.|\z)`)

	reScore         = regexp.MustCompile(`(?i)Score:\s*(\d+(?:\.\d+)?)`)
	reScoreNumbered = regexp.MustCompile(`(?i)2\.\s*ATS Score\s*:?\s*(\d+(?:\.\d+)?)`)
	reScoreBare     = regexp.MustCompile(`(?i)ATS Score\s*:?\s*(\d+(?:\.\d+)?)`)
	reScoreOutOf    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*out of\s*10`)

	reSWSectionGeneral = regexp.MustCompile(`(?is)3\.\s*Strengths and Weaknesses\s*:?\s*(.*?)(?:\s*4\.|\z)`)
	reSWSectionJob     = regexp.MustCompile(`(?is)4\.\s*Strengths and Weaknesses\s*:?\s*(.*?)(?:\s*5\.|\z)`)

	reStrengthsBracket  = regexp.MustCompile(`(?is)Strengths:\s*\[(.*?)\]`)
	reWeaknessesBracket = regexp.MustCompile(`(?is)Weaknesses:\s*\[(.*?)\]`)
	reStrengthsColon    = regexp.MustCompile(`(?is)Strengths:\s*(.*?)(?:\s*Weaknesses:|\z)`)
	reWeaknessesColon   = regexp.MustCompile(`(?is)Weaknesses:\s*(.*?)(?:\s*Suggestions:|\z)`)
	reStrengthsLoose    = regexp.MustCompile(`(?is)Strengths\s*[:\-—]?\s*(.*?)(?:\s*Weaknesses|\z)`)
	reWeaknessesLoose   = regexp.MustCompile(`(?is)Weaknesses\s*[:\-—]?\s*(.*?)(?:\s*Suggestions|\z)`)

	reStrengthsHead  = regexp.MustCompile(`(?i)Strengths\s*[:\-—]?`)
	reWeaknessesHead = regexp.MustCompile(`(?i)Weaknesses\s*[:\-—]?`)

	reSuggestionsGeneral = regexp.MustCompile(`(?is)4\.\s*Suggestions to improve\s*:?\s*(.*?)(?:\s*A\.|\z)`)
	reSuggestionsJob     = regexp.MustCompile(`(?is)5\.\s*Suggestions to improve\s*:?\s*(.*?)(?:\s*A\.|\z)`)

	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Company:\s*\[(.*?)\]`),
		regexp.MustCompile(`(?is)Company\s*:\s*(.*?)(?:\s*Role:|\s*Match Status:|\z)`),
		regexp.MustCompile(`(?is)Company\s*[:\-—]?\s*(.*?)(?:\s*Role|\s*Match Status|\z)`),
	}
	rolePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Role:\s*\[(.*?)\]`),
		regexp.MustCompile(`(?is)Role\s*:\s*(.*?)(?:\s*Match Status:|\z)`),
		regexp.MustCompile(`(?is)Role\s*[:\-—]?\s*(.*?)(?:\s*Match Status|\z)`),
	}

	reMatchStatus = regexp.MustCompile(`(?i)Match Status:\s*\[(.*?)\]`)

	reBulletPrefix     = regexp.MustCompile(`^[\-•*\s]+`)
	reListItemPrefix   = regexp.MustCompile(`^[•\-*\d.\s]+`)
	reSentenceBoundary = regexp.MustCompile(`[.!?]`)

	reSkillsScan = regexp.MustCompile(`(?is)Matched Skills:\s*(.*?)(?:\s*Gaps:|\z)`)
	reGapsScan   = regexp.MustCompile(`(?is)Gaps:\s*(.*?)(?:\s*[A-Z]\.|\z)`)

	reAnySkillMention = regexp.MustCompile(`(?is)(skills?|experience|knowledge)`)
)

type sectionDef struct {
	heading string // regex fragment for the lettered heading
	name    string // loose fallback fragment
}

var sectionDefs = []sectionDef{
	{heading: `A\.\s*Work Experience`, name: "Work Experience"},
	{heading: `B\.\s*Certificates`, name: "Certificates"},
	{heading: `C\.\s*Projects`, name: "Projects"},
	{heading: `D\.\s*Technical Skills`, name: "Technical Skills"},
}

// Normalize rewrites un-numbered canonical headings into their numbered form
// and collapses runs of blank lines, so the cascades below see a predictable
// shape regardless of how the model formatted its answer.
func Normalize(content string) string {
	content = strings.TrimSpace(content)
	content = reHeadingCareer.ReplaceAllString(content, "1. Career Summary:")
	content = reHeadingScore.ReplaceAllString(content, "2. ATS Score:")
	content = reHeadingSW.ReplaceAllString(content, "3. Strengths and Weaknesses:")
	content = reHeadingSuggestions.ReplaceAllString(content, "4. Suggestions to Improve:")
	content = reExtraBlankLines.ReplaceAllString(content, "\n\n")

	return content
}

// Parse extracts a Record from raw model output. It is total: every field is
// populated no matter how malformed the input is, and an internal panic
// degrades to placeholder values rather than an error.
func Parse(raw string, mode Mode) (rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = degradedRecord(mode)
		}
	}()

	response := Normalize(raw)

	rec = &Record{}

	if mode == ModeJobMatch {
		parseJobMatch(response, rec)
	} else {
		parseGeneral(response, rec)
	}

	return rec
}

func parseGeneral(response string, rec *Record) {
	if m := reCareerSection.FindStringSubmatch(response); m != nil {
		career := strings.TrimSpace(m[1])
		if career != "" && !strings.EqualFold(career, "N/A") {
			rec.CareerSummary = career
		} else {
			rec.CareerSummary = "Career summary not provided"
		}
	} else {
		rec.CareerSummary = "Career summary not found"
	}

	rec.ATSScore = parseScore(response, []*regexp.Regexp{reScore, reScoreNumbered}, 5.0)

	var strengths, weaknesses []string
	if m := reSWSectionGeneral.FindStringSubmatch(response); m != nil {
		sw := strings.TrimSpace(m[1])

		// Bracket form keeps the whole content as one entry.
		if bm := reStrengthsBracket.FindStringSubmatch(sw); bm != nil {
			if content := strings.TrimSpace(bm[1]); content != "" && !strings.EqualFold(content, "None") {
				strengths = append(strengths, content)
			}
		}
		if bm := reWeaknessesBracket.FindStringSubmatch(sw); bm != nil {
			if content := strings.TrimSpace(bm[1]); content != "" && !strings.EqualFold(content, "None") {
				weaknesses = append(weaknesses, content)
			}
		}

		if len(strengths) == 0 && len(weaknesses) == 0 {
			strengthsText, weaknessesText := splitJointStrengthsWeaknesses(sw)
			if strengthsText != "" {
				strengths = append(strengths, splitListItems(strengthsText)...)
			}
			if weaknessesText != "" {
				weaknesses = append(weaknesses, splitListItems(weaknessesText)...)
			}
		}
	}

	if len(strengths) == 0 {
		strengths = []string{"No specific strengths identified"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"No specific weaknesses identified"}
	}
	rec.Strengths = strengths
	rec.Weaknesses = weaknesses

	rec.Suggestions = parseSuggestions(response, reSuggestionsGeneral)

	rec.WorkExperience = SkillSection{MatchedSkills: extractSectionContent(response, sectionDefs[0])}
	rec.Certificates = SkillSection{MatchedSkills: extractSectionContent(response, sectionDefs[1])}
	rec.Projects = SkillSection{MatchedSkills: extractSectionContent(response, sectionDefs[2])}
	rec.TechnicalSkills = SkillSection{MatchedSkills: extractSectionContent(response, sectionDefs[3])}
}

func parseJobMatch(response string, rec *Record) {
	if m := reCareerSection.FindStringSubmatch(response); m != nil {
		rec.CareerSummary = strings.TrimSpace(m[1])
	} else {
		rec.CareerSummary = "N/A"
	}

	rec.ATSScore = parseScore(response, []*regexp.Regexp{reScore, reScoreNumbered, reScoreBare, reScoreOutOf}, 0.0)

	rec.CompanyName = firstValidMatch(response, companyPatterns, "Unknown Company")
	rec.RoleName = firstValidMatch(response, rolePatterns, "Unknown Role")

	rec.MatchStatus = "UNMATCHED"
	if m := reMatchStatus.FindStringSubmatch(response); m != nil {
		rec.MatchStatus = strings.TrimSpace(m[1])
	}

	var strengths, weaknesses []string
	if m := reSWSectionJob.FindStringSubmatch(response); m != nil {
		sw := strings.TrimSpace(m[1])
		strengths = extractByCascade(sw, []*regexp.Regexp{reStrengthsBracket, reStrengthsColon, reStrengthsLoose})
		weaknesses = extractByCascade(sw, []*regexp.Regexp{reWeaknessesBracket, reWeaknessesColon, reWeaknessesLoose})
	}

	if len(strengths) == 0 {
		strengths = []string{"N/A"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"N/A"}
	}
	rec.Strengths = strengths
	rec.Weaknesses = weaknesses

	rec.Suggestions = parseSuggestions(response, reSuggestionsJob)

	rec.WorkExperience = extractSectionData(response, sectionDefs[0])
	rec.Certificates = extractSectionData(response, sectionDefs[1])
	rec.Projects = extractSectionData(response, sectionDefs[2])
	rec.TechnicalSkills = extractSectionData(response, sectionDefs[3])
}

func parseScore(response string, patterns []*regexp.Regexp, fallback float64) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(response); m != nil {
			if score, err := strconv.ParseFloat(m[1], 64); err == nil {
				return score
			}
		}
	}
	return fallback
}

func parseSuggestions(response string, re *regexp.Regexp) []string {
	if m := re.FindStringSubmatch(response); m != nil {
		if suggestions := splitListItems(m[1]); len(suggestions) > 0 {
			return suggestions
		}
	}
	return []string{"Consider adding more details to your resume"}
}

func firstValidMatch(response string, patterns []*regexp.Regexp, fallback string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(response)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value != "" && !strings.EqualFold(value, "None") {
			return value
		}
	}
	return fallback
}

func extractByCascade(text string, patterns []*regexp.Regexp) []string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if content != "" && !strings.EqualFold(content, "None") {
			return splitListItems(content)
		}
	}
	return nil
}

// splitJointStrengthsWeaknesses handles the free-form "Strengths ...
// Weaknesses ..." shape without brackets or clean colons.
func splitJointStrengthsWeaknesses(sw string) (string, string) {
	loc := reStrengthsHead.FindStringIndex(sw)
	if loc == nil {
		return "", ""
	}

	rest := sw[loc[1]:]
	if wloc := reWeaknessesHead.FindStringIndex(rest); wloc != nil {
		return strings.TrimSpace(rest[:wloc[0]]), strings.TrimSpace(rest[wloc[1]:])
	}

	return strings.TrimSpace(rest), ""
}

// extractSectionContent pulls the matched-skills list of one lettered section
// in general mode: well-formed section first, then a loose single-line scan.
func extractSectionContent(response string, def sectionDef) []string {
	re := regexp.MustCompile(`(?is)` + def.heading + `\s*\nMatched Skills:\s*(.*?)(?:\n[A-D]\. |\n\z)`)
	if m := re.FindStringSubmatch(response); m != nil {
		content := strings.TrimSpace(m[1])
		if content != "" && !strings.EqualFold(content, "None") {
			if items := splitSectionItems(content); len(items) > 0 {
				return items
			}
			return []string{content}
		}
	}

	fallback := regexp.MustCompile(`(?is)` + def.name + `.*?Matched Skills:\s*([^\n]+)`)
	if m := fallback.FindStringSubmatch(response); m != nil {
		content := strings.TrimSpace(m[1])
		if content != "" && !strings.EqualFold(content, "None") {
			if strings.Contains(content, ",") {
				if items := splitComma(content); len(items) > 0 {
					return items
				}
			} else {
				return []string{content}
			}
		}
	}

	return []string{"None"}
}

// extractSectionData pulls matched skills and gaps of one lettered section in
// job-match mode through a four-step cascade, then a keyword scan as the very
// last resort.
func extractSectionData(response string, def sectionDef) SkillSection {
	var matched, gaps []string

	patterns := []*regexp.Regexp{
		regexp.MustCompile(`(?is)` + def.heading + `\s*\nMatched Skills:\s*\[(.*?)\]\s*\nGaps:\s*\[(.*?)\]`),
		regexp.MustCompile(`(?is)` + def.heading + `\s*\nMatched Skills:\s*(.*?)\s*\nGaps:\s*(.*?)(?:\s*[A-Z]\.|\z)`),
		regexp.MustCompile(`(?is)` + def.heading + `.*?Matched Skills:\s*(.*?)\s*Gaps:\s*(.*?)(?:\s*[A-Z]\.|\z)`),
		regexp.MustCompile(`(?is)` + def.heading + `.*?(?:\s*[A-Z]\.|\z)`),
	}

	found := false
	for i, re := range patterns {
		m := re.FindStringSubmatch(response)
		if m == nil {
			continue
		}

		if i < 3 {
			if content := strings.TrimSpace(m[1]); content != "" && !strings.EqualFold(content, "None") {
				matched = append(matched, splitListItems(content)...)
			}
			if content := strings.TrimSpace(m[2]); content != "" && !strings.EqualFold(content, "None") {
				gaps = append(gaps, splitListItems(content)...)
			}
		} else {
			section := m[0]
			if sm := reSkillsScan.FindStringSubmatch(section); sm != nil {
				if content := strings.TrimSpace(sm[1]); content != "" && !strings.EqualFold(content, "None") {
					matched = append(matched, splitListItems(content)...)
				}
			}
			if gm := reGapsScan.FindStringSubmatch(section); gm != nil {
				if content := strings.TrimSpace(gm[1]); content != "" && !strings.EqualFold(content, "None") {
					gaps = append(gaps, splitListItems(content)...)
				}
			}
		}

		found = true
		break
	}

	if !found {
		loose := regexp.MustCompile(`(?is)` + def.name + `.*?(?:\s*[A-Z]\.|\z)`)
		if m := loose.FindString(response); m != "" && reAnySkillMention.MatchString(m) {
			matched = append(matched, "Some relevant experience found")
		}
	}

	if len(matched) == 0 {
		matched = []string{"None"}
	}
	if len(gaps) == 0 {
		gaps = []string{"None"}
	}

	return SkillSection{MatchedSkills: matched, Gaps: gaps}
}

// splitListItems turns free text into list entries: one per line with bullet
// and numbering prefixes stripped; sentences over ten characters when the
// text has no line structure.
func splitListItems(text string) []string {
	var items []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(reListItemPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			items = append(items, line)
		}
	}

	if len(items) == 0 {
		for _, sentence := range reSentenceBoundary.Split(text, -1) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) > 10 {
				items = append(items, sentence)
			}
		}
	}

	return items
}

// splitSectionItems is the general-mode variant: bullets stripped, lines with
// commas exploded into individual entries.
func splitSectionItems(content string) []string {
	var items []string

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(reBulletPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if strings.Contains(line, ",") {
			items = append(items, splitComma(line)...)
		} else {
			items = append(items, line)
		}
	}

	return items
}

func splitComma(line string) []string {
	var items []string
	for _, item := range strings.Split(line, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func degradedRecord(mode Mode) *Record {
	rec := &Record{
		CareerSummary: "Error parsing response",
		ATSScore:      5.0,
		Strengths:     []string{"Error parsing strengths"},
		Weaknesses:    []string{"Error parsing weaknesses"},
		Suggestions:   []string{"Error parsing suggestions"},
	}

	section := SkillSection{MatchedSkills: []string{"None"}}
	if mode == ModeJobMatch {
		section.Gaps = []string{"None"}
		rec.CompanyName = "Unknown Company"
		rec.RoleName = "Unknown Role"
		rec.MatchStatus = "UNMATCHED"
	}

	rec.WorkExperience = section
	rec.Certificates = section
	rec.Projects = section
	rec.TechnicalSkills = section

	return rec
}
