package evaluation

// Mode selects which prompt and parse profile a run uses.
type Mode int

const (
	// ModeGeneral reviews a resume on its own.
	ModeGeneral Mode = iota + 1
	// ModeJobMatch reviews a resume against a job description.
	ModeJobMatch
)

func (m Mode) String() string {
	if m == ModeJobMatch {
		return "job-match"
	}
	return "general"
}

// MatchThreshold is the score at or above which the reporting API treats a
// record as matched. The ranking engine's per-job winner selection does not
// use it.
const MatchThreshold = 6.0

// SkillSection holds the extracted skill lists for one resume category.
// Gaps is only populated in job-match mode.
type SkillSection struct {
	MatchedSkills []string `json:"matched_skills"`
	Gaps          []string `json:"gaps,omitempty"`
}

// Record is the always-total result of parsing one model evaluation. Every
// field carries a default; no input leaves a field unset.
type Record struct {
	CareerSummary string   `json:"career_summary"`
	ATSScore      float64  `json:"ats_score"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Suggestions   []string `json:"suggestions"`

	WorkExperience  SkillSection `json:"work_experience"`
	Certificates    SkillSection `json:"certificates"`
	Projects        SkillSection `json:"projects"`
	TechnicalSkills SkillSection `json:"technical_skills"`

	// Job-match mode only.
	CompanyName   string `json:"company_name,omitempty"`
	RoleName      string `json:"role_name,omitempty"`
	MatchStatus   string `json:"match_status,omitempty"`
	NewResumeName string `json:"new_resume_name,omitempty"`
}

// Matched reports whether the record clears the reporting threshold.
func (r *Record) Matched() bool {
	return r.ATSScore >= MatchThreshold
}

// Clone returns a deep copy so cached records can be handed out without
// sharing slices with other callers.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	out := *r
	out.Strengths = cloneStrings(r.Strengths)
	out.Weaknesses = cloneStrings(r.Weaknesses)
	out.Suggestions = cloneStrings(r.Suggestions)
	out.WorkExperience = r.WorkExperience.clone()
	out.Certificates = r.Certificates.clone()
	out.Projects = r.Projects.clone()
	out.TechnicalSkills = r.TechnicalSkills.clone()

	return &out
}

func (s SkillSection) clone() SkillSection {
	return SkillSection{
		MatchedSkills: cloneStrings(s.MatchedSkills),
		Gaps:          cloneStrings(s.Gaps),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
