// Package matches keeps evaluation outcomes queryable after a batch run.
package matches

import (
	"sort"
	"strings"
	"sync"

	"github.com/spigell/ats-screener/internal/evaluation"
)

// Match is one recorded candidate-to-job evaluation.
type Match struct {
	CandidateName string             `json:"candidate_name"`
	JobKey        string             `json:"job_key"`
	Record        *evaluation.Record `json:"record"`
	StoredFileID  string             `json:"stored_file_id,omitempty"`
}

// Statistics summarizes all recorded matches.
type Statistics struct {
	Total        int     `json:"total"`
	Matched      int     `json:"matched"`
	Unmatched    int     `json:"unmatched"`
	AverageScore float64 `json:"average_score"`
}

// Manager indexes matches by job. Safe for concurrent use.
type Manager struct {
	mu    sync.RWMutex
	byJob map[string][]*Match
}

func NewManager() *Manager {
	return &Manager{byJob: make(map[string][]*Match)}
}

// Record stores one evaluation outcome under its job key.
func (m *Manager) Record(match *Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byJob[match.JobKey] = append(m.byJob[match.JobKey], match)
}

// ForJob returns all matches for a job, highest score first.
func (m *Manager) ForJob(jobKey string) []*Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Match, len(m.byJob[jobKey]))
	copy(out, m.byJob[jobKey])
	sortByScore(out)
	return out
}

// BestForJob returns the highest scoring match for a job, or nil.
func (m *Manager) BestForJob(jobKey string) *Match {
	matches := m.ForJob(jobKey)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Matched returns every match at or above the match threshold.
func (m *Manager) Matched() []*Match {
	return m.filter(func(match *Match) bool { return match.Record.Matched() })
}

// Unmatched returns every match below the match threshold.
func (m *Manager) Unmatched() []*Match {
	return m.filter(func(match *Match) bool { return !match.Record.Matched() })
}

// ByScoreRange returns matches with min <= score <= max.
func (m *Manager) ByScoreRange(min, max float64) []*Match {
	return m.filter(func(match *Match) bool {
		return match.Record.ATSScore >= min && match.Record.ATSScore <= max
	})
}

// Search returns matches whose candidate name, company or role contains the
// query, case insensitive.
func (m *Manager) Search(query string) []*Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	return m.filter(func(match *Match) bool {
		return strings.Contains(strings.ToLower(match.CandidateName), query) ||
			strings.Contains(strings.ToLower(match.Record.CompanyName), query) ||
			strings.Contains(strings.ToLower(match.Record.RoleName), query)
	})
}

// Statistics computes counts and the average score over all matches.
func (m *Manager) Statistics() Statistics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats Statistics
	var sum float64
	for _, matches := range m.byJob {
		for _, match := range matches {
			stats.Total++
			sum += match.Record.ATSScore
			if match.Record.Matched() {
				stats.Matched++
			} else {
				stats.Unmatched++
			}
		}
	}

	if stats.Total > 0 {
		stats.AverageScore = sum / float64(stats.Total)
	}

	return stats
}

// Clear drops all recorded matches and returns the stored file ids that
// belonged to them, so the caller can clean up the file store.
func (m *Manager) Clear() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fileIDs []string
	for _, matches := range m.byJob {
		for _, match := range matches {
			if match.StoredFileID != "" {
				fileIDs = append(fileIDs, match.StoredFileID)
			}
		}
	}

	m.byJob = make(map[string][]*Match)
	return fileIDs
}

func (m *Manager) filter(keep func(*Match) bool) []*Match {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Match
	for _, matches := range m.byJob {
		for _, match := range matches {
			if keep(match) {
				out = append(out, match)
			}
		}
	}

	sortByScore(out)
	return out
}

func sortByScore(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Record.ATSScore > matches[j].Record.ATSScore
	})
}
