package matches

import (
	"testing"

	"github.com/spigell/ats-screener/internal/evaluation"
)

func newMatch(candidate, jobKey string, score float64) *Match {
	return &Match{
		CandidateName: candidate,
		JobKey:        jobKey,
		Record: &evaluation.Record{
			ATSScore:    score,
			CompanyName: "Acme Corp",
			RoleName:    "Backend Engineer",
		},
	}
}

func seededManager() *Manager {
	m := NewManager()
	m.Record(newMatch("alice.pdf", "job1", 8.5))
	m.Record(newMatch("bob.pdf", "job1", 4.0))
	m.Record(newMatch("carol.pdf", "job2", 6.0))
	return m
}

func TestForJobSortsByScore(t *testing.T) {
	m := seededManager()

	job1 := m.ForJob("job1")
	if len(job1) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(job1))
	}
	if job1[0].CandidateName != "alice.pdf" || job1[1].CandidateName != "bob.pdf" {
		t.Fatalf("unexpected order: %q, %q", job1[0].CandidateName, job1[1].CandidateName)
	}

	best := m.BestForJob("job1")
	if best == nil || best.CandidateName != "alice.pdf" {
		t.Fatalf("unexpected best match: %+v", best)
	}

	if m.BestForJob("unknown") != nil {
		t.Fatal("expected nil for unknown job")
	}
}

func TestMatchedUsesThreshold(t *testing.T) {
	m := seededManager()

	matched := m.Matched()
	if len(matched) != 2 {
		t.Fatalf("expected 2 matched (scores 8.5 and 6.0), got %d", len(matched))
	}
	if matched[0].Record.ATSScore != 8.5 {
		t.Fatalf("expected highest score first, got %v", matched[0].Record.ATSScore)
	}

	unmatched := m.Unmatched()
	if len(unmatched) != 1 || unmatched[0].CandidateName != "bob.pdf" {
		t.Fatalf("unexpected unmatched set: %+v", unmatched)
	}
}

func TestByScoreRangeIsInclusive(t *testing.T) {
	m := seededManager()

	got := m.ByScoreRange(4.0, 6.0)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches in [4, 6], got %d", len(got))
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	m := seededManager()

	if got := m.Search("ALICE"); len(got) != 1 || got[0].CandidateName != "alice.pdf" {
		t.Fatalf("unexpected search result: %+v", got)
	}
	// Company name matches every seeded record.
	if got := m.Search("acme"); len(got) != 3 {
		t.Fatalf("expected 3 company matches, got %d", len(got))
	}
	if got := m.Search("  "); got != nil {
		t.Fatalf("blank query should match nothing, got %+v", got)
	}
}

func TestStatistics(t *testing.T) {
	m := seededManager()

	stats := m.Statistics()
	if stats.Total != 3 || stats.Matched != 2 || stats.Unmatched != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	want := (8.5 + 4.0 + 6.0) / 3
	if stats.AverageScore != want {
		t.Fatalf("average = %v, want %v", stats.AverageScore, want)
	}
}

func TestClearReturnsStoredFileIDs(t *testing.T) {
	m := NewManager()
	match := newMatch("alice.pdf", "job1", 8.5)
	match.StoredFileID = "abc123.pdf"
	m.Record(match)
	m.Record(newMatch("bob.pdf", "job1", 4.0))

	ids := m.Clear()
	if len(ids) != 1 || ids[0] != "abc123.pdf" {
		t.Fatalf("unexpected file ids: %v", ids)
	}
	if got := m.Statistics(); got.Total != 0 {
		t.Fatalf("manager not cleared: %+v", got)
	}
}
