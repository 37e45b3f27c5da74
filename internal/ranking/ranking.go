// Package ranking runs the candidate-by-job cross evaluation and picks the
// best resume for every posting.
package ranking

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/spigell/ats-screener/internal/evaluation"
	"github.com/spigell/ats-screener/internal/jobs"
)

const defaultConcurrency = 4

// Candidate is one resume entering a batch.
type Candidate struct {
	Name string // source file name, used in reports
	Text string
}

// Result is the outcome of evaluating one (candidate, job) pair. Failed
// pairs carry the error text and a zero-score record so reports stay total.
type Result struct {
	Record         *evaluation.Record
	CandidateName  string
	CandidateIndex int
	JobIndex       int
	Err            string
}

func (r *Result) Failed() bool { return r.Err != "" }

// JobReport ranks all candidates for one posting. BestMatch is nil when
// every pair for the job failed.
type JobReport struct {
	Job       jobs.Posting
	JobIndex  int
	BestMatch *Result
	// Runners-up in descending score order.
	OtherMatches []*Result
	Failed       []*Result
}

// Summary aggregates over the per-job winners.
type Summary struct {
	TotalCandidates int
	TotalJobs       int
	ValidResults    int
	AverageScore    float64
	HighestScore    float64
	LowestScore     float64
	BestOverall     *Result
}

// BatchReport is the full outcome of one cross evaluation.
type BatchReport struct {
	Jobs    []*JobReport
	Summary Summary
}

// Engine fans evaluation pairs out over a bounded worker pool.
type Engine struct {
	evaluator   *evaluation.Evaluator
	logger      *zap.Logger
	concurrency int
}

func NewEngine(evaluator *evaluation.Evaluator, logger *zap.Logger, concurrency int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Engine{
		evaluator:   evaluator,
		logger:      logger,
		concurrency: concurrency,
	}
}

// EvaluateBatch evaluates every candidate against every posting and ranks
// the outcomes per job. Pair failures become zero-score error entries that
// are excluded from ranking but kept in the report. Aggregation starts only
// after all workers have finished, so result order is deterministic.
func (e *Engine) EvaluateBatch(ctx context.Context, candidates []Candidate, postings []jobs.Posting) (*BatchReport, error) {
	if len(candidates) == 0 {
		return nil, errors.New("at least one candidate is required")
	}
	if len(postings) == 0 {
		return nil, errors.New("at least one job posting is required")
	}

	type pair struct{ candidate, job int }

	results := make([]*Result, len(candidates)*len(postings))
	work := make(chan pair)

	var wg sync.WaitGroup
	for w := 0; w < e.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range work {
				results[p.candidate*len(postings)+p.job] = e.evaluatePair(ctx, candidates[p.candidate], p.candidate, postings[p.job], p.job)
			}
		}()
	}

feed:
	for c := range candidates {
		for j := range postings {
			select {
			case work <- pair{candidate: c, job: j}:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(work)
	wg.Wait()

	// Pairs never fed due to cancellation become error entries.
	for c := range candidates {
		for j := range postings {
			if results[c*len(postings)+j] == nil {
				results[c*len(postings)+j] = &Result{
					Record:         &evaluation.Record{},
					CandidateName:  candidates[c].Name,
					CandidateIndex: c,
					JobIndex:       j,
					Err:            context.Cause(ctx).Error(),
				}
			}
		}
	}

	report := &BatchReport{}
	for j, posting := range postings {
		jobReport := e.rankJob(posting, j, candidates, results, len(postings))
		report.Jobs = append(report.Jobs, jobReport)
	}

	report.Summary = summarize(report.Jobs, len(candidates))

	if err := ctx.Err(); err != nil {
		return report, err
	}

	return report, nil
}

// EvaluateAgainstDescription is the single-job batch: all candidates ranked
// against one free-text job description.
func (e *Engine) EvaluateAgainstDescription(ctx context.Context, candidates []Candidate, description string) (*JobReport, error) {
	report, err := e.EvaluateBatch(ctx, candidates, []jobs.Posting{{Description: description}})
	if err != nil {
		return nil, err
	}
	return report.Jobs[0], nil
}

func (e *Engine) evaluatePair(ctx context.Context, candidate Candidate, candidateIdx int, posting jobs.Posting, jobIdx int) *Result {
	result := &Result{
		CandidateName:  candidate.Name,
		CandidateIndex: candidateIdx,
		JobIndex:       jobIdx,
	}

	record, err := e.evaluator.EvaluateAgainstJob(ctx, candidate.Text, posting.Description)
	if err != nil {
		e.logger.Warn("pair evaluation failed",
			zap.String("candidate", candidate.Name),
			zap.Int("job_index", jobIdx),
			zap.Error(err),
		)
		result.Record = &evaluation.Record{}
		result.Err = err.Error()
		return result
	}

	result.Record = record
	return result
}

// rankJob sorts the job's valid results by score, stable so earlier
// candidates win ties, and crowns the top entry.
func (e *Engine) rankJob(posting jobs.Posting, jobIdx int, candidates []Candidate, results []*Result, numJobs int) *JobReport {
	report := &JobReport{Job: posting, JobIndex: jobIdx}

	var valid []*Result
	for c := range candidates {
		result := results[c*numJobs+jobIdx]
		if result.Failed() {
			report.Failed = append(report.Failed, result)
			continue
		}
		valid = append(valid, result)
	}

	if len(valid) == 0 {
		return report
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Record.ATSScore > valid[j].Record.ATSScore
	})

	best := valid[0]

	// The sheet's own company and role beat whatever the model extracted,
	// and only the winner gets a generated resume name.
	if posting.CompanyName != "" {
		best.Record.CompanyName = posting.CompanyName
	}
	if posting.RoleName != "" {
		best.Record.RoleName = posting.RoleName
	}
	best.Record.NewResumeName = evaluation.NewResumeName(
		best.Record.CompanyName,
		best.Record.RoleName,
		candidates[best.CandidateIndex].Text,
	)

	report.BestMatch = best
	report.OtherMatches = valid[1:]

	e.logger.Info("job ranked",
		zap.Int("job_index", jobIdx),
		zap.String("company", best.Record.CompanyName),
		zap.String("best_candidate", best.CandidateName),
		zap.Float64("score", best.Record.ATSScore),
		zap.Int("failed_pairs", len(report.Failed)),
	)

	return report
}

// summarize computes the batch statistics over per-job winners only.
func summarize(jobReports []*JobReport, totalCandidates int) Summary {
	summary := Summary{
		TotalCandidates: totalCandidates,
		TotalJobs:       len(jobReports),
	}

	first := true
	var sum float64
	for _, jr := range jobReports {
		if jr.BestMatch == nil {
			continue
		}

		score := jr.BestMatch.Record.ATSScore
		summary.ValidResults++
		sum += score

		if first || score > summary.HighestScore {
			summary.HighestScore = score
		}
		if first || score < summary.LowestScore {
			summary.LowestScore = score
		}
		if summary.BestOverall == nil || score > summary.BestOverall.Record.ATSScore {
			summary.BestOverall = jr.BestMatch
		}
		first = false
	}

	if summary.ValidResults > 0 {
		summary.AverageScore = round2(sum / float64(summary.ValidResults))
		summary.HighestScore = round2(summary.HighestScore)
		summary.LowestScore = round2(summary.LowestScore)
	}

	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
