package evaluation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestEvaluatorCachesRepeatedInput(t *testing.T) {
	stub := &stubGenerator{response: "Score: 8"}
	ev := NewEvaluator(stub, NewCache(true, time.Hour), zap.NewNop())

	first, err := ev.EvaluateResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := ev.EvaluateResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("expected a single generator call, got %d", stub.calls)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestEvaluatorDisabledCacheYieldsSameResults(t *testing.T) {
	stub := &stubGenerator{response: "Score: 8"}
	ev := NewEvaluator(stub, NewCache(false, time.Hour), zap.NewNop())

	first, err := ev.EvaluateResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := ev.EvaluateResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 2 {
		t.Fatalf("expected two generator calls with cache disabled, got %d", stub.calls)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between calls: %+v vs %+v", first, second)
	}
}

func TestEvaluatorSanitizesJobDescription(t *testing.T) {
	stub := &stubGenerator{response: "Score: 6"}
	ev := NewEvaluator(stub, NewCache(false, 0), zap.NewNop())

	_, err := ev.EvaluateAgainstJob(context.Background(), "resume", "Go engineer <script>alert(1)</script> wanted")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stub.lastPrompt, "<script>") {
		t.Fatalf("script tag reached the prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Go engineer") {
		t.Fatalf("job description missing from prompt: %s", stub.lastPrompt)
	}
}

func TestEvaluatorWrapsGeneratorFailure(t *testing.T) {
	boom := errors.New("upstream down")
	stub := &stubGenerator{err: boom}
	ev := NewEvaluator(stub, NewCache(true, time.Hour), zap.NewNop())

	_, err := ev.EvaluateResume(context.Background(), "resume text")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}

	// A failure must not poison the cache.
	stub.err = nil
	stub.response = "Score: 8"
	rec, err := ev.EvaluateResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ATSScore != 8.0 {
		t.Fatalf("unexpected score: %v", rec.ATSScore)
	}
}

func TestEvaluatorJobMatchUsesJobPrompt(t *testing.T) {
	stub := &stubGenerator{response: "Score: 7"}
	ev := NewEvaluator(stub, NewCache(false, 0), zap.NewNop())

	if _, err := ev.EvaluateAgainstJob(context.Background(), "resume text", "job text"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "You are an ATS evaluator") {
		t.Fatalf("job-match prompt not used: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Job Description:\njob text") {
		t.Fatalf("job description not appended: %s", stub.lastPrompt)
	}
}
