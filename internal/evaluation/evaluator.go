package evaluation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/ats-screener/internal/ai"
	"github.com/spigell/ats-screener/internal/logger"
	"github.com/spigell/ats-screener/internal/validate"
)

// Evaluator runs one resume text through cache, generator and parser.
type Evaluator struct {
	generator ai.Generator
	cache     *Cache
	logger    *zap.Logger
}

// NewEvaluator wires a generator and a cache together. A nil cache behaves
// like a disabled one.
func NewEvaluator(generator ai.Generator, cache *Cache, log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		generator: generator,
		cache:     cache,
		logger:    log,
	}
}

// Cache exposes the evaluator's cache for status and clearing.
func (e *Evaluator) Cache() *Cache {
	return e.cache
}

// EvaluateResume reviews a resume on its own.
func (e *Evaluator) EvaluateResume(ctx context.Context, resumeText string) (*Record, error) {
	return e.evaluate(ctx, ModeGeneral, resumeText, GeneralPrompt(resumeText))
}

// EvaluateAgainstJob reviews a resume against one job description. The job
// description is sanitized before it reaches the prompt and the cache key.
func (e *Evaluator) EvaluateAgainstJob(ctx context.Context, resumeText, jobDescription string) (*Record, error) {
	sanitized := validate.SanitizeText(jobDescription)
	return e.evaluate(ctx, ModeJobMatch, resumeText+"|||"+sanitized, JobMatchPrompt(resumeText, sanitized))
}

func (e *Evaluator) evaluate(ctx context.Context, mode Mode, cacheText, prompt string) (*Record, error) {
	fp := FingerprintFor(mode, cacheText)

	if record, ok := e.cache.Get(fp); ok {
		e.logger.Debug("evaluation served from cache",
			zap.String("mode", mode.String()),
			zap.String("fingerprint", string(fp)),
		)
		return record, nil
	}

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate evaluation: %w", err)
	}

	e.logger.Debug("got model response",
		zap.String("mode", mode.String()),
		zap.String("response", logger.TruncateForLog(raw, 200)),
	)

	record := Parse(raw, mode)
	e.cache.Put(fp, record)

	return record, nil
}
