package ai

import (
	"context"
)

// Generator produces a textual completion for a prompt. Implementations live
// in the provider packages (openai, gemini).
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
