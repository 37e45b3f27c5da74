package openai

import "fmt"

// Kind classifies a failed exchange with the completions endpoint.
type Kind int

const (
	// KindServiceError covers 5xx responses and transport failures.
	KindServiceError Kind = iota
	// KindUnauthorized is a 401: the API key is missing or rejected.
	KindUnauthorized
	// KindRateLimited is a 429.
	KindRateLimited
	// KindBadRequest covers the remaining 4xx family.
	KindBadRequest
	// KindTimeout is a per-attempt deadline hit.
	KindTimeout
	// KindInvalidResponse is a 200 whose body cannot be used: an embedded
	// error object, zero choices, or empty completion content.
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate limited"
	case KindBadRequest:
		return "bad request"
	case KindTimeout:
		return "timeout"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "service error"
	}
}

// APIError is the error type returned for every classified failure.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("openai: %s: %s: %v", e.Kind, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("openai: %s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("openai: %s: %s", e.Kind, e.Message)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed. Client errors and
// unusable bodies are terminal; only upstream trouble and timeouts are worth
// a retry.
func (e *APIError) Retryable() bool {
	return e.Kind == KindServiceError || e.Kind == KindTimeout
}
