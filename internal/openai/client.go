package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/ats-screener/internal/utils"
)

const (
	defaultEndpoint    = "https://api.openai.com/v1/chat/completions"
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.1
	defaultMaxTokens   = 1500
	defaultTimeout     = 30 * time.Second
	defaultAttempts    = 3

	contentType = "application/json"

	// backoffStep is multiplied by the attempt number between retries.
	backoffStep = time.Second
)

// Config holds the tunables for the completions client. Zero values fall
// back to the defaults above.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	Attempts    int
	Endpoint    string
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger

	// waitFor is swapped out in tests to avoid real backoff sleeps.
	waitFor func(ctx context.Context, d time.Duration) error
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient builds a client, filling defaults for any unset Config field.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
		waitFor:    utils.WaitFor,
	}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

// GenerateContent sends the prompt as a single user message and returns the
// first completion. Upstream trouble (5xx, transport errors, timeouts) is
// retried with linear backoff; everything else fails the call immediately.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return "", &APIError{Kind: KindUnauthorized, Message: "api key is not configured"}
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr *APIError
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		content, aerr := c.attempt(ctx, body)
		if aerr == nil {
			return content, nil
		}

		if !aerr.Retryable() {
			return "", aerr
		}

		lastErr = aerr
		c.logger.Warn("completion attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.Attempts),
			zap.Error(aerr),
		)

		if attempt < c.cfg.Attempts {
			if err := c.waitFor(ctx, time.Duration(attempt)*backoffStep); err != nil {
				return "", fmt.Errorf("waiting before retry: %w", err)
			}
		}
	}

	return "", &APIError{
		Kind:    KindServiceError,
		Message: fmt.Sprintf("giving up after %d attempts", c.cfg.Attempts),
		Err:     lastErr,
	}
}

func (c *Client) attempt(ctx context.Context, body []byte) (string, *APIError) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &APIError{Kind: KindBadRequest, Message: "build request", Err: err}
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Debug("make request", zap.String("url", req.URL.String()), zap.String("model", c.cfg.Model))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindServiceError
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			kind = KindTimeout
		}
		return "", &APIError{Kind: kind, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &APIError{Kind: KindServiceError, StatusCode: resp.StatusCode, Message: "read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, data)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &APIError{Kind: KindInvalidResponse, Message: "malformed response body", Err: err}
	}

	if parsed.Error != nil {
		return "", &APIError{Kind: KindInvalidResponse, Message: "service reported: " + parsed.Error.Message}
	}

	if len(parsed.Choices) == 0 {
		return "", &APIError{Kind: KindInvalidResponse, Message: "response contains no choices"}
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &APIError{Kind: KindInvalidResponse, Message: "completion content is empty"}
	}

	return content, nil
}

func classifyStatus(code int, body []byte) *APIError {
	msg := "bad status"
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}

	switch {
	case code == http.StatusUnauthorized:
		return &APIError{Kind: KindUnauthorized, StatusCode: code, Message: msg}
	case code == http.StatusTooManyRequests:
		return &APIError{Kind: KindRateLimited, StatusCode: code, Message: msg}
	case code >= 400 && code < 500:
		return &APIError{Kind: KindBadRequest, StatusCode: code, Message: msg}
	default:
		return &APIError{Kind: KindServiceError, StatusCode: code, Message: msg}
	}
}
