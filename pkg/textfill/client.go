package textfill

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
)

const (
	httpTimeout    = 60 * time.Second
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// Client produces a completion for a prompt. Implementations wrap a
// chat-completion API; tests substitute scripted fakes.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPClient talks to an OpenAI-compatible chat-completions endpoint.
type HTTPClient struct {
	http     *http.Client
	endpoint string
	model    string
	apiKey   string
}

// NewHTTPClient creates a client for the given endpoint and model. The
// API key may be empty for endpoints that do not require one.
func NewHTTPClient(endpoint, model, apiKey string) *HTTPClient {
	return &HTTPClient{
		http:     &http.Client{Timeout: httpTimeout},
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat request and returns the raw assistant text.
// Connection failures and 5xx responses are retried with exponential
// backoff; other HTTP errors fail immediately.
func (c *HTTPClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encoding completion request")
	}

	var content string
	err = retryTransient(ctx, retryAttempts, retryBaseDelay, func() error {
		var reqErr error
		content, reqErr = c.doRequest(ctx, body)
		return reqErr
	})
	return content, err
}

func (c *HTTPClient) doRequest(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "building completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &transientError{errors.Wrap(errors.ErrCodeNetwork, err, "completion request failed")}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "", &transientError{errors.New(errors.ErrCodeNetwork, "completion endpoint returned status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeNetwork, "completion endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &transientError{errors.Wrap(errors.ErrCodeNetwork, err, "reading completion response")}
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.Wrap(errors.ErrCodeTextFill, err, "decoding completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New(errors.ErrCodeTextFill, "completion response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// transientError marks a failure worth retrying (connection errors,
// timeouts, 5xx responses). Anything else aborts the retry loop.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// retryTransient runs fn up to attempts times, doubling the delay after
// each transient failure. Non-transient errors return immediately, and
// context cancellation wins over the backoff sleep.
func retryTransient(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		var te *transientError
		if !stderrors.As(err, &te) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ctx.Err(), lastErr)
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
