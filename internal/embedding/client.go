package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
)

const (
	// statusRuntimeUnavailable is returned by the edge runtime while the
	// embedding model is cold-starting; it is transient like a 5xx.
	statusRuntimeUnavailable = 546

	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// SleepFunc waits for d or until the context is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Client calls the embedding edge function, one text at a time. Transient
// server errors are retried with exponential backoff up to a fixed ceiling.
type Client struct {
	baseURL string
	apiKey  string
	dims    int

	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
}

// NewClient creates an embedding client. dims is the expected vector length;
// every returned embedding is validated against it.
func NewClient(baseURL, apiKey string, dims int) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		dims:        dims,
		client:      &http.Client{Timeout: 30 * time.Second},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		sleep:       defaultSleep,
	}
}

type embedRequest struct {
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding vector for one text. Server-side transient
// failures (5xx and the runtime-unavailable code) are retried with doubling
// backoff; exhausting the retry ceiling returns the last error.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.baseDelay << (attempt - 1)
			logger.WarnContext(ctx, "retrying embedding call", "attempt", attempt+1, "wait", wait, "error", lastErr)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		vec, retryable, err := c.call(ctx, text)
		if err == nil {
			return vec, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// call performs one embedding request. retryable marks errors worth another
// attempt.
func (c *Client) call(ctx context.Context, text string) (vec []float32, retryable bool, err error) {
	body, err := json.Marshal(embedRequest{Input: text})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/functions/v1/embed", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 500 || resp.StatusCode == statusRuntimeUnavailable {
		return nil, true, fmt.Errorf("edge function returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Embedding) != c.dims {
		return nil, false, fmt.Errorf("embedding has %d dimensions, expected %d", len(decoded.Embedding), c.dims)
	}
	return decoded.Embedding, false, nil
}
