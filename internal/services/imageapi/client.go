package imageapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout     = 90 * time.Second
	defaultDownloadTimeout = 30 * time.Second
	defaultRetryMaxDelay   = 10 * time.Second
	defaultRetryBaseDelay  = 1 * time.Second
	defaultRetryAttempts   = 3
	maxImageBytes          = 64 << 20
)

// Config captures the runtime settings for one image endpoint.
type Config struct {
	Name                   string
	APIKey                 string
	BaseURL                string
	Model                  string
	Size                   string
	Quality                string
	N                      int
	TimeoutSeconds         int
	DownloadTimeoutSeconds int
}

// Client wraps an OpenAI-compatible images API.
type Client struct {
	cfg            Config
	httpClient     *http.Client
	downloadClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for both generation and download.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.downloadClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs an image client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	downloadTimeout := defaultDownloadTimeout
	if cfg.DownloadTimeoutSeconds > 0 {
		downloadTimeout = time.Duration(cfg.DownloadTimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			Name:                   strings.TrimSpace(cfg.Name),
			APIKey:                 strings.TrimSpace(cfg.APIKey),
			BaseURL:                strings.TrimSpace(cfg.BaseURL),
			Model:                  strings.TrimSpace(cfg.Model),
			Size:                   strings.TrimSpace(cfg.Size),
			Quality:                strings.TrimSpace(cfg.Quality),
			N:                      cfg.N,
			TimeoutSeconds:         cfg.TimeoutSeconds,
			DownloadTimeoutSeconds: cfg.DownloadTimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		downloadClient:   &http.Client{Timeout: downloadTimeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.Name == "" {
		client.cfg.Name = "openai"
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = "https://api.openai.com/v1"
	}
	return client
}

// Name returns the provider label used in logs and reports.
func (c *Client) Name() string {
	return c.cfg.Name
}

type generationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	N       int    `json:"n,omitempty"`
}

type generationResponse struct {
	Data []struct {
		URL           string `json:"url"`
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type httpStatusError struct {
	Op         string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.Op, e.StatusCode, summarizeBody(e.Body))
}

// StatusCode reports the HTTP status of a failed request, if any.
func StatusCode(err error) (int, bool) {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// Generate requests one image for prompt and returns its encoded bytes.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	op := c.cfg.Name + " generate"
	if prompt == "" {
		return nil, fmt.Errorf("%s: prompt required", op)
	}
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key required", op)
	}
	payload := generationRequest{
		Model:   c.cfg.Model,
		Prompt:  prompt,
		Size:    c.cfg.Size,
		Quality: c.cfg.Quality,
		N:       c.cfg.N,
	}

	var generated generationResponse
	err := c.withRetry(ctx, op, func() error {
		var err error
		generated, err = c.sendGenerationOnce(ctx, payload, op)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(generated.Data) == 0 {
		return nil, fmt.Errorf("%s: response contained no images", op)
	}

	first := generated.Data[0]
	if encoded := strings.TrimSpace(first.B64JSON); encoded != "" {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%s: decode b64_json: %w", op, err)
		}
		return data, nil
	}
	if strings.TrimSpace(first.URL) == "" {
		return nil, fmt.Errorf("%s: response contained neither url nor b64_json", op)
	}

	var image []byte
	downloadOp := c.cfg.Name + " download"
	err = c.withRetry(ctx, downloadOp, func() error {
		var err error
		image, err = c.downloadOnce(ctx, first.URL, downloadOp)
		return err
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (c *Client) sendGenerationOnce(ctx context.Context, payload generationRequest, op string) (generationResponse, error) {
	var generated generationResponse
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "images", "generations")
	if err != nil {
		return generated, fmt.Errorf("%s: build url: %w", op, err)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return generated, fmt.Errorf("%s: encode body: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return generated, fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return generated, fmt.Errorf("%s: http error (timeout=%s): %w", op, c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return generated, fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return generated, &httpStatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       string(body),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(body, &generated); err != nil {
		return generated, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if generated.Error != nil {
		return generated, fmt.Errorf("%s: api error: %s", op, strings.TrimSpace(generated.Error.Message))
	}
	return generated, nil
}

func (c *Client) downloadOnce(ctx context.Context, imageURL, op string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new request: %w", op, err)
	}
	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: http error (timeout=%s): %w", op, c.downloadClient.Timeout, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &httpStatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body), RetryAfter: retryAfter}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("%s: image exceeds %d bytes", op, maxImageBytes)
	}
	return data, nil
}

func summarizeBody(body string) string {
	clean := strings.Join(strings.Fields(body), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
