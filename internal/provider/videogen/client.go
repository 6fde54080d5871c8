package videogen

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

	"github.com/rs/zerolog"

	"vidgen/internal/domain"
	"vidgen/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("videogen: api key is required")

// Options configures the video generation client.
type Options struct {
	APIKey       string
	BaseURL      string
	Model        string
	Duration     int
	AspectRatio  string
	HTTPClient   *http.Client
	Logger       *infra.Logger
	PollInterval time.Duration
	PollMaxTicks int
}

// Client performs HTTP calls against the external video generation API. The
// provider's contract is only loosely specified, so both submission and
// status checks tolerate multiple endpoint and field shapes.
type Client struct {
	apiKey       string
	baseURL      string
	model        string
	duration     int
	aspectRatio  string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
	pollMaxTicks int
}

// GenerateRequest captures the required inputs for one video generation.
type GenerateRequest struct {
	Prompt   string
	ImageURL string
}

type submitPayload struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Image       string `json:"image"`
	Duration    int    `json:"duration"`
	AspectRatio string `json:"aspect_ratio"`
}

// fallbackPayload is the alternate body shape the provider's older route
// expects.
type fallbackPayload struct {
	Model string        `json:"model"`
	Input fallbackInput `json:"input"`
}

type fallbackInput struct {
	Prompt      string `json:"prompt"`
	ImageURL    string `json:"image_url"`
	DurationSec int    `json:"duration_seconds"`
	AspectRatio string `json:"aspect_ratio"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 45 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("videogen: base url is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "i2v-1.5-pro"
	}
	duration := opts.Duration
	if duration <= 0 {
		duration = 5
	}
	aspect := strings.TrimSpace(opts.AspectRatio)
	if aspect == "" {
		aspect = "16:9"
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxTicks := opts.PollMaxTicks
	if maxTicks <= 0 {
		maxTicks = 60
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		baseURL:      baseURL,
		model:        model,
		duration:     duration,
		aspectRatio:  aspect,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: interval,
		pollMaxTicks: maxTicks,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate submits a prompt+image pair and blocks until the provider reports
// a terminal state. It returns the URL of the produced video asset.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return "", fmt.Errorf("%w: image is required", domain.ErrValidation)
	}

	body, err := c.submit(ctx, req)
	if err != nil {
		return "", err
	}

	// A ready asset short-circuits polling entirely.
	if url := extractAssetURL(body); url != "" {
		c.logger.Debug().Str("model", c.model).Str("url", url).Msg("videogen: immediate asset")
		return url, nil
	}

	jobID := extractJobID(body)
	status := extractStatus(body)
	if jobID != "" && isInProgress(status) {
		return c.poll(ctx, jobID)
	}

	raw, _ := json.Marshal(body)
	return "", fmt.Errorf("%w: %s", domain.ErrUnrecognizedResponse, string(raw))
}

// submit issues the canonical generation call, falling back to the
// differently-shaped legacy route only when the primary route does not exist.
func (c *Client) submit(ctx context.Context, req GenerateRequest) (map[string]any, error) {
	primary := submitPayload{
		Model:       c.model,
		Prompt:      req.Prompt,
		Image:       req.ImageURL,
		Duration:    c.duration,
		AspectRatio: c.aspectRatio,
	}
	body, status, err := c.postJSON(ctx, c.baseURL+"/generations", primary)
	if err == nil {
		return body, nil
	}
	if !isRouteNotFound(status) {
		return nil, err
	}

	c.logger.Debug().Msg("videogen: primary route missing, retrying legacy route")
	secondary := fallbackPayload{
		Model: c.model,
		Input: fallbackInput{
			Prompt:      req.Prompt,
			ImageURL:    req.ImageURL,
			DurationSec: c.duration,
			AspectRatio: c.aspectRatio,
		},
	}
	body, _, err = c.postJSON(ctx, c.baseURL+"/video/generate", secondary)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) (map[string]any, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("videogen: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, fmt.Errorf("videogen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response: %v", domain.ErrProvider, err)
	}
	if resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, providerErrorMessage(raw))
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", domain.ErrUnrecognizedResponse, strings.TrimSpace(string(raw)))
	}
	return decoded, resp.StatusCode, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string) (map[string]any, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("videogen: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response: %v", domain.ErrProvider, err)
	}
	if resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d: %s", domain.ErrProvider, resp.StatusCode, providerErrorMessage(raw))
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %s", domain.ErrUnrecognizedResponse, strings.TrimSpace(string(raw)))
	}
	return decoded, resp.StatusCode, nil
}

// providerErrorMessage pulls a human-readable message out of an error body,
// falling back to the trimmed raw payload.
func providerErrorMessage(raw []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		if msg := extractFailureReason(decoded); msg != "" {
			return msg
		}
	}
	return strings.TrimSpace(string(raw))
}

func isRouteNotFound(status int) bool {
	return status == http.StatusNotFound || status == http.StatusMethodNotAllowed
}
