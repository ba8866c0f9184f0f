package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

var (
	// ErrUnavailable wraps every failure to obtain a score.
	ErrUnavailable = eris.New("scoring service unavailable")

	// ErrInvalidFeatures means a feature cannot be sent, usually a
	// non-finite DTI from zero income.
	ErrInvalidFeatures = eris.New("invalid scoring features")

	errTransport = eris.New("scoring transport failure")
)

const maxErrorBody = 512

// Client calls the scoring service. It is safe for concurrent use.
type Client struct {
	logger     *zap.Logger
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	retry      RetryConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(logger *zap.Logger, baseURL string, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		logger:     logger,
		endpoint:   strings.TrimRight(baseURL, "/") + "/score",
		httpClient: http.DefaultClient,
		retry:      DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score requests a probability of default for f.
func (c *Client) Score(ctx context.Context, f Features) (Score, error) {
	if !f.finite() {
		return Score{}, eris.Wrap(ErrInvalidFeatures, "features must be finite numbers")
	}
	body, err := json.Marshal(f)
	if err != nil {
		return Score{}, eris.Wrap(err, "failed to encode scoring features")
	}

	onRetry := func(attempt int, err error) {
		c.logger.Warn("retrying scoring request",
			zap.String("op", "scoring.Score"),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	score, err := do(ctx, c.retry, onRetry, func(ctx context.Context) (Score, error) {
		return c.attempt(ctx, body)
	})
	if err != nil {
		return Score{}, eris.Wrapf(ErrUnavailable, "%v", err)
	}

	c.logger.Debug("scored application",
		zap.String("op", "scoring.Score"),
		zap.Float64("pd", score.PD),
		zap.Float64("recommendedAPR", score.RecommendedAPR),
		zap.String("modelVersion", score.ModelVersion),
	)
	return score, nil
}

func (c *Client) attempt(ctx context.Context, body []byte) (Score, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Score{}, eris.Wrap(err, "failed to build scoring request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Score{}, eris.Wrapf(errTransport, "%v", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close scoring response",
				zap.String("op", "scoring.attempt"),
				zap.Error(closeErr),
			)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Score{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var score Score
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return Score{}, eris.Wrap(err, "failed to decode scoring response")
	}
	if !mathutil.IsFinite(score.PD) || score.PD < 0 || score.PD > 1 {
		return Score{}, eris.Errorf("scoring service returned pd %v outside [0, 1]", score.PD)
	}
	return score, nil
}
