// Package classify provides a resilient client for the external domain
// classification service. Every failure mode, transport error, timeout,
// non-2xx status, undecodable body, is translated to a project error so a
// classification attempt never surfaces an unhandled fault to callers
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "domainsift/internal/platform/errors"
	"domainsift/internal/platform/logger"
)

const (
	defaultTimeout   = 45 * time.Second
	defaultUA        = "domainsift-classifier"
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
)

// Options configures the Client
// BaseURL and APIKey are injected at construction, the client never reads
// ambient process state at call time
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration

	// Retry config for transient transport errors and 5xx responses
	MaxRetries int
	RetryBase  time.Duration
}

// Request is one classification call
type Request struct {
	Domain      string `json:"domain"`
	URL         string `json:"url"`
	ProfileType string `json:"profile_type"`

	// Prompt optionally overrides the service's default prompt for the
	// profile type
	Prompt string `json:"prompt,omitempty"`
}

// Result is the verdict for one domain
type Result struct {
	Classification string          `json:"classification"`
	Confidence     float64         `json:"confidence"`
	Comment        string          `json:"comment"`
	ProcessingTime float64         `json:"processing_time_seconds"`
	Raw            json.RawMessage `json:"-"`
}

// Classifier is the seam services depend on
type Classifier interface {
	Classify(ctx context.Context, req Request) (Result, error)
}

// Client is a minimal HTTP client for the classification service
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("classify"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Classify POSTs the request to /analyze and decodes the verdict
// Synchronous with the per-call timeout from Options enforced by the
// underlying http.Client, a stuck upstream blocks only this one call
func (c *Client) Classify(ctx context.Context, req Request) (Result, error) {
	var zero Result
	if c.opts.BaseURL == "" {
		return zero, perr.Upstreamf("classifier base url not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return zero, perr.Wrapf(err, perr.ErrorCodeUpstream, "classify marshal failed")
	}

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return zero, perr.Wrapf(ctx.Err(), perr.ErrorCodeUpstream, "classify canceled")
		default:
		}

		res, retryable, err := c.once(ctx, req, body)
		if err == nil {
			return res, nil
		}
		if !retryable || attempts >= c.opts.MaxRetries {
			return zero, err
		}
		back := c.backoff(attempts)
		c.log.Warn().
			Err(err).
			Str("domain", req.Domain).
			Dur("retry_in", back).
			Int("attempt", attempts).
			Msg("classify transient failure retrying")
		c.sleep(back)
		attempts++
	}
}

// once performs a single attempt, the bool reports whether a retry is sane
func (c *Client) once(ctx context.Context, req Request, body []byte) (Result, bool, error) {
	var zero Result

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return zero, false, perr.Wrapf(err, perr.ErrorCodeUpstream, "classify new request failed")
	}
	hreq.Header.Set("User-Agent", c.opts.UserAgent)
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		hreq.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	start := c.now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return zero, true, perr.Wrapf(err, perr.ErrorCodeUpstream, "classifier unreachable")
	}
	defer resp.Body.Close() // nolint:errcheck

	lat := c.now().Sub(start)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return zero, true, perr.Wrapf(err, perr.ErrorCodeUpstream, "classifier read failed")
	}

	c.log.Debug().
		Str("domain", req.Domain).
		Str("profile_type", req.ProfileType).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Msg("classify response")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to decode
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return zero, true, perr.Upstreamf("classifier returned %d: %s", resp.StatusCode, trim(raw))
	default:
		return zero, false, perr.Upstreamf("classifier returned %d: %s", resp.StatusCode, trim(raw))
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, false, perr.Wrapf(err, perr.ErrorCodeUpstream, "classifier sent undecodable body")
	}
	out.Raw = json.RawMessage(raw)
	return out, false, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase << attempt
	if ceiling := 8 * time.Second; d > ceiling {
		d = ceiling
	}
	return d
}

// trim caps upstream error bodies so log lines and error messages stay short
func trim(b []byte) string {
	const limit = 256
	if len(b) > limit {
		b = b[:limit]
	}
	return string(b)
}
