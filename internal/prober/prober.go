// Package prober wakes a possibly-hibernated backend before real requests.
// The probe is best effort: a cold backend must not block the UI, so
// exhausting every attempt is not an error, the real request that follows
// surfaces any persistent failure.
package prober

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultMaxAttempts = 4
	defaultBaseDelay   = 500 * time.Millisecond
	probeTimeout       = 10 * time.Second
)

// Prober issues health-check requests with exponential backoff.
type Prober struct {
	httpClient  *http.Client
	healthURL   string
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

// Option adjusts a Prober.
type Option func(*Prober)

// WithMaxAttempts overrides the number of probe attempts.
func WithMaxAttempts(n int) Option {
	return func(p *Prober) { p.maxAttempts = n }
}

// WithSleep replaces the wait between attempts, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(p *Prober) { p.sleep = sleep }
}

// New creates a new Prober for the given API base URL
func New(baseURL string, opts ...Option) *Prober {
	p := &Prober{
		httpClient:  &http.Client{Timeout: probeTimeout},
		healthURL:   baseURL + "/health",
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wake probes the health endpoint until a 2xx response or the attempts run
// out, waiting baseDelay·2^attempt between failures. Returns whether the
// backend answered; it never fails.
func (p *Prober) Wake(ctx context.Context) bool {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := p.baseDelay << (attempt - 1)
			slog.Debug("backend still cold, backing off",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
			)
			p.sleep(delay)
		}
		if ctx.Err() != nil {
			return false
		}
		if p.probe(ctx) {
			slog.Debug("backend is awake", slog.Int("attempts", attempt+1))
			return true
		}
	}
	slog.Warn("Backend wake probe exhausted, proceeding anyway",
		slog.Int("attempts", p.maxAttempts),
	)
	return false
}

func (p *Prober) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.healthURL, nil)
	if err != nil {
		slog.Error("Failed to build health request", "error", err)
		return false
	}
	req.Header.Set("Cache-Control", "no-cache")

	res, err := p.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode >= 200 && res.StatusCode < 300
}
