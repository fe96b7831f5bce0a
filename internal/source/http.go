package source

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const userAgent = "nearabl-cli"

// HTTPSource downloads the dataset with a plain GET, bypassing caches.
type HTTPSource struct {
	httpClient       *http.Client
	url              string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	log              *zap.Logger
}

// NewHTTPSource builds an HTTP source. With zero options it makes a single
// attempt and waits for the transport without a timeout.
func NewHTTPSource(url string, opt Options) *HTTPSource {
	client := opt.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opt.HTTPTimeout}
	}
	attempts := opt.RetryMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	base := opt.RetryBaseDelay
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	maxDelay := opt.RetryMaxDelay
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return &HTTPSource{
		httpClient:       client,
		url:              url,
		retryMaxAttempts: attempts,
		retryBaseDelay:   base,
		retryMaxDelay:    maxDelay,
		log:              logger(opt),
	}
}

func (s *HTTPSource) Location() string { return s.url }

// Fetch returns the response body as text.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	backoff := s.retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= s.retryMaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		body, err := s.fetchOnce(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == s.retryMaxAttempts || !isRetryable(err) {
			break
		}
		sleep := withJitter(backoff)
		if sleep > s.retryMaxDelay {
			sleep = s.retryMaxDelay
		}
		if ferr, ok := err.(*FetchError); ok && ferr.RetryAfter > 0 {
			sleep = ferr.RetryAfter
		}
		s.log.Debug("retrying dataset fetch",
			zap.Int("attempt", attempt),
			zap.Duration("sleep", sleep),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(sleep):
		}
		backoff *= 2
	}
	return "", lastErr
}

func (s *HTTPSource) fetchOnce(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	// Always ask for the latest copy of the resource.
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UnreachableError{Host: req.URL.Host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		ferr := &FetchError{Status: resp.StatusCode, StatusText: resp.Status, Location: s.url}
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if d, err := parseRetryAfter(ra); err == nil {
				ferr.RetryAfter = d
			}
		}
		return "", ferr
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UnreachableError{Host: req.URL.Host, Err: fmt.Errorf("read body: %w", err)}
	}
	s.log.Debug("dataset fetched",
		zap.String("url", s.url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(b)))
	return string(b), nil
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
