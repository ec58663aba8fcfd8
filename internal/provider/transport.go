// Package provider holds the HTTP transport shared by the scripture text providers.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Fabioalbuqueque/pregacao/internal/ratelimit"
)

// ID names an upstream scripture provider.
type ID string

// Known providers.
const (
	BibleAPI  ID = "bibleapi"
	DenoBible ID = "denobible"
)

const (
	// DefaultRelayURL is the public CORS relay used when relaying is enabled.
	DefaultRelayURL = "https://cors.isomorphic-git.org/"

	defaultTimeout = 15 * time.Second
	defaultRPS     = 2.0
	defaultBurst   = 4

	// Chapter payloads are small; anything beyond this is not a chapter.
	maxBodyBytes = 8 << 20

	userAgent = "Pregacao/1.0"
)

// Options configures a Transport.
type Options struct {
	// HTTPClient overrides the default client (tests inject httptest clients).
	HTTPClient *http.Client
	// Timeout applies to the default client only.
	Timeout time.Duration
	// RPS and Burst bound outbound requests per provider. Zero values use defaults.
	RPS   float64
	Burst int
	// RelayEnabled turns on the single retry through RelayURL, for hosts that
	// cannot reach the providers directly (browser-hosted front ends).
	RelayEnabled bool
	RelayURL     string
	Logger       *slog.Logger
}

// Transport issues rate-limited GET requests and decodes JSON bodies.
type Transport struct {
	http     *http.Client
	limiter  *ratelimit.KeyedRateLimiter
	relayURL string
	logger   *slog.Logger
}

// NewTransport creates a transport from opts.
func NewTransport(opts Options) *Transport {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	rps, burst := opts.RPS, opts.Burst
	if rps == 0 {
		rps = defaultRPS
	}
	if burst == 0 {
		burst = defaultBurst
	}

	var relay string
	if opts.RelayEnabled {
		relay = opts.RelayURL
		if relay == "" {
			relay = DefaultRelayURL
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Transport{
		http:     client,
		limiter:  ratelimit.New(rps, burst),
		relayURL: relay,
		logger:   logger,
	}
}

// RelayEnabled reports whether failed requests are retried through the relay.
func (t *Transport) RelayEnabled() bool {
	return t.relayURL != ""
}

// GetJSON fetches rawURL for provider id and returns the decoded body.
// On failure, and only when relaying is enabled, the same URL is retried once
// through the relay. The returned error is always a *FetchError.
func (t *Transport) GetJSON(ctx context.Context, id ID, rawURL string) (any, error) {
	if err := t.limiter.Wait(ctx, string(id)); err != nil {
		return nil, wrapError(id, rawURL, fmt.Errorf("rate limit wait: %w", err))
	}

	payload, err := t.fetch(ctx, rawURL)
	if err == nil {
		return payload, nil
	}

	if !t.RelayEnabled() || ctx.Err() != nil {
		return nil, wrapError(id, rawURL, err)
	}

	t.logger.Debug("provider request failed, retrying through relay",
		"provider", id,
		"url", rawURL,
		"error", err,
	)

	payload, relayErr := t.fetch(ctx, t.relayURL+rawURL)
	if relayErr != nil {
		return nil, wrapError(id, rawURL, errors.Join(err, fmt.Errorf("relay: %w", relayErr)))
	}
	return payload, nil
}

func (t *Transport) fetch(ctx context.Context, rawURL string) (any, error) {
	body, err := t.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return payload, nil
}

func (t *Transport) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}
}
