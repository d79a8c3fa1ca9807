// Package riot reads League of Legends account, ranked and match data from the Riot Games API.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jrsteele09/go-portfolio-server/cache"
	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const (
	provider      = "riot"
	apiKeyHeader  = "X-Riot-Token"
	breakerTrips  = 5
	breakerWindow = 30 * time.Second
)

// HostURL returns the API base URL for a routing value such as "europe" or "euw1"
func HostURL(routing string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", routing)
}

type Client struct {
	apiKey          string
	regionalBaseURL string
	platformBaseURL string
	httpClient      *http.Client
	cache           cache.Cache
	ttls            config.RiotCacheTTLs
	breaker         *gobreaker.CircuitBreaker
	metrics         *metrics.Metrics
}

type Option func(*Client)

// WithRegionalBaseURL overrides the host used by the account and match endpoints
func WithRegionalBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.regionalBaseURL = baseURL
	}
}

// WithPlatformBaseURL overrides the host used by the league endpoints
func WithPlatformBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.platformBaseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithCache(store cache.Cache, ttls config.RiotCacheTTLs) Option {
	return func(c *Client) {
		c.cache = store
		c.ttls = ttls
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the given regional ("europe") and platform ("euw1") routing values.
// Without WithCache responses are kept in memory using the default TTLs.
func NewClient(apiKey, region, platform string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		regionalBaseURL: HostURL(region),
		platformBaseURL: HostURL(platform),
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		cache:           cache.NewMemory(),
		ttls:            config.Riot{}.GetRiotCacheTTLs(),
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Timeout:     breakerWindow,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		// Cancellation only ever comes from the caller, never from Riot
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches baseURL+path, decoding the JSON body into out. Successful bodies are cached for ttl.
func (c *Client) get(ctx context.Context, baseURL, path string, ttl time.Duration, out any) error {
	if c.apiKey == "" {
		c.metrics.Upstream(provider, metrics.OutcomeSkipped)
		return errors.Wrapf(errors.ErrNotAuthenticated, "RIOT_API_KEY is not set")
	}

	key := "riot:" + baseURL + path
	if body, found, err := c.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("riot cache read failed")
	} else if found {
		if err := json.Unmarshal(body, out); err == nil {
			c.metrics.Upstream(provider, metrics.OutcomeCached)
			return nil
		}
	}

	body, err := c.fetch(ctx, baseURL+path)
	if err != nil {
		c.metrics.Upstream(provider, outcomeOf(err))
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.Upstream(provider, metrics.OutcomeMalformed)
		return errors.Malformed(fmt.Errorf("decode %s: %w", path, err))
	}
	c.metrics.Upstream(provider, metrics.OutcomeOK)

	if err := c.cache.Set(ctx, key, body, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("riot cache write failed")
	}
	return nil
}

type fetchResult struct {
	body     []byte
	rejected error
}

// fetch runs one GET through the circuit breaker. Transport errors, 429 and 5xx count as
// breaker failures; other rejections (404 for an unknown player) and the caller's own
// cancellation or deadline do not.
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("[riot fetch] %w", err)
		}
		req.Header.Set(apiKeyHeader, c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fetchResult{rejected: ctxErr}, nil
			}
			return nil, errors.Unavailable(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Unavailable(err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return nil, errors.Rejected(resp.StatusCode, body)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return fetchResult{rejected: errors.Rejected(resp.StatusCode, body)}, nil
		}
		return fetchResult{body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Unavailable(err)
		}
		return nil, err
	}

	fr := result.(fetchResult)
	if fr.rejected != nil {
		return nil, fr.rejected
	}
	return fr.body, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, errors.ErrUpstreamRejected):
		return metrics.OutcomeRejected
	case errors.Is(err, errors.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeUnavailable
	}
}
