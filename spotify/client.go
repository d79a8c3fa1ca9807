// Package spotify calls the Spotify Web API on behalf of the site owner.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/jrsteele09/go-portfolio-server/token"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAPIBaseURL = "https://api.spotify.com"
	provider          = "spotify"
)

// TokenSource yields a token that is valid right now, refreshing it if needed.
// *refresh.Manager satisfies it.
type TokenSource interface {
	EnsureFresh(ctx context.Context) (token.Record, error)
}

type Client struct {
	tokens     TokenSource
	apiBaseURL string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.apiBaseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func NewClient(tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		tokens:     tokens,
		apiBaseURL: DefaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthorizedRequest makes sure the cached token is fresh and returns an unsent request carrying
// it as a bearer token. Any failure to obtain a token is reported as ErrNotAuthenticated with
// the underlying cause still in the chain.
func (c *Client) AuthorizedRequest(ctx context.Context, method, rawURL string) (*http.Request, error) {
	record, err := c.tokens.EnsureFresh(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrNotAuthenticated) {
			log.Err(err).Msg("spotify token refresh failed")
			err = fmt.Errorf("%w: %w", errors.ErrNotAuthenticated, err)
		}
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("[spotify AuthorizedRequest] %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// the record was just confirmed fresh, so the expiry passed here only needs to be in the future
	record.OAuth2Token(time.Now()).SetAuthHeader(req)
	return req, nil
}

// getJSON performs one authorized GET and decodes a 2xx body into out. With allowNoContent a 204
// or empty body reports noContent and leaves out untouched; otherwise it is a malformed response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any, allowNoContent bool) (noContent bool, err error) {
	req, err := c.AuthorizedRequest(ctx, http.MethodGet, c.apiBaseURL+path)
	if err != nil {
		return false, err
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.Upstream(provider, metrics.OutcomeUnavailable)
		return false, errors.Unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.Upstream(provider, metrics.OutcomeUnavailable)
		return false, errors.Unavailable(fmt.Errorf("read %s: %w", path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.Upstream(provider, metrics.OutcomeRejected)
		return false, errors.Rejected(resp.StatusCode, body)
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		if !allowNoContent {
			c.metrics.Upstream(provider, metrics.OutcomeMalformed)
			return false, errors.Malformed(fmt.Errorf("%s: status %d with empty body", path, resp.StatusCode))
		}
		c.metrics.Upstream(provider, metrics.OutcomeNoContent)
		return true, nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.Upstream(provider, metrics.OutcomeMalformed)
		return false, errors.Malformed(fmt.Errorf("decode %s: %w", path, err))
	}
	c.metrics.Upstream(provider, metrics.OutcomeOK)
	return false, nil
}
