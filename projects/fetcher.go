// Package projects loads the deploy script shown on the projects page.
package projects

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	provider = "github"

	// the page only shows a short shell script
	maxBodyBytes = 256 << 10
)

type Fetcher struct {
	url     string
	client  *retry.Client
	metrics *metrics.Metrics
}

// NewFetcher builds a fetcher for url. httpClient carries the per-attempt timeout.
func NewFetcher(url string, httpClient *http.Client, m *metrics.Metrics) (*Fetcher, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	client, err := retry.NewClient(retry.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("[projects NewFetcher] %w", err)
	}
	return &Fetcher{url: url, client: client, metrics: m}, nil
}

// Fetch returns the raw file contents
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("[projects Fetch] %w", err)
	}

	resp, err := f.client.DoWithContext(ctx, req)
	if err != nil {
		f.metrics.Upstream(provider, metrics.OutcomeUnavailable)
		return "", errors.Unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.metrics.Upstream(provider, metrics.OutcomeUnavailable)
		return "", errors.Unavailable(err)
	}
	if resp.StatusCode != http.StatusOK {
		f.metrics.Upstream(provider, metrics.OutcomeRejected)
		return "", errors.Rejected(resp.StatusCode, body)
	}
	f.metrics.Upstream(provider, metrics.OutcomeOK)
	return string(body), nil
}

// Content never fails: an error is rendered in place of the file
func (f *Fetcher) Content(ctx context.Context) string {
	text, err := f.Fetch(ctx)
	switch {
	case err == nil:
		return text
	case errors.Is(err, errors.ErrUpstreamRejected):
		log.Warn().Err(err).Str("url", f.url).Msg("deploy script fetch rejected")
		return fmt.Sprintf("Failed to load GitHub file: %v", err)
	default:
		log.Warn().Err(err).Str("url", f.url).Msg("deploy script fetch failed")
		return fmt.Sprintf("Request failed: %v", err)
	}
}
