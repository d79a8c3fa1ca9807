package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/jrsteele09/go-portfolio-server/token"
	"github.com/rs/zerolog/log"
)

// SpotifyTokenURL is the accounts service token endpoint
const SpotifyTokenURL = "https://accounts.spotify.com/api/token"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Manager keeps the cached Spotify token usable: it refreshes it when expired and
// performs the one-time authorization-code exchange.
type Manager struct {
	repo        token.Repo
	credentials config.Credentials
	redirectURI string
	tokenURL    string
	httpClient  *http.Client
	metrics     *metrics.Metrics

	// held for the whole load-check-refresh-save sequence
	mu sync.Mutex
}

type Option func(*Manager)

// WithTokenURL points the manager at a different token endpoint
func WithTokenURL(tokenURL string) Option {
	return func(m *Manager) {
		m.tokenURL = tokenURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func WithMetrics(mtr *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mtr
	}
}

// NewManager creates a new token manager
func NewManager(repo token.Repo, credentials config.Credentials, redirectURI string, opts ...Option) *Manager {
	m := &Manager{
		repo:        repo,
		credentials: credentials,
		redirectURI: redirectURI,
		tokenURL:    SpotifyTokenURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// EnsureFresh returns the cached record when it has not expired. Otherwise it exchanges the
// refresh token for a new access token and persists the result.
func (m *Manager) EnsureFresh(ctx context.Context) (token.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cached, issuedAt, err := m.repo.Load()
	if err != nil {
		return token.Record{}, err
	}
	if cached.IsFresh(issuedAt, NowTimeFunc()) {
		return cached, nil
	}
	if cached.RefreshToken == "" {
		m.metrics.TokenRefresh(metrics.OutcomeSkipped)
		return token.Record{}, errors.Wrapf(errors.ErrNotAuthenticated, "token expired at %s and no refresh token is cached", cached.Expiry(issuedAt).Format(time.RFC3339))
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", cached.RefreshToken)

	refreshed, err := m.requestToken(ctx, form)
	if err != nil {
		m.metrics.TokenRefresh(outcomeOf(err))
		return token.Record{}, fmt.Errorf("[refresh Manager.EnsureFresh] %w", err)
	}

	// Spotify may omit the refresh token on renewal; the previous one stays valid
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = cached.RefreshToken
	}

	if err := m.repo.Save(refreshed); err != nil {
		m.metrics.TokenRefresh(metrics.OutcomeUnavailable)
		return token.Record{}, fmt.Errorf("[refresh Manager.EnsureFresh] save refreshed token: %w", err)
	}
	m.metrics.TokenRefresh(metrics.OutcomeOK)
	log.Info().Int("expires_in", refreshed.ExpiresIn).Msg("spotify access token refreshed")
	return refreshed, nil
}

// ExchangeCode trades an authorization code for the initial token record. The existing
// cache is only replaced when the exchange succeeds.
func (m *Manager) ExchangeCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.Wrapf(errors.ErrInvalidRequest, "empty authorization code")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.redirectURI)

	m.mu.Lock()
	defer m.mu.Unlock()

	record, err := m.requestToken(ctx, form)
	if err != nil {
		return fmt.Errorf("[refresh Manager.ExchangeCode] %w", err)
	}
	if err := m.repo.Save(record); err != nil {
		return fmt.Errorf("[refresh Manager.ExchangeCode] save token: %w", err)
	}
	log.Info().Str("scope", record.Scope).Msg("spotify authorization completed")
	return nil
}

func (m *Manager) requestToken(ctx context.Context, form url.Values) (token.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return token.Record{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", m.credentials.BasicAuthHeader())

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return token.Record{}, errors.Unavailable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return token.Record{}, errors.Unavailable(fmt.Errorf("read token response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Str("grant_type", form.Get("grant_type")).Msg("spotify token endpoint rejected request")
		return token.Record{}, errors.Rejected(resp.StatusCode, body)
	}

	var record token.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return token.Record{}, errors.Malformed(fmt.Errorf("decode token response: %w", err))
	}
	if err := validateTokenResponse(record); err != nil {
		return token.Record{}, errors.Malformed(err)
	}
	if record.TokenType == "" {
		record.TokenType = "Bearer"
	}
	return record, nil
}

func validateTokenResponse(record token.Record) error {
	if record.AccessToken == "" {
		return errors.New("access_token is empty")
	}
	if record.ExpiresIn <= 0 {
		return fmt.Errorf("expires_in must be positive, got %d", record.ExpiresIn)
	}
	return nil
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
