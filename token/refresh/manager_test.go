package refresh_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/token"
	"github.com/jrsteele09/go-portfolio-server/token/refresh"
	tokenfakerepo "github.com/jrsteele09/go-portfolio-server/token/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const redirectURI = "http://localhost:8080/spotify/callback"

var testCredentials = config.Credentials{ClientID: "id", ClientSecret: "secret"}

type tokenEndpoint struct {
	server *httptest.Server
	posts  atomic.Int32
	forms  chan map[string]string
}

// setupTokenEndpoint starts a fake accounts service answering every POST with status and body
func setupTokenEndpoint(t *testing.T, status int, body string) *tokenEndpoint {
	t.Helper()
	te := &tokenEndpoint{forms: make(chan map[string]string, 32)}
	te.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		te.posts.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Basic aWQ6c2VjcmV0", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		te.forms <- form

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(te.server.Close)
	return te
}

func writeTokenFile(t *testing.T, path string, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestEnsureFresh_FreshTokenMakesNoNetworkCall(t *testing.T) {
	te := setupTokenEndpoint(t, http.StatusOK, `{}`)
	repo := tokenfakerepo.NewFakeTokenRepo()
	cached := token.Record{AccessToken: "cached", TokenType: "Bearer", ExpiresIn: 3600, RefreshToken: "r1"}

	for _, age := range []time.Duration{0, 30 * time.Minute, 3599 * time.Second} {
		repo.Seed(cached, time.Now().Add(-age))
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		record, err := manager.EnsureFresh(context.Background())
		require.NoError(t, err)
		require.Equal(t, cached, record)
	}

	require.Equal(t, int32(0), te.posts.Load())
	require.Equal(t, 0, repo.Saves())
}

func TestEnsureFresh_ExpiredFileIssuesExactlyOneRefresh(t *testing.T) {
	te := setupTokenEndpoint(t, http.StatusOK, `{"access_token":"new","token_type":"Bearer","expires_in":3600,"scope":"user-top-read"}`)
	path := filepath.Join(t.TempDir(), "spotify_auth.json")
	writeTokenFile(t, path, `{"access_token":"old","token_type":"Bearer","expires_in":3600,"refresh_token":"r1"}`, time.Now().Add(-7200*time.Second))

	manager := refresh.NewManager(token.NewFileRepo(path), testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

	record, err := manager.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), te.posts.Load())
	require.Equal(t, map[string]string{"grant_type": "refresh_token", "refresh_token": "r1"}, <-te.forms)
	require.Equal(t, "new", record.AccessToken)

	t.Run("refresh token carried forward", func(t *testing.T) {
		require.Equal(t, "r1", record.RefreshToken)

		persisted, issuedAt, err := token.NewFileRepo(path).Load()
		require.NoError(t, err)
		require.Equal(t, "r1", persisted.RefreshToken)
		require.Equal(t, "new", persisted.AccessToken)
		require.True(t, persisted.IsFresh(issuedAt, time.Now()))
	})

	t.Run("second call uses the new token", func(t *testing.T) {
		_, err := manager.EnsureFresh(context.Background())
		require.NoError(t, err)
		require.Equal(t, int32(1), te.posts.Load())
	})
}

func TestEnsureFresh_RotatedRefreshTokenReplacesOld(t *testing.T) {
	te := setupTokenEndpoint(t, http.StatusOK, `{"access_token":"new","token_type":"Bearer","expires_in":3600,"refresh_token":"r2"}`)
	repo := tokenfakerepo.NewFakeTokenRepo()
	repo.Seed(token.Record{AccessToken: "old", TokenType: "Bearer", ExpiresIn: 60, RefreshToken: "r1"}, time.Now().Add(-time.Hour))

	manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))
	record, err := manager.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "r2", record.RefreshToken)

	persisted, _, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, "r2", persisted.RefreshToken)
}

func TestEnsureFresh_Errors(t *testing.T) {
	expired := token.Record{AccessToken: "old", TokenType: "Bearer", ExpiresIn: 3600, RefreshToken: "r1"}
	issued := time.Now().Add(-2 * time.Hour)

	t.Run("no cached token", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{}`)
		manager := refresh.NewManager(tokenfakerepo.NewFakeTokenRepo(), testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrNotAuthenticated)
		require.Equal(t, int32(0), te.posts.Load())
	})

	t.Run("expired without refresh token", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{}`)
		repo := tokenfakerepo.NewFakeTokenRepo()
		repo.Seed(token.Record{AccessToken: "old", TokenType: "Bearer", ExpiresIn: 3600}, issued)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrNotAuthenticated)
		require.Equal(t, int32(0), te.posts.Load())
	})

	t.Run("rejected keeps body", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)
		repo := tokenfakerepo.NewFakeTokenRepo()
		repo.Seed(expired, issued)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrUpstreamRejected)
		var rejected *errors.RejectedError
		require.True(t, errors.As(err, &rejected))
		require.Equal(t, http.StatusBadRequest, rejected.StatusCode)
		require.Equal(t, `{"error":"invalid_grant"}`, rejected.Body)
		require.Equal(t, 0, repo.Saves())
	})

	t.Run("malformed body", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `<html>`)
		repo := tokenfakerepo.NewFakeTokenRepo()
		repo.Seed(expired, issued)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrMalformedResponse)
		require.Equal(t, 0, repo.Saves())
	})

	t.Run("missing access token", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{"token_type":"Bearer","expires_in":3600}`)
		repo := tokenfakerepo.NewFakeTokenRepo()
		repo.Seed(expired, issued)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrMalformedResponse)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{}`)
		tokenURL := te.server.URL
		te.server.Close()

		repo := tokenfakerepo.NewFakeTokenRepo()
		repo.Seed(expired, issued)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(tokenURL))

		_, err := manager.EnsureFresh(context.Background())
		require.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
		require.Equal(t, 0, repo.Saves())
	})
}

func TestEnsureFresh_ConcurrentCallersRefreshOnce(t *testing.T) {
	te := setupTokenEndpoint(t, http.StatusOK, `{"access_token":"new","token_type":"Bearer","expires_in":3600}`)
	repo := tokenfakerepo.NewFakeTokenRepo()
	repo.Seed(token.Record{AccessToken: "old", TokenType: "Bearer", ExpiresIn: 3600, RefreshToken: "r1"}, time.Now().Add(-3601*time.Second))
	manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

	const callers = 8
	records := make([]token.Record, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			records[i], errs[i] = manager.EnsureFresh(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, "new", records[i].AccessToken)
	}

	require.Equal(t, int32(1), te.posts.Load())
	require.Equal(t, 1, repo.Saves())
}

func TestEnsureFresh_UsesNowTimeFunc(t *testing.T) {
	te := setupTokenEndpoint(t, http.StatusOK, `{"access_token":"new","token_type":"Bearer","expires_in":3600}`)
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := tokenfakerepo.NewFakeTokenRepo()
	repo.Seed(token.Record{AccessToken: "old", TokenType: "Bearer", ExpiresIn: 3600, RefreshToken: "r1"}, issued)
	manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

	original := refresh.NowTimeFunc
	t.Cleanup(func() { refresh.NowTimeFunc = original })

	refresh.NowTimeFunc = func() time.Time { return issued.Add(3599 * time.Second) }
	_, err := manager.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(0), te.posts.Load())

	// expiry itself counts as expired
	refresh.NowTimeFunc = func() time.Time { return issued.Add(3600 * time.Second) }
	_, err = manager.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), te.posts.Load())
}

func TestExchangeCode(t *testing.T) {
	t.Run("success writes record", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{"access_token":"a","token_type":"Bearer","expires_in":3600,"refresh_token":"r","scope":"user-top-read"}`)
		path := filepath.Join(t.TempDir(), "spotify_auth.json")
		repo := token.NewFileRepo(path)
		manager := refresh.NewManager(repo, testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		require.NoError(t, manager.ExchangeCode(context.Background(), "the-code"))
		require.Equal(t, map[string]string{
			"grant_type":   "authorization_code",
			"code":         "the-code",
			"redirect_uri": redirectURI,
		}, <-te.forms)

		record, _, err := repo.Load()
		require.NoError(t, err)
		require.Equal(t, token.Record{AccessToken: "a", TokenType: "Bearer", Scope: "user-top-read", ExpiresIn: 3600, RefreshToken: "r"}, record)
	})

	t.Run("rejected leaves cache untouched", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid authorization code"}`)
		path := filepath.Join(t.TempDir(), "spotify_auth.json")
		original := `{"access_token":"keep","token_type":"Bearer","expires_in":3600,"refresh_token":"keep-r"}`
		mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
		writeTokenFile(t, path, original, mtime)

		manager := refresh.NewManager(token.NewFileRepo(path), testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))
		err := manager.ExchangeCode(context.Background(), "bad-code")
		require.ErrorIs(t, err, errors.ErrUpstreamRejected)
		require.Equal(t, int32(1), te.posts.Load())

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		require.Equal(t, original, string(data))
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		require.True(t, info.ModTime().Equal(mtime))
	})

	t.Run("empty code", func(t *testing.T) {
		te := setupTokenEndpoint(t, http.StatusOK, `{}`)
		manager := refresh.NewManager(tokenfakerepo.NewFakeTokenRepo(), testCredentials, redirectURI, refresh.WithTokenURL(te.server.URL))

		err := manager.ExchangeCode(context.Background(), " ")
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
		require.Equal(t, int32(0), te.posts.Load())
	})
}
