package projects_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/projects"
	"github.com/stretchr/testify/require"
)

const deployScript = "#!/bin/bash\ngit pull\ncargo build --release\n"

func setupTestFixture(t *testing.T, status int, body string) *projects.Fetcher {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	fetcher, err := projects.NewFetcher(server.URL+"/deploy.sh", nil, nil)
	require.NoError(t, err)
	return fetcher
}

func TestFetch(t *testing.T) {
	fetcher := setupTestFixture(t, http.StatusOK, deployScript)

	text, err := fetcher.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, deployScript, text)
	require.Equal(t, deployScript, fetcher.Content(context.Background()))
}

func TestFetch_NotFound(t *testing.T) {
	fetcher := setupTestFixture(t, http.StatusNotFound, "404: Not Found")

	_, err := fetcher.Fetch(context.Background())
	require.ErrorIs(t, err, errors.ErrUpstreamRejected)

	content := fetcher.Content(context.Background())
	require.True(t, strings.HasPrefix(content, "Failed to load GitHub file: "), content)
	require.Contains(t, content, "404: Not Found")
}

func TestFetch_CancelledContext(t *testing.T) {
	fetcher := setupTestFixture(t, http.StatusOK, deployScript)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx)
	require.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
	require.True(t, strings.HasPrefix(fetcher.Content(ctx), "Request failed: "))
}
