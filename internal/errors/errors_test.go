package errors_test

import (
	stderrors "errors"
	"fmt"
	"net"
	"testing"

	apperrors "github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestRejectedError(t *testing.T) {
	err := fmt.Errorf("top tracks: %w", apperrors.Rejected(401, []byte(`{"error":"expired"}`)))

	require.True(t, apperrors.Is(err, apperrors.ErrUpstreamRejected))
	require.False(t, apperrors.Is(err, apperrors.ErrUpstreamUnavailable))

	var rejected *apperrors.RejectedError
	require.True(t, apperrors.As(err, &rejected))
	require.Equal(t, 401, rejected.StatusCode)
	require.Equal(t, `{"error":"expired"}`, rejected.Body)
}

func TestUnavailableKeepsCause(t *testing.T) {
	cause := &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}
	err := apperrors.Unavailable(cause)

	require.True(t, apperrors.Is(err, apperrors.ErrUpstreamUnavailable))
	var opErr *net.OpError
	require.True(t, apperrors.As(err, &opErr))
	require.Nil(t, apperrors.Unavailable(nil))
}

func TestWrapf(t *testing.T) {
	require.Nil(t, apperrors.Wrapf(nil, "ignored"))

	err := apperrors.Wrapf(apperrors.ErrMalformedResponse, "decode %s", "ranked")
	require.EqualError(t, err, "decode ranked: malformed upstream response")
	require.True(t, apperrors.Is(err, apperrors.ErrMalformedResponse))
}

func TestNew(t *testing.T) {
	err := apperrors.New("no ranked data")
	require.EqualError(t, err, "no ranked data")
	require.False(t, apperrors.Is(err, apperrors.ErrNotFound))
}
