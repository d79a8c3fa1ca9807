package server_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/server"
	"github.com/jrsteele09/go-portfolio-server/server/authflowrepo"
	"github.com/stretchr/testify/require"
)

func TestLoginStates(t *testing.T) {
	t.Run("issued state is accepted once", func(t *testing.T) {
		repo := authflowrepo.NewInMemoryRepo()
		states, err := server.NewLoginStates("secret", time.Minute, repo)
		require.NoError(t, err)

		state, err := states.Issue("/spotify")
		require.NoError(t, err)
		require.Equal(t, 1, repo.Len())

		loginState, err := states.Consume(state)
		require.NoError(t, err)
		require.Equal(t, "/spotify", loginState.ReturnURL)

		_, err = states.Consume(state)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("expired state", func(t *testing.T) {
		states, err := server.NewLoginStates("secret", -time.Minute, authflowrepo.NewInMemoryRepo())
		require.NoError(t, err)

		state, err := states.Issue("/spotify")
		require.NoError(t, err)
		_, err = states.Consume(state)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("tampered state", func(t *testing.T) {
		states, err := server.NewLoginStates("secret", time.Minute, authflowrepo.NewInMemoryRepo())
		require.NoError(t, err)

		state, err := states.Issue("/spotify")
		require.NoError(t, err)
		tampered := state[:len(state)-4] + "AAAA"
		if tampered == state {
			tampered = state[:len(state)-4] + "BBBB"
		}
		_, err = states.Consume(tampered)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("state signed with another secret", func(t *testing.T) {
		repo := authflowrepo.NewInMemoryRepo()
		other, err := server.NewLoginStates("other-secret", time.Minute, repo)
		require.NoError(t, err)
		states, err := server.NewLoginStates("secret", time.Minute, repo)
		require.NoError(t, err)

		state, err := other.Issue("/spotify")
		require.NoError(t, err)
		_, err = states.Consume(state)
		require.ErrorIs(t, err, errors.ErrInvalidRequest)
	})

	t.Run("random secret when none configured", func(t *testing.T) {
		first, err := server.NewLoginStates("", time.Minute, authflowrepo.NewInMemoryRepo())
		require.NoError(t, err)
		second, err := server.NewLoginStates("", time.Minute, authflowrepo.NewInMemoryRepo())
		require.NoError(t, err)

		state, err := first.Issue("/spotify")
		require.NoError(t, err)
		_, err = second.Consume(state)
		require.Error(t, err)
	})
}
