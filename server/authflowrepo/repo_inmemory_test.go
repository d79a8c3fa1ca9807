package authflowrepo_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-portfolio-server/server/authflowrepo"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo_TakeIsSingleUse(t *testing.T) {
	repo := authflowrepo.NewInMemoryRepo()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	state := &authflowrepo.LoginState{ID: "jti-1", ReturnURL: "/spotify", CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute)}
	require.NoError(t, repo.Upsert(state))
	state.ReturnURL = "/changed"

	got, err := repo.Take("jti-1", now.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, "/spotify", got.ReturnURL)

	_, err = repo.Take("jti-1", now.Add(time.Minute))
	require.ErrorIs(t, err, authflowrepo.ErrStateNotFound)
}

func TestInMemoryRepo_Expiry(t *testing.T) {
	repo := authflowrepo.NewInMemoryRepo()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Upsert(&authflowrepo.LoginState{ID: "old", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}))

	t.Run("expired state is rejected and removed", func(t *testing.T) {
		_, err := repo.Take("old", now.Add(time.Minute))
		require.ErrorIs(t, err, authflowrepo.ErrStateExpired)
		require.Equal(t, 0, repo.Len())
	})

	t.Run("upsert sweeps expired states", func(t *testing.T) {
		require.NoError(t, repo.Upsert(&authflowrepo.LoginState{ID: "a", CreatedAt: now, ExpiresAt: now.Add(time.Minute)}))
		later := now.Add(time.Hour)
		require.NoError(t, repo.Upsert(&authflowrepo.LoginState{ID: "b", CreatedAt: later, ExpiresAt: later.Add(time.Minute)}))
		require.Equal(t, 1, repo.Len())
	})
}

func TestInMemoryRepo_Validation(t *testing.T) {
	repo := authflowrepo.NewInMemoryRepo()
	require.Error(t, repo.Upsert(nil))
	require.Error(t, repo.Upsert(&authflowrepo.LoginState{}))
	_, err := repo.Take("", time.Now())
	require.Error(t, err)
}
