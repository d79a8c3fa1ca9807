package authflowrepo

import "time"

// LoginState is an outstanding Spotify consent redirect, keyed by the id carried in the OAuth state
type LoginState struct {
	ID        string
	ReturnURL string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repo interface {
	Upsert(state *LoginState) error
	// Take returns the state and removes it, so each state is accepted at most once
	Take(id string, now time.Time) (*LoginState, error)
}
