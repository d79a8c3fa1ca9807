package config

import "time"

type SecurityConfig interface {
	GetAdminUsername() string
	GetAdminPasswordHash() string
	GetStateSecret() string
	GetLoginStateTTL() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetAdminUsername() string {
	return GetEnv("ADMIN_USERNAME", "admin")
}

// GetAdminPasswordHash is a bcrypt hash guarding the Spotify login route
func (Security) GetAdminPasswordHash() string {
	return GetEnv("ADMIN_PASSWORD_HASH", "")
}

// GetStateSecret signs the OAuth state parameter. Empty means a random per-process secret.
func (Security) GetStateSecret() string {
	return GetEnv("STATE_SECRET", "")
}

func (Security) GetLoginStateTTL() time.Duration {
	return 10 * time.Minute
}
