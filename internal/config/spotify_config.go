package config

import "path/filepath"

type SpotifyConfig interface {
	GetSpotifyConfigFile() string
	GetSpotifyTokenFile() string
	GetSpotifyRedirectURI() string
	GetSpotifyScopes() []string
}

type Spotify struct{}

var _ SpotifyConfig = Spotify{}

// GetSpotifyConfigFile is the fallback credential file used when the env vars are not set
func (Spotify) GetSpotifyConfigFile() string {
	return GetEnv("SPOTIFY_CONFIG_FILE", "config.json")
}

func (Spotify) GetSpotifyTokenFile() string {
	return GetEnv("SPOTIFY_TOKEN_FILE", filepath.Join(EnvVars{}.GetDataFolder(), "spotify_auth.json"))
}

func (Spotify) GetSpotifyRedirectURI() string {
	return GetEnv("SPOTIFY_REDIRECT_URI", EnvVars{}.GetBaseURL()+"/spotify/callback")
}

func (Spotify) GetSpotifyScopes() []string {
	return []string{
		"user-read-currently-playing",
		"user-top-read",
		"user-read-recently-played",
	}
}
