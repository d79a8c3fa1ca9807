package config

import "time"

type Config interface {
	EnvConfig
	SpotifyConfig
	RiotConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
	GetLogLevel() string
	GetSentryDSN() string
	GetRedisURL() string
	GetProjectsDeployURL() string
	GetUpstreamTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Spotify
	Riot
	Security
}

func New() Config {
	return mainConfig{}
}
