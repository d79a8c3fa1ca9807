package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	folderEnvVar   = "DATA_FOLDER"
	baseURLVar     = "BASE_URL"
	logLevelEnvVar = "LOG_LEVEL"
)

const defaultDeployScriptURL = "https://raw.githubusercontent.com/usmaanwahab/usmaanwahab-co-uk/refs/heads/main/deploy.sh"

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portfolio")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelEnvVar, "")
}

func (EnvVars) GetSentryDSN() string {
	return GetEnv("SENTRY_DSN", "")
}

// GetRedisURL returns the redis connection url used for the upstream response cache.
// Empty means the in-memory cache is used.
func (EnvVars) GetRedisURL() string {
	return GetEnv("REDIS_URL", "")
}

func (EnvVars) GetProjectsDeployURL() string {
	return GetEnv("PROJECTS_DEPLOY_URL", defaultDeployScriptURL)
}

func (EnvVars) GetUpstreamTimeout() time.Duration {
	return GetEnvSeconds("UPSTREAM_TIMEOUT_SECONDS", 10)
}

// GetBaseURL returns the public base URL of the site (e.g., "https://example.co.uk")
// This is used to build the Spotify redirect URI
func (EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(GetEnv(baseURLVar, "http://localhost:8080"), "/")
}

func GetEnv(envVar, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(envVar))
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvInt(envVar string, defaultValue int) int {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func GetEnvSeconds(envVar string, defaultValue int) time.Duration {
	return time.Duration(GetEnvInt(envVar, defaultValue)) * time.Second
}
