package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	clientIDEnvVar     = "SPOTIFY_CLIENT_ID"
	clientSecretEnvVar = "SPOTIFY_CLIENT_SECRET"
)

// Credentials identify this site to the Spotify accounts service.
// Loaded once at startup and never mutated.
type Credentials struct {
	ClientID     string `json:"client_id" yaml:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" yaml:"client_secret" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadCredentials reads the client id/secret from the environment, falling back to the
// given config file (.yaml/.yml as YAML, anything else as JSON) when either is missing.
func LoadCredentials(path string) (Credentials, error) {
	creds := Credentials{
		ClientID:     GetEnv(clientIDEnvVar, ""),
		ClientSecret: GetEnv(clientSecretEnvVar, ""),
	}
	if creds.ClientID != "" && creds.ClientSecret != "" {
		return creds, nil
	}

	fileCreds, err := readCredentialsFile(path)
	if err != nil {
		return Credentials{}, err
	}
	if creds.ClientID == "" {
		creds.ClientID = fileCreds.ClientID
	}
	if creds.ClientSecret == "" {
		creds.ClientSecret = fileCreds.ClientSecret
	}

	if err := validate.Struct(creds); err != nil {
		return Credentials{}, fmt.Errorf("[config LoadCredentials] incomplete spotify credentials in %s: %w", path, err)
	}
	return creds, nil
}

func readCredentialsFile(path string) (Credentials, error) {
	var creds Credentials
	data, err := os.ReadFile(path)
	if err != nil {
		return creds, fmt.Errorf("[config LoadCredentials] %s/%s not set and %w", clientIDEnvVar, clientSecretEnvVar, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &creds)
	default:
		err = json.Unmarshal(data, &creds)
	}
	if err != nil {
		return creds, fmt.Errorf("[config LoadCredentials] parse %s: %w", path, err)
	}
	return creds, nil
}

// BasicAuthHeader returns the value of an HTTP Basic Authorization header for these credentials
func (c Credentials) BasicAuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.ClientID+":"+c.ClientSecret))
}
