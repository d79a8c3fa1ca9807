package spotify

import (
	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/token/refresh"
	"golang.org/x/oauth2"
)

// Endpoint is the Spotify accounts service
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.spotify.com/authorize",
	TokenURL:  refresh.SpotifyTokenURL,
	AuthStyle: oauth2.AuthStyleInHeader,
}

// AuthConfig describes this site as an OAuth client of Spotify. Only the consent URL is built
// from it; the code exchange and refreshes go through refresh.Manager, which owns the token file.
func AuthConfig(creds config.Credentials, redirectURI string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     Endpoint,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
	}
}
