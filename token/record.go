package token

import (
	"time"

	"golang.org/x/oauth2"
)

// Record is the Spotify token response as persisted in the token file.
// Its issue time is not a field: it is the file's modification time.
type Record struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Expiry returns the instant the access token stops being valid
func (r Record) Expiry(issuedAt time.Time) time.Time {
	return issuedAt.Add(time.Duration(r.ExpiresIn) * time.Second)
}

// IsFresh reports whether now is strictly before the expiry
func (r Record) IsFresh(issuedAt, now time.Time) bool {
	return now.Before(r.Expiry(issuedAt))
}

// OAuth2Token converts the record for use with golang.org/x/oauth2 helpers
func (r Record) OAuth2Token(issuedAt time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		TokenType:    r.TokenType,
		RefreshToken: r.RefreshToken,
		Expiry:       r.Expiry(issuedAt),
	}
}
