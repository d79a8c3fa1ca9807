package server

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/server/authflowrepo"
)

const (
	stateIssuer   = "portfolio"
	stateAudience = "spotify-login"
)

// LoginStates issues and checks the OAuth state parameter for the Spotify consent redirect.
// A state is an HS256 JWT whose jti must also be outstanding in the repo, so it is
// accepted once and only before it expires.
type LoginStates struct {
	secret []byte
	ttl    time.Duration
	repo   authflowrepo.Repo
	now    func() time.Time
}

// NewLoginStates creates the state issuer. An empty secret is replaced by a random one,
// which invalidates outstanding states on restart.
func NewLoginStates(secret string, ttl time.Duration, repo authflowrepo.Repo) (*LoginStates, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("[server NewLoginStates] generate state secret: %w", err)
		}
	}
	return &LoginStates{secret: key, ttl: ttl, repo: repo, now: time.Now}, nil
}

func (ls *LoginStates) Issue(returnURL string) (string, error) {
	now := ls.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    stateIssuer,
		Audience:  jwt.ClaimStrings{stateAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ls.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ls.secret)
	if err != nil {
		return "", fmt.Errorf("[server LoginStates.Issue] sign state: %w", err)
	}

	if err := ls.repo.Upsert(&authflowrepo.LoginState{
		ID:        claims.ID,
		ReturnURL: returnURL,
		CreatedAt: now,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		return "", fmt.Errorf("[server LoginStates.Issue] store state: %w", err)
	}
	return signed, nil
}

// Consume verifies the state and marks it used, returning the stored login state
func (ls *LoginStates) Consume(state string) (*authflowrepo.LoginState, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ls.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithAudience(stateAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ls.now),
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "invalid state: %v", err)
	}

	loginState, err := ls.repo.Take(claims.ID, ls.now())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "state %s: %v", claims.ID, err)
	}
	return loginState, nil
}
