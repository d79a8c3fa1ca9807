package server

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const adminRealm = `Basic realm="portfolio admin", charset="UTF-8"`

// AdminGuardMiddleware protects routes that only the site owner may use with HTTP basic auth
// checked against a bcrypt hash. Without a configured hash the routes are open in DEV and
// closed everywhere else.
func (s *Server) AdminGuardMiddleware(next http.HandlerFunc) http.HandlerFunc {
	username := s.config.GetAdminUsername()
	hash := []byte(s.config.GetAdminPasswordHash())

	if len(hash) == 0 {
		if s.env == "DEV" {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			log.Warn().Str("path", r.URL.Path).Msg("admin route disabled: ADMIN_PASSWORD_HASH not set")
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		userMatches := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		if !ok || !userMatches || bcrypt.CompareHashAndPassword(hash, []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", adminRealm)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
