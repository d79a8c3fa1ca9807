package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/jrsteele09/go-portfolio-server/server/authflowrepo"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Dependencies are the upstream integrations the pages render from.
// A nil Spotify or SpotifyAuth disables the Spotify routes' upstream calls; they render fallbacks.
type Dependencies struct {
	Spotify      SpotifyAPI
	SpotifyAuth  *oauth2.Config
	Tokens       CodeExchanger
	League       LeagueAPI
	Projects     DeployScript
	Metrics      *metrics.Metrics
	AuthState    authflowrepo.Repo
	HealthChecks map[string]HealthCheck
}

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	spotify     SpotifyAPI
	spotifyAuth *oauth2.Config
	tokens      CodeExchanger
	league      LeagueAPI
	projects    DeployScript
	metrics     *metrics.Metrics
	loginStates *LoginStates
	health      map[string]HealthCheck
}

func New(cfg config.Config, deps Dependencies) (*Server, error) {
	if deps.AuthState == nil {
		deps.AuthState = authflowrepo.NewInMemoryRepo()
	}
	loginStates, err := NewLoginStates(cfg.GetStateSecret(), cfg.GetLoginStateTTL(), deps.AuthState)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create login state issuer: %w", err)
	}

	s := &Server{
		env:         cfg.GetEnv(),
		mux:         http.NewServeMux(),
		config:      cfg,
		spotify:     deps.Spotify,
		spotifyAuth: deps.SpotifyAuth,
		tokens:      deps.Tokens,
		league:      deps.League,
		projects:    deps.Projects,
		metrics:     deps.Metrics,
		loginStates: loginStates,
		health:      deps.HealthChecks,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Debug().Msgf("[%-19s] %s", colouredMethod(method), path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
