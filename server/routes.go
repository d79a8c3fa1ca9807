package server

import (
	"net/http"
)

func (s *Server) initRoutes() error {
	pages, err := s.pageHandlers()
	if err != nil {
		return err
	}
	spotifyHandlers, err := s.spotifyHandlers()
	if err != nil {
		return err
	}
	leagueHandlers, err := s.leagueHandlers()
	if err != nil {
		return err
	}

	// PAGES
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(pages.index, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteEducation, ChainMiddleware(pages.education, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteExperience, ChainMiddleware(pages.experience, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteProjects, ChainMiddleware(pages.projects, s.HTMLMiddleWare()...))

	// LEAGUE
	s.RegisterRouteHandler("GET "+RouteLeague, ChainMiddleware(leagueHandlers.ranked, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLeagueMatchHistory, ChainMiddleware(leagueHandlers.matchHistory, s.HTMLMiddleWare()...))

	// SPOTIFY
	s.RegisterRouteHandler("GET "+RouteSpotify, ChainMiddleware(spotifyHandlers.page, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSpotifyAuth, ChainMiddleware(s.SpotifyAuthHandler(), s.HTMLMiddleWare(s.AdminGuardMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteSpotifyCallback, ChainMiddleware(s.SpotifyCallbackHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSpotifyCurrentlyPlaying, ChainMiddleware(spotifyHandlers.currentlyPlaying, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSpotifyTopTracks, ChainMiddleware(spotifyHandlers.topTracks, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSpotifyTopArtists, ChainMiddleware(spotifyHandlers.topArtists, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSpotifyRecent, ChainMiddleware(spotifyHandlers.recent, s.HTMLMiddleWare()...))

	// OPERATIONS
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.RecoverMiddleware))
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())

	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
	return nil
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := r.PathValue("file")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			logError(r.Method, r.URL.Path, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
