package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Pages
	RouteIndex      = "/{$}"
	RouteEducation  = "/education"
	RouteExperience = "/experience"
	RouteProjects   = "/projects"

	// League of Legends
	RouteLeague             = "/league"
	RouteLeagueMatchHistory = "/league/match-history"

	// Spotify page, owner login and HTML fragments
	RouteSpotify                 = "/spotify"
	RouteSpotifyAuth             = "/spotify/auth"
	RouteSpotifyCallback         = "/spotify/callback"
	RouteSpotifyCurrentlyPlaying = "/spotify/currently-playing"
	RouteSpotifyTopTracks        = "/spotify/top/tracks/{term}"
	RouteSpotifyTopArtists       = "/spotify/top/artists/{term}"
	RouteSpotifyRecent           = "/spotify/recent"

	// Operations
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStatic = "/static/{file...}"
)
