package server

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/jrsteele09/go-portfolio-server/spotify"
	"github.com/rs/zerolog/log"
)

const (
	msgTermInvalid      = "Term is not valid."
	msgTopTracksFailed  = "Error - could not fetch top tracks"
	msgTopArtistsFailed = "Error - could not fetch top artists"
	msgRecentFailed     = "Error - could not fetch recently played"
)

type spotifyHandlers struct {
	page             http.HandlerFunc
	currentlyPlaying http.HandlerFunc
	topTracks        http.HandlerFunc
	topArtists       http.HandlerFunc
	recent           http.HandlerFunc
}

func (s *Server) spotifyHandlers() (spotifyHandlers, error) {
	var h spotifyHandlers

	page, err := ParsePage("spotify.html")
	if err != nil {
		return h, err
	}
	fragments := map[string]*template.Template{}
	for _, name := range []string{"audio-player.html", "top-tracks.html", "top-artists.html", "recently-played.html"} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return h, err
		}
		fragments[name] = tmpl
	}

	h.page = func(w http.ResponseWriter, r *http.Request) {
		render(w, http.StatusOK, page, s.pageData("Spotify", map[string]any{
			"Terms": []string{spotify.TermShort, spotify.TermMedium, spotify.TermLong},
		}))
	}
	h.currentlyPlaying = s.CurrentlyPlayingHandler(fragments["audio-player.html"])
	h.topTracks = s.TopTracksHandler(fragments["top-tracks.html"])
	h.topArtists = s.TopArtistsHandler(fragments["top-artists.html"])
	h.recent = s.RecentlyPlayedHandler(fragments["recently-played.html"])
	return h, nil
}

// SpotifyAuthHandler sends the site owner to Spotify's consent page
func (s *Server) SpotifyAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.spotifyAuth == nil {
			http.Error(w, "Spotify credentials are not configured", http.StatusServiceUnavailable)
			return
		}
		state, err := s.loginStates.Issue(RouteSpotify)
		if err != nil {
			log.Err(err).Msg("failed to issue spotify login state")
			http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, s.spotifyAuth.AuthCodeURL(state), http.StatusFound)
	}
}

// SpotifyCallbackHandler completes the authorization-code flow and stores the first token
func (s *Server) SpotifyCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errorParam := query.Get("error"); errorParam != "" {
			http.Error(w, "Authorization failed: "+errorParam, http.StatusBadRequest)
			return
		}

		code := query.Get("code")
		state := query.Get("state")
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		loginState, err := s.loginStates.Consume(state)
		if err != nil {
			log.Warn().Err(err).Msg("rejected spotify callback")
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		if s.tokens == nil {
			http.Error(w, "Spotify credentials are not configured", http.StatusServiceUnavailable)
			return
		}
		if err := s.tokens.ExchangeCode(r.Context(), code); err != nil {
			reportUpstreamError(r, err, "spotify code exchange failed")
			status := http.StatusBadGateway
			if errors.Is(err, errors.ErrUpstreamRejected) || errors.Is(err, errors.ErrInvalidRequest) {
				status = http.StatusBadRequest
			}
			http.Error(w, "Token exchange failed", status)
			return
		}

		log.Info().Msg("spotify account connected")
		returnURL := loginState.ReturnURL
		if returnURL == "" {
			returnURL = RouteSpotify
		}
		http.Redirect(w, r, returnURL, http.StatusSeeOther)
	}
}

// CurrentlyPlayingHandler renders the audio-player widget; every failure renders "Nothing playing..."
func (s *Server) CurrentlyPlayingHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nowPlaying := spotify.NothingPlaying()
		if s.spotify != nil {
			np, err := s.spotify.CurrentTrack(r.Context())
			if err != nil {
				reportUpstreamError(r, err, "fetching current track failed")
			} else {
				nowPlaying = np
			}
		}
		render(w, http.StatusOK, tmpl, nowPlaying)
	}
}

func (s *Server) TopTracksHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := topQueryFromRequest(w, r)
		if !ok {
			return
		}
		tracks := []spotify.TrackSummary{}
		if s.spotify != nil {
			var err error
			if tracks, err = s.spotify.TopTracks(r.Context(), q); err != nil {
				reportUpstreamError(r, err, "could not fetch top tracks")
				writeFragment(w, http.StatusOK, msgTopTracksFailed)
				return
			}
		}
		render(w, http.StatusOK, tmpl, map[string]any{
			"Term":      q.Term,
			"TermLabel": spotify.TermLabel(q.Term),
			"Tracks":    tracks,
		})
	}
}

func (s *Server) TopArtistsHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := topQueryFromRequest(w, r)
		if !ok {
			return
		}
		artists := []spotify.ArtistSummary{}
		if s.spotify != nil {
			var err error
			if artists, err = s.spotify.TopArtists(r.Context(), q); err != nil {
				reportUpstreamError(r, err, "could not fetch top artists")
				writeFragment(w, http.StatusOK, msgTopArtistsFailed)
				return
			}
		}
		render(w, http.StatusOK, tmpl, map[string]any{
			"Term":      q.Term,
			"TermLabel": spotify.TermLabel(q.Term),
			"Artists":   artists,
		})
	}
}

func (s *Server) RecentlyPlayedHandler(tmpl *template.Template) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks := []spotify.TrackSummary{}
		if s.spotify != nil {
			var err error
			if tracks, err = s.spotify.RecentlyPlayed(r.Context()); err != nil {
				reportUpstreamError(r, err, "could not fetch recently played")
				writeFragment(w, http.StatusOK, msgRecentFailed)
				return
			}
		}
		render(w, http.StatusOK, tmpl, map[string]any{"Tracks": tracks})
	}
}

// topQueryFromRequest reads {term}, limit and offset, answering 400 itself when they are invalid
func topQueryFromRequest(w http.ResponseWriter, r *http.Request) (spotify.TopQuery, bool) {
	q := spotify.TopQuery{Term: r.PathValue("term")}
	for name, dst := range map[string]*int{"limit": &q.Limit, "offset": &q.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeFragment(w, http.StatusBadRequest, "Invalid "+name+".")
			return q, false
		}
		*dst = v
	}

	normalized, err := q.Normalize()
	if err != nil {
		msg := "Invalid query."
		switch {
		case normalized.Term != spotify.TermShort && normalized.Term != spotify.TermMedium && normalized.Term != spotify.TermLong:
			msg = msgTermInvalid
		case normalized.Limit < 1 || normalized.Limit > 50:
			msg = "Limit must be between 1 and 50."
		}
		writeFragment(w, http.StatusBadRequest, msg)
		return q, false
	}
	return normalized, true
}
