package server

import (
	"context"

	"github.com/jrsteele09/go-portfolio-server/riot"
	"github.com/jrsteele09/go-portfolio-server/spotify"
)

// SpotifyAPI is satisfied by *spotify.Client
type SpotifyAPI interface {
	CurrentTrack(ctx context.Context) (spotify.NowPlaying, error)
	TopTracks(ctx context.Context, q spotify.TopQuery) ([]spotify.TrackSummary, error)
	TopArtists(ctx context.Context, q spotify.TopQuery) ([]spotify.ArtistSummary, error)
	RecentlyPlayed(ctx context.Context) ([]spotify.TrackSummary, error)
}

// CodeExchanger is satisfied by *refresh.Manager
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) error
}

// LeagueAPI is satisfied by *riot.Client
type LeagueAPI interface {
	AccountByRiotID(ctx context.Context, gameName, tagLine string) (riot.Account, error)
	RankedEntries(ctx context.Context, puuid string) ([]riot.RankedEntry, error)
	MatchHistory(ctx context.Context, puuid string, count int) ([]riot.MatchSummary, error)
}

// DeployScript is satisfied by *projects.Fetcher
type DeployScript interface {
	Content(ctx context.Context) string
}

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error
