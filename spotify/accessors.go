package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const (
	currentlyPlayingPath = "/v1/me/player/currently-playing"
	topPath              = "/v1/me/top/"
	recentlyPlayedPath   = "/v1/me/player/recently-played"

	recentlyPlayedLimit = 20
)

// CurrentTrack returns what is playing now. A 204 from Spotify is NothingPlaying, not an error.
func (c *Client) CurrentTrack(ctx context.Context) (NowPlaying, error) {
	var resp currentlyPlayingResponse
	noContent, err := c.getJSON(ctx, currentlyPlayingPath, nil, &resp, true)
	if err != nil {
		return NowPlaying{}, fmt.Errorf("[spotify CurrentTrack] %w", err)
	}
	if noContent {
		return NothingPlaying(), nil
	}
	return projectNowPlaying(resp), nil
}

func (c *Client) TopTracks(ctx context.Context, q TopQuery) ([]TrackSummary, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	var resp topTracksResponse
	if _, err := c.getJSON(ctx, topPath+"tracks", q.values(), &resp, false); err != nil {
		return nil, fmt.Errorf("[spotify TopTracks] %w", err)
	}
	tracks := make([]TrackSummary, 0, len(resp.Items))
	for _, t := range resp.Items {
		tracks = append(tracks, projectTopTrack(t))
	}
	return tracks, nil
}

func (c *Client) TopArtists(ctx context.Context, q TopQuery) ([]ArtistSummary, error) {
	q, err := q.Normalize()
	if err != nil {
		return nil, err
	}
	var resp topArtistsResponse
	if _, err := c.getJSON(ctx, topPath+"artists", q.values(), &resp, false); err != nil {
		return nil, fmt.Errorf("[spotify TopArtists] %w", err)
	}
	artists := make([]ArtistSummary, 0, len(resp.Items))
	for _, a := range resp.Items {
		artists = append(artists, projectArtist(a))
	}
	return artists, nil
}

// RecentlyPlayed returns the most recent plays, newest first
func (c *Client) RecentlyPlayed(ctx context.Context) ([]TrackSummary, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(recentlyPlayedLimit))

	var resp recentlyPlayedResponse
	if _, err := c.getJSON(ctx, recentlyPlayedPath, query, &resp, false); err != nil {
		return nil, fmt.Errorf("[spotify RecentlyPlayed] %w", err)
	}
	tracks := make([]TrackSummary, 0, len(resp.Items))
	for _, h := range resp.Items {
		tracks = append(tracks, projectRecentTrack(h))
	}
	return tracks, nil
}
