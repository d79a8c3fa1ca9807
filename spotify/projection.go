package spotify

import (
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/utils"
)

// Field mapping from upstream JSON to the values templates render. Every projection field
// has exactly one source path and one default used when that path is absent:
//
//	NowPlaying.TrackName     item.name                                          "Nothing playing..."
//	NowPlaying.ProgressMS    progress_ms                                        -1
//	NowPlaying.DurationMS    item.duration_ms                                   -1
//	NowPlaying.ImageURL      item.album.images[0].url                           "/static/pause.jpg"
//	NowPlaying.ArtistName    item.artists[0].name, else item.album.artists[0]   ""
//	NowPlaying.IsPlaying     is_playing                                         false
//	TrackSummary.Name        name                                               ""
//	TrackSummary.Artist      artists[0].name                                    ""
//	TrackSummary.ImageURL    top: album.images[0].url                           ""
//	                         recent: album.images[2].url, else last image       ""
//	ArtistSummary.Name       name                                               ""
//	ArtistSummary.ImageURL   images[0].url                                      ""
//	ArtistSummary.Genres     genres                                             empty
const (
	DefaultTrackName  = "Nothing playing..."
	DefaultProgressMS = -1
	DefaultDurationMS = -1
	DefaultImageURL   = "/static/pause.jpg"
	DefaultArtistName = ""
)

// recent plays render as small thumbnails; Spotify lists images largest first
const recentImageIndex = 2

// NowPlaying is what the audio-player widget shows
type NowPlaying struct {
	TrackName  string
	ArtistName string
	ImageURL   string
	ProgressMS int
	DurationMS int
	IsPlaying  bool
}

// NothingPlaying is the value for a 204 from the player endpoint
func NothingPlaying() NowPlaying {
	return NowPlaying{
		TrackName:  DefaultTrackName,
		ArtistName: DefaultArtistName,
		ImageURL:   DefaultImageURL,
		ProgressMS: DefaultProgressMS,
		DurationMS: DefaultDurationMS,
	}
}

// ProgressPercent is 0 when either duration or progress is unknown
func (n NowPlaying) ProgressPercent() int {
	if n.ProgressMS < 0 || n.DurationMS <= 0 {
		return 0
	}
	pct := n.ProgressMS * 100 / n.DurationMS
	if pct > 100 {
		return 100
	}
	return pct
}

type TrackSummary struct {
	Name     string
	Artist   string
	ImageURL string
	URL      string
	PlayedAt time.Time
}

type ArtistSummary struct {
	Name     string
	ImageURL string
	Genres   []string
	URL      string
}

func projectNowPlaying(resp currentlyPlayingResponse) NowPlaying {
	np := NothingPlaying()
	np.IsPlaying = resp.IsPlaying
	np.ProgressMS = utils.ValueOr(resp.ProgressMS, DefaultProgressMS)

	item := resp.Item
	if item == nil {
		return np
	}
	if item.Name != "" {
		np.TrackName = item.Name
	}
	np.DurationMS = utils.ValueOr(item.DurationMS, DefaultDurationMS)
	if item.Album != nil {
		np.ImageURL = imageAt(item.Album.Images, 0, DefaultImageURL)
	}
	np.ArtistName = firstArtist(item.Artists, "")
	if np.ArtistName == "" && item.Album != nil {
		np.ArtistName = firstArtist(item.Album.Artists, DefaultArtistName)
	}
	return np
}

func projectTopTrack(t track) TrackSummary {
	summary := TrackSummary{
		Name:   t.Name,
		Artist: firstArtist(t.Artists, ""),
		URL:    t.ExternalURLs.Spotify,
	}
	if t.Album != nil {
		summary.ImageURL = imageAt(t.Album.Images, 0, "")
	}
	return summary
}

func projectRecentTrack(h playHistory) TrackSummary {
	summary := TrackSummary{
		Name:   h.Track.Name,
		Artist: firstArtist(h.Track.Artists, ""),
		URL:    h.Track.ExternalURLs.Spotify,
	}
	if h.Track.Album != nil {
		images := h.Track.Album.Images
		if len(images) > recentImageIndex {
			summary.ImageURL = images[recentImageIndex].URL
		} else if len(images) > 0 {
			summary.ImageURL = images[len(images)-1].URL
		}
	}
	if playedAt, err := time.Parse(time.RFC3339, h.PlayedAt); err == nil {
		summary.PlayedAt = playedAt
	}
	return summary
}

func projectArtist(a artist) ArtistSummary {
	genres := a.Genres
	if genres == nil {
		genres = []string{}
	}
	return ArtistSummary{
		Name:     a.Name,
		ImageURL: imageAt(a.Images, 0, ""),
		Genres:   genres,
		URL:      a.ExternalURLs.Spotify,
	}
}

func imageAt(images []image, i int, fallback string) string {
	if i < len(images) && images[i].URL != "" {
		return images[i].URL
	}
	return fallback
}

func firstArtist(artists []artistRef, fallback string) string {
	if len(artists) > 0 && artists[0].Name != "" {
		return artists[0].Name
	}
	return fallback
}
