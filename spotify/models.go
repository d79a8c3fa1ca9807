package spotify

// Upstream response shapes. Pointers mark fields whose absence must be told apart from zero.

type image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type artistRef struct {
	Name string `json:"name"`
}

type album struct {
	Name    string      `json:"name"`
	Images  []image     `json:"images"`
	Artists []artistRef `json:"artists"`
}

type track struct {
	Name         string       `json:"name"`
	DurationMS   *int         `json:"duration_ms"`
	Album        *album       `json:"album"`
	Artists      []artistRef  `json:"artists"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type artist struct {
	Name         string       `json:"name"`
	Images       []image      `json:"images"`
	Genres       []string     `json:"genres"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type currentlyPlayingResponse struct {
	IsPlaying  bool   `json:"is_playing"`
	ProgressMS *int   `json:"progress_ms"`
	Item       *track `json:"item"`
}

type topTracksResponse struct {
	Items []track `json:"items"`
}

type topArtistsResponse struct {
	Items []artist `json:"items"`
}

type playHistory struct {
	Track    track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

type recentlyPlayedResponse struct {
	Items []playHistory `json:"items"`
}
