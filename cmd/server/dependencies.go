package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-portfolio-server/cache"
	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/internal/metrics"
	"github.com/jrsteele09/go-portfolio-server/projects"
	"github.com/jrsteele09/go-portfolio-server/riot"
	"github.com/jrsteele09/go-portfolio-server/server"
	"github.com/jrsteele09/go-portfolio-server/spotify"
	"github.com/jrsteele09/go-portfolio-server/token"
	"github.com/jrsteele09/go-portfolio-server/token/refresh"
	"github.com/rs/zerolog/log"
)

// buildDependencies wires the upstream clients. Spotify is left nil without client credentials
// so its widgets render fallbacks instead of failing startup.
func buildDependencies(c config.Config) (server.Dependencies, func(), error) {
	closers := []func(){}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	m := metrics.New()
	httpClient := &http.Client{Timeout: c.GetUpstreamTimeout()}
	deps := server.Dependencies{
		Metrics:      m,
		HealthChecks: map[string]server.HealthCheck{},
	}

	creds, err := config.LoadCredentials(c.GetSpotifyConfigFile())
	if err != nil {
		log.Warn().Err(err).Msg("spotify disabled: no client credentials")
	} else {
		tokens := refresh.NewManager(
			token.NewFileRepo(c.GetSpotifyTokenFile()),
			creds,
			c.GetSpotifyRedirectURI(),
			refresh.WithHTTPClient(httpClient),
			refresh.WithMetrics(m),
		)
		deps.Tokens = tokens
		deps.Spotify = spotify.NewClient(tokens, spotify.WithHTTPClient(httpClient), spotify.WithMetrics(m))
		deps.SpotifyAuth = spotify.AuthConfig(creds, c.GetSpotifyRedirectURI(), c.GetSpotifyScopes())
	}

	var store cache.Cache = cache.NewMemory()
	if redisURL := c.GetRedisURL(); redisURL != "" {
		redisCache, client, err := cache.NewRedisFromURL(redisURL)
		if err != nil {
			return deps, closeAll, fmt.Errorf("[main buildDependencies] %w", err)
		}
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close redis client")
			}
		})
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Warn().Err(err).Msg("redis not reachable at startup")
		}
		deps.HealthChecks["redis"] = redisCache.Ping
		store = redisCache
	}

	if c.GetRiotAPIKey() == "" {
		log.Warn().Msg("RIOT_API_KEY not set: league pages will show an error")
	}
	deps.League = riot.NewClient(c.GetRiotAPIKey(), c.GetRiotRegion(), c.GetRiotPlatform(),
		riot.WithHTTPClient(httpClient),
		riot.WithCache(store, c.GetRiotCacheTTLs()),
		riot.WithMetrics(m),
	)

	fetcher, err := projects.NewFetcher(c.GetProjectsDeployURL(), httpClient, m)
	if err != nil {
		return deps, closeAll, err
	}
	deps.Projects = fetcher

	return deps, closeAll, nil
}
