package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/jrsteele09/go-portfolio-server/internal/config"
	"github.com/jrsteele09/go-portfolio-server/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("stack", string(debug.Stack())).Msg("Recovered from panic")
			sentry.CurrentHub().Recover(r)
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	if err := initSentry(c); err != nil {
		log.Warn().Err(err).Msg("sentry disabled")
	}
	defer sentry.Flush(2 * time.Second)

	deps, closeDeps, err := buildDependencies(c)
	if err != nil {
		return err
	}
	defer closeDeps()

	handler, err := server.New(c, deps)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- listenAndServe(httpServer) }()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if c.GetEnv() == "DEV" {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if configured := c.GetLogLevel(); configured != "" {
		parsed, err := zerolog.ParseLevel(configured)
		if err != nil {
			log.Warn().Str("level", configured).Msg("unknown LOG_LEVEL, keeping default")
		} else {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

func initSentry(c config.Config) error {
	dsn := c.GetSentryDSN()
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      c.GetEnv(),
		AttachStacktrace: true,
	})
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
