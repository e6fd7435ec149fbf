// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/tunewave/internal/api/connect"
	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/filter"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/domain/history"
	"github.com/osa030/tunewave/internal/infra/config"
	"github.com/osa030/tunewave/internal/infra/logger"
	"github.com/osa030/tunewave/internal/infra/metrics"
	"github.com/osa030/tunewave/internal/infra/spotify"
	"github.com/osa030/tunewave/internal/infra/storage"
	"github.com/osa030/tunewave/internal/infra/youtube"
)

var (
	app        = kingpin.New("tunewave-server", "tunewave music discovery server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available filters and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	closeLog, err := logger.Init(loggerConfig(nil))
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	// Config log settings apply unless overridden on the command line
	if !*verbose && *logfile == "" {
		_ = closeLog()
		if closeLog, err = logger.Init(loggerConfig(cfg)); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	err = run(cfg)
	_ = closeLog()
	if err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

func loggerConfig(cfg *config.Config) logger.Config {
	lc := logger.Config{Output: "stdout", Level: "info"}
	if cfg != nil {
		lc.Output = cfg.Log.Output
		lc.Level = cfg.Log.Level
	}
	if *verbose {
		lc.Level = "debug"
	}
	if *logfile != "" {
		lc.Output = *logfile
	}
	return lc
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	if err := validateFilterConfig(cfg); err != nil {
		return errors.Wrap(err, "invalid filter config")
	}

	ctx := context.Background()
	m := metrics.New()

	db, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return errors.Wrap(err, "failed to open storage")
	}
	defer func() {
		if err := db.Close(); err != nil {
			zlog.Error().Msgf("Failed to close storage: %v", err)
		}
	}()
	zlog.Info().Msgf("Storage opened: path=%s", cfg.Storage.Path)

	notices := notification.NewManager()
	defer notices.Close()

	catalogSvc, err := newCatalogService(ctx, cfg, notices, m)
	if err != nil {
		return err
	}

	manager, err := discovery.NewManager(discovery.Config{
		Catalog:           catalogSvc,
		Ledger:            history.NewLedger(cfg.History.Limit),
		Library:           library.NewStore(filter.NewChainFromConfig(cfg), cfg.Playlists.DefaultCover),
		Notifications:     notices,
		Repository:        storage.NewRepository(db, cfg.Storage.PersistEmpty),
		Messages:          cfg,
		Metrics:           m,
		PlayFailedMessage: cfg.GetMessage("play_failed"),
		DefaultLimit:      cfg.Catalog.DefaultLimit,
		RelatedLimit:      cfg.Catalog.RelatedLimit,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create application state")
	}
	manager.Restore(ctx)
	manager.Start()

	mux := http.NewServeMux()
	apiconnect.Mount(mux, apiconnect.Services{
		Manager:  manager,
		Catalog:  catalogSvc,
		Messages: cfg,
		Metrics:  m,
	})
	mux.Handle("/metrics", m.Handler())
	mux.Handle(apiconnect.HealthPath, apiconnect.HealthHandler())

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(apiconnect.WithRequestLogging(mux, zlog.Logger), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	serverStartedCh := make(chan struct{})

	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		close(serverStartedCh)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	<-serverStartedCh
	// Give the server a moment to fully initialize
	time.Sleep(100 * time.Millisecond)

	executeHooks(cfg.Server.Hooks.OnStarted, "on_started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		manager.Close()
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	// Close the manager first so notification streams end
	manager.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")

	executeHooks(cfg.Server.Hooks.OnStopped, "on_stopped")

	return nil
}

// newCatalogService builds the provider chain and the video enricher.
func newCatalogService(ctx context.Context, cfg *config.Config, notices notification.Notifier, m *metrics.Metrics) (*catalog.Service, error) {
	var spotifyClient catalog.SpotifyClient
	if cfg.HasProvider("spotify") {
		client, err := spotify.New(ctx, spotify.Config{
			ClientID:      cfg.Spotify.ClientID,
			ClientSecret:  cfg.Spotify.ClientSecret,
			Market:        cfg.Spotify.Market,
			TopPlaylistID: cfg.Spotify.TopPlaylistID,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create Spotify client")
		}
		spotifyClient = client
	}

	chain, err := catalog.NewProviderChainFromConfig(cfg, spotifyClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create catalog providers")
	}
	zlog.Info().Msgf("Catalog providers: %s", strings.Join(chain.Providers(), ", "))

	var enricher *catalog.Enricher
	switch {
	case cfg.Catalog.SkipEnrichment:
		zlog.Info().Msg("Video enrichment disabled by config")
	case cfg.YouTube.APIKey == "":
		zlog.Info().Msg("YouTube API key not configured, video enrichment disabled")
	default:
		videos, err := youtube.New(ctx, youtube.Config{
			APIKey:      cfg.YouTube.APIKey,
			QuerySuffix: cfg.YouTube.QuerySuffix,
			MaxResults:  cfg.YouTube.MaxResults,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create YouTube client")
		}
		enricher = catalog.NewEnricher(videos, cfg.Catalog.EnrichConcurrency, m)
	}

	return catalog.NewService(catalog.ServiceConfig{
		Provider:     chain,
		Enricher:     enricher,
		Notifier:     notices,
		Messages:     cfg,
		Metrics:      m,
		DefaultLimit: cfg.Catalog.DefaultLimit,
		RelatedLimit: cfg.Catalog.RelatedLimit,
	}), nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.RegisteredNames() {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}

// validateFilterConfig validates filter configurations.
func validateFilterConfig(cfg *config.Config) error {
	registry := filter.GetRegistered()

	for filterName, filterCfg := range cfg.Filters {
		if !filterCfg.Enabled {
			continue
		}

		factory, exists := registry[filterName]
		if !exists {
			return errors.Newf("unknown filter: %s", filterName)
		}

		f := factory()
		if err := f.ValidateConfig(filterCfg.Settings); err != nil {
			return errors.Wrapf(err, "filter %s", filterName)
		}
	}

	return nil
}

// executeHooks runs a list of shell commands.
func executeHooks(hooks []string, stage string) {
	if len(hooks) == 0 {
		return
	}

	zlog.Info().Msgf("Executing %s hooks (%d commands)", stage, len(hooks))

	for _, hook := range hooks {
		zlog.Info().Msgf("Executing hook: %s", hook)
		// Use sh -c to allow shell features like redirection or pipes
		cmd := exec.Command("sh", "-c", hook)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			zlog.Error().Err(err).Msgf("Failed to execute hook: %s", hook)
		}
	}
}
