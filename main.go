package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/gorilla/mux"

	"reelmerge/config"
	"reelmerge/handlers"
	"reelmerge/internal/logging"
	"reelmerge/services/metadata"
	"reelmerge/utils"
)

var version = "dev"

type args struct {
	ConfigPath string
	Port       int
}

func parseArgs(argv []string) (args, error) {
	var a args
	app := kingpin.New("reelmerge", "Movie and TV metadata aggregation API backed by TMDB and OMDb.")
	app.Version(version)
	app.HelpFlag.Short('h')
	app.Flag("config", "Path to a YAML config file (default: $CONFIG_PATH or ./config.yaml).").
		Short('c').StringVar(&a.ConfigPath)
	app.Flag("port", "Listen port, overriding config and $PORT.").
		Short('p').IntVar(&a.Port)
	_, err := app.Parse(argv)
	return a, err
}

func registerRoutes(r *mux.Router, h *handlers.MetadataHandler) {
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/movies", h.List).Methods(http.MethodGet)
	apiRouter.HandleFunc("/genres", h.Genres).Methods(http.MethodGet)
	apiRouter.HandleFunc("/details", h.Details).Methods(http.MethodGet)
	apiRouter.HandleFunc("/others", h.Others).Methods(http.MethodGet)
}

func main() {
	a, err := parseArgs(os.Args[1:])
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid arguments")
	}

	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	if a.Port != 0 {
		cfg.Server.Port = a.Port
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	svc := metadata.NewService(cfg.TMDB, cfg.OMDB, cfg.Metadata)
	r := utils.NewRouter(cfg.Server.CORSOrigins)
	registerRoutes(r, handlers.NewMetadataHandler(svc))

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Bool("isolate_item_failures", cfg.Metadata.IsolateItemFailures).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logging.Info().Msg("server stopped")
}
