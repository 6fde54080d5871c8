package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vidgen/internal/http/handlers"
	"vidgen/internal/http/httpapi"
	"vidgen/internal/infra"
	"vidgen/internal/provider/videogen"
	"vidgen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	if err := infra.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.UploadsDir, cfg.UploadsBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file store")
	}

	generator, err := videogen.NewClient(videogen.Options{
		APIKey:       cfg.VideoGenAPIKey,
		BaseURL:      cfg.VideoGenBaseURL,
		Model:        cfg.VideoGenModel,
		Logger:       &logger,
		PollInterval: cfg.PollInterval,
		PollMaxTicks: cfg.PollMaxTicks,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init video generation client")
	}

	runner := infra.NewSQLRunner(dbpool, logger)
	app := handlers.NewApp(runner, logger, store, generator, cfg.DefaultVideoCap)

	router := httpapi.NewRouter(cfg, logger, app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
