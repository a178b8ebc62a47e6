package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"thumbforge/internal/genai"
	"thumbforge/internal/history"
	"thumbforge/internal/http/handlers"
	httpapi "thumbforge/internal/http/httpapi"
	"thumbforge/internal/infra"
	"thumbforge/internal/ingest"
	"thumbforge/internal/orchestrator"
	"thumbforge/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	kv, err := storage.Open(cfg.HistoryDBPath, cfg.HistoryMaxBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open local cache")
	}
	defer kv.Close()

	hist := history.NewStore(history.Options{
		Persister: kv,
		Debounce:  cfg.HistoryDebounce,
		Logger:    &logger,
	})

	client := genai.NewClient(genai.Options{
		APIKey:      cfg.GeminiAPIKey,
		BaseURL:     cfg.GeminiBaseURL,
		TextModel:   cfg.GeminiTextModel,
		ImageModel:  cfg.GeminiImageModel,
		ImagenModel: cfg.ImagenModel,
		Logger:      &logger,
	})
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY not set, serving synthetic images")
	}

	orch := orchestrator.New(orchestrator.Options{
		Client:     client,
		History:    hist,
		Engagement: kv,
		Logger:     &logger,
	})
	fetcher := ingest.NewFetcher(nil, &logger)

	app := handlers.NewApp(orch, hist, client, fetcher, &logger)
	router := httpapi.NewRouter(app, cfg, logger)
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

	// Flush the debounced timeline snapshot before the process exits.
	hist.Flush()
	logger.Info().Msg("server stopped")
}
