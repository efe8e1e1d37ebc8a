package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"taxdefense-backend/config"
	"taxdefense-backend/handlers"
	"taxdefense-backend/llm"
	"taxdefense-backend/logger"
	"taxdefense-backend/metrics"
	"taxdefense-backend/service"
	"taxdefense-backend/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		logger.FromContext(context.Background()).Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file from project root (relative to cmd/server/)
	foundDotEnv := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
		TimeFormat: "15:04:05",
	})
	logger.SetDefault(log)
	if !foundDotEnv {
		log.Warn("No .env file found, using environment variables")
	}

	ctx := context.Background()

	// Initialize storage
	documents, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if documents != nil {
		log.Info("Document store initialized", "type", cfg.Storage.Type)
	}

	// Initialize model client
	llmClient, err := initLLM(ctx, cfg.LLM, log)
	if err != nil {
		return fmt.Errorf("failed to initialize %s model client: %w", cfg.LLM.Provider, err)
	}
	if closer, ok := llmClient.(io.Closer); ok {
		defer closer.Close()
	}

	recorder := metrics.NewRecorder()

	// Initialize services
	analysisService := service.NewAnalysisService(
		service.AnalysisWithLLMClient(llmClient),
		service.AnalysisWithAPIKey(cfg.LLM.APIKey()),
		service.AnalysisWithModel(cfg.LLM.Model()),
		service.AnalysisWithMetrics(recorder),
		service.AnalysisWithLogger(log),
	)

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(analysisService, documents)

	gin.SetMode(cfg.GinMode)
	r := handlers.NewRouter(analysisHandler, recorder, log)

	log.Info("Server starting", "port", cfg.Port, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model())
	if err := r.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// initLLM returns a nil client when no credential is set; the service then
// answers every analysis with a configuration error.
func initLLM(ctx context.Context, cfg config.LLMConfig, log logger.Logger) (llm.Client, error) {
	if cfg.APIKey() == "" {
		log.Warn("Model service API key not set", "provider", cfg.Provider)
		return nil, nil
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info("Model client initialized", "provider", client.Provider())
	return client, nil
}
