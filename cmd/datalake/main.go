package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xaenox/datalake-chat/internal/bot"
	"github.com/xaenox/datalake-chat/internal/dispatch"
	"github.com/xaenox/datalake-chat/internal/lake"
	"github.com/xaenox/datalake-chat/internal/llm"
	"github.com/xaenox/datalake-chat/internal/loader"
	"github.com/xaenox/datalake-chat/internal/storage"
	"github.com/xaenox/datalake-chat/internal/web"
	"github.com/xaenox/datalake-chat/pkg/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set during build
var Version = "dev"

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("Invalid log level, using info", zap.String("level", cfg.Log.Level))
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize history storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory history")
		store = storage.NewMemoryStorage(cfg.Database.HistoryCapacity)
	} else {
		logger.Info("Using PostgreSQL history")
		dbConfig := storage.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		}
		store, err = storage.NewPostgresStorage(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	client := llm.NewGPTClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)

	session := dispatch.NewSession(
		loader.New(loader.Options{CacheEnabled: cfg.Loader.CacheEnabled}, logger),
		client,
		lake.Options{
			SampleRows:    cfg.Engine.SampleRows,
			MaxRetries:    cfg.Engine.MaxRetries,
			MaxResultRows: cfg.Engine.MaxResultRows,
		},
		store,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg.Telegram.Token, session, logger)
		if err != nil {
			logger.Fatal("Failed to create bot", zap.Error(err))
		}
		go func() {
			if err := b.Start(ctx); err != nil {
				logger.Error("Bot error", zap.Error(err))
			}
		}()
	}

	e := web.NewServer(session, web.Options{Version: Version, BodyLimit: cfg.Server.BodyLimit}, logger)
	srv := web.NewHTTPServer(cfg.ServerAddr(), e)

	go func() {
		logger.Info("Serving UI",
			zap.String("url", "http://"+cfg.ServerAddr()),
			zap.String("version", Version),
			zap.String("model", cfg.OpenAI.Model))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down server", zap.Error(err))
	}
}
