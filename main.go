package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/tablemind-ai/tablemind-engine/pkg/config"
	"github.com/tablemind-ai/tablemind-engine/pkg/database"
	"github.com/tablemind-ai/tablemind-engine/pkg/handlers"
	"github.com/tablemind-ai/tablemind-engine/pkg/memstore"
	"github.com/tablemind-ai/tablemind-engine/pkg/repositories"
	"github.com/tablemind-ai/tablemind-engine/pkg/retry"
	"github.com/tablemind-ai/tablemind-engine/pkg/services"

	// Dialect adapters register themselves at init time.
	_ "github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource/mysql"
	_ "github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource/oracle"
	_ "github.com/tablemind-ai/tablemind-engine/pkg/adapters/datasource/postgres"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.String("memory_provider", cfg.Memory.Provider),
		zap.String("database", cfg.Database.User+"@"+cfg.Database.Host+"/"+cfg.Database.Database))

	ctx := context.Background()

	// Engine database comes up with the service; retry rides out container
	// start ordering.
	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("Failed to connect to engine database", zap.Error(err))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	store, err := buildMemoryStore(cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to create memory store", zap.Error(err))
	}

	extractor := services.NewExtractor(cfg.Pipeline.SampleLimit, logger)
	embedder := services.NewEmbedServiceWithPolicy(store,
		cfg.Pipeline.EmbedAttempts, cfg.Pipeline.EmbedBaseDelay, logger)
	pipeline := services.NewPipeline(extractor, embedder, logger)
	credentials := repositories.NewCredentialRepository(db.Pool)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(pipeline, credentials, cfg.Pipeline.EventBuffer, logger).RegisterRoutes(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting tablemind-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a production logger, or a development one locally.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// runMigrations applies embedded migrations using database/sql, which
// golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return database.RunMigrations(sqlDB, logger)
}

// buildMemoryStore selects the memory store backend from config.
func buildMemoryStore(cfg *config.Config, db *database.DB, logger *zap.Logger) (memstore.Client, error) {
	switch cfg.Memory.Provider {
	case "mem0":
		opts := []memstore.Mem0Option{}
		if cfg.Memory.Mem0BaseURL != "" {
			opts = append(opts, memstore.WithMem0BaseURL(cfg.Memory.Mem0BaseURL))
		}
		return memstore.NewMem0Client(cfg.Memory.Mem0APIKey, logger, opts...)
	case "local":
		embedder, err := memstore.NewOpenAIEmbedder(cfg.Memory.OpenAIAPIKey, cfg.Memory.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		return memstore.NewLocalStore(db.Pool, embedder, logger), nil
	default:
		logger.Warn("Memory store disabled, embedded documents will be discarded")
		return memstore.Noop{}, nil
	}
}
