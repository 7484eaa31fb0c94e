package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ezra-186/Team09-HCH/pkg/database"
	"github.com/Ezra-186/Team09-HCH/pkg/health"
	pkgkafka "github.com/Ezra-186/Team09-HCH/pkg/kafka"
	"github.com/Ezra-186/Team09-HCH/pkg/middleware"

	"github.com/Ezra-186/Team09-HCH/internal/auth"
	"github.com/Ezra-186/Team09-HCH/internal/config"
	"github.com/Ezra-186/Team09-HCH/internal/event"
	handler "github.com/Ezra-186/Team09-HCH/internal/handler/http"
	"github.com/Ezra-186/Team09-HCH/internal/repository/postgres"
	"github.com/Ezra-186/Team09-HCH/internal/service"
	"github.com/Ezra-186/Team09-HCH/migrations"
)

// App wires together all dependencies and runs the marketplace service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	database.RegisterPoolMetrics(pool, "marketplace")

	// The products table shape is fixed for the process lifetime. A table
	// with neither name nor title is a deployment defect, so fail startup.
	cols, err := postgres.DetectProductColumns(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("detect product columns: %w", err)
	}
	logger.Info("products table introspected",
		slog.Bool("name", cols.Name),
		slog.Bool("title", cols.Title),
		slog.Bool("category", cols.Category),
		slog.Bool("image_url", cols.ImageURL),
		slog.Bool("status", cols.Status),
	)

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	productRepo := postgres.NewProductRepository(pool, cols)
	reviewRepo := postgres.NewReviewRepository(pool)
	sellerRepo := postgres.NewSellerRepository(pool)

	codec := auth.NewSessionCodec(cfg.SessionSecret)
	eventProducer := event.NewProducer(producer, logger)

	productService := service.NewProductService(productRepo, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo, eventProducer, logger)
	sellerService := service.NewSellerService(sellerRepo, codec, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	router := handler.NewRouter(handler.RouterConfig{
		Products:     productService,
		Reviews:      reviewService,
		Sellers:      sellerService,
		SessionCodec: codec,
		Health:       healthHandler,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
			Environment:      cfg.Environment,
		},
		SecureCookies: !cfg.IsDevelopment(),
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain HTTP first, then flush the
// producer, then release the pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return nil
}
