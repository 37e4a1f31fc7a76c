package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tripweave-ai/tripweave/internal/api/handlers"
	"github.com/tripweave-ai/tripweave/internal/cache"
	"github.com/tripweave-ai/tripweave/internal/config"
	"github.com/tripweave-ai/tripweave/internal/domain"
	"github.com/tripweave-ai/tripweave/internal/fanout"
	"github.com/tripweave-ai/tripweave/internal/jobs"
	"github.com/tripweave-ai/tripweave/internal/openai"
	"github.com/tripweave-ai/tripweave/internal/pipeline"
	"github.com/tripweave-ai/tripweave/internal/providers"
	"github.com/tripweave-ai/tripweave/internal/repository"
	"github.com/tripweave-ai/tripweave/internal/retrieval"
	"github.com/tripweave-ai/tripweave/internal/scoring"
	"github.com/tripweave-ai/tripweave/internal/server"
	"github.com/tripweave-ai/tripweave/internal/service"
	"github.com/tripweave-ai/tripweave/internal/storage"
	"github.com/tripweave-ai/tripweave/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the tripweave API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

// providerBuilder assembles the search provider registry for the daemon.
// The default registry is empty, so /plan reports a configuration error
// until an embedding main installs real providers via RegisterProviders.
var providerBuilder = func(cfg *config.Config) providers.Registry {
	return providers.Registry{}
}

// RegisterProviders installs the builder the serve command calls to
// assemble its provider registry. Call it before Execute.
func RegisterProviders(build func(cfg *config.Config) providers.Registry) {
	if build != nil {
		providerBuilder = build
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.SentryEnvironment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var kv cache.KeyValueCache
	if cfg.HasRedis() {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		defer redisClient.Close()
		kv = cache.NewRedisCache(redisClient, "tripweave")
		log.Println("using redis cache")
	} else {
		kv = cache.NewMemoryCache()
		log.Println("using in-memory cache")
	}

	var embedder retrieval.Embedder
	if cfg.HasOpenAI() {
		embedder = openai.NewClient(cfg.OpenAIAPIKey)
		log.Println("using OpenAI embeddings")
	} else {
		embedder = retrieval.NewLocalEmbedder(openai.DefaultEmbeddingDimensions)
		log.Println("using local embeddings (no OpenAI key configured)")
	}

	chunkStore := repository.NewChunkStore(pool)
	sources := repository.NewSources(pool)
	txRunner := repository.NewTxRunner(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	tripPlanRepo := repository.NewTripPlanRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	indexJobRepo := repository.NewIndexJobRepository(pool)

	indexer := retrieval.NewIndexer(sources, chunkStore, embedder, kv).
		WithFreshnessTTL(cfg.IndexFreshnessTTL)
	retriever := retrieval.NewRetriever(chunkStore, embedder, indexer)

	var blobs retrieval.BlobStore
	var s3Client *storage.S3Client
	if cfg.HasS3() {
		s3Config := storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		}
		s3Client, err = storage.NewS3Client(ctx, s3Config)
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		blobs = s3Client
	} else {
		blobs = &noBlobStore{}
		log.Println("document uploads disabled (no S3 endpoint configured)")
	}

	ingester := retrieval.NewDocumentIngester(chunkStore, embedder, blobs)

	var documentHandler *handlers.DocumentHandler
	if s3Client != nil {
		documentSvc := service.NewDocumentService(txRunner, documentRepo, s3Client, ingester)
		documentHandler = handlers.NewDocumentHandler(documentSvc)
	} else {
		documentHandler = handlers.NewDocumentHandler(&NoOpDocumentService{})
	}

	registry := providerBuilder(cfg)
	if err := registry.Validate(); err != nil {
		log.Printf("warning: %v; /plan requests will report a configuration error", err)
	}

	coordinator := fanout.NewCoordinator(registry, kv)
	goalEval := scoring.NewGoalEvaluator(scoring.DefaultPenaltyFactor)
	utilityEval := scoring.NewUtilityEvaluator()
	plannerPipeline := pipeline.New(coordinator, goalEval, utilityEval, retriever)

	plannerSvc := service.NewPlannerService(registry, plannerPipeline, coordinator, utilityEval, retriever, indexer)
	bookingSvc := service.NewBookingService(txRunner, bookingRepo)
	tripPlanSvc := service.NewTripPlanService(txRunner, tripPlanRepo)
	historySvc := service.NewHistoryService(txRunner, profileRepo)

	indexProcessor := jobs.NewIndexWorker(indexJobRepo, indexer, ingester, documentRepo)
	indexWorker := jobs.NewWorker(indexProcessor, cfg.WorkerPollInterval)
	go indexWorker.Start(ctx)
	log.Println("index worker started")

	routerCfg := server.RouterConfig{
		PlanHandler:     handlers.NewPlanHandler(plannerSvc),
		BookingHandler:  handlers.NewBookingHandler(bookingSvc),
		TripPlanHandler: handlers.NewTripPlanHandler(tripPlanSvc),
		HistoryHandler:  handlers.NewHistoryHandler(historySvc),
		DocumentHandler: documentHandler,
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	indexWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// noBlobStore backs the ingester when no blob backend is configured. Document
// jobs cannot appear in that configuration, but a claimed leftover fails with
// a clear message instead of a panic.
type noBlobStore struct{}

func (s *noBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("document storage not configured: S3_ENDPOINT required")
}

type NoOpDocumentService struct{}

func (s *NoOpDocumentService) Upload(ctx context.Context, input service.UploadInput) (*domain.Document, error) {
	return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "document storage not configured: S3_ENDPOINT required")
}

func (s *NoOpDocumentService) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "document storage not configured: S3_ENDPOINT required")
}

func (s *NoOpDocumentService) List(ctx context.Context, scope string) ([]domain.Document, error) {
	return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "document storage not configured: S3_ENDPOINT required")
}

func (s *NoOpDocumentService) Delete(ctx context.Context, id string) error {
	return domain.NewDomainError(domain.ErrCodeConfiguration, "document storage not configured: S3_ENDPOINT required")
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
