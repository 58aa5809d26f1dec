package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"clarity-backend/internal/ai"
	"clarity-backend/internal/config"
	"clarity-backend/internal/index"
	"clarity-backend/internal/logger"
	"clarity-backend/internal/telemetry"
	"clarity-backend/middleware"
	"clarity-backend/routes"
	"clarity-backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("clarity-backend", cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			defer shutdown()
		}
	}

	// MongoDB backs the vector index
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis is optional: without it the server runs with no rate
	// limiting, no async uploads and the in-memory summary cache.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, running degraded", "error", err)
		rdb = nil
	}

	ctx := context.Background()

	geminiClient, err := ai.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize Gemini client:", err)
	}
	defer geminiClient.Close()

	embeddingClient, err := ai.NewEmbeddingClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedding client:", err)
	}
	defer embeddingClient.Close()

	chunksCollection := mongoClient.Database(cfg.DBName).Collection(config.ChunksCollection)
	vectorIndex := index.NewMongoVectorIndex(chunksCollection, embeddingClient, cfg.VectorSearchEnabled, cfg.VectorIndexName)

	if cfg.VectorSearchEnabled {
		// Atlas only; existing indexes and local deployments both land
		// here, and retrieval still works via the cosine fallback.
		if err := config.EnsureVectorSearchIndex(cfg, mongoClient); err != nil {
			logger.Warn("Vector search index creation failed", "index", cfg.VectorIndexName, "error", err)
		}
	}

	// Services
	loader := services.NewDocumentLoader()
	chunker := services.NewChunkerService(cfg.MaxChunkSize, cfg.ChunkOverlap)
	ingestion := services.NewIngestionService(loader, chunker, vectorIndex)
	retriever := services.NewRetriever(vectorIndex, cfg.RetrievalK)
	answers := services.NewAnswerService(retriever, geminiClient)

	summaryCache, scheduler := buildSummaryCache(cfg, rdb)
	if scheduler != nil {
		scheduler.StartAsync()
		defer scheduler.Stop()
	}

	summarizer := services.NewSummarizationService(vectorIndex, geminiClient, summaryCache,
		cfg.SummaryMapPrompt, cfg.SummaryReducePrompt)
	flashcards := services.NewFlashcardService(summarizer, geminiClient, cfg.FlashcardCount)

	var queueClient *asynq.Client
	if rdb != nil {
		queueClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer queueClient.Close()
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("clarity-backend"))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Requested-With"}
	router.Use(cors.New(corsConfig))

	if rdb != nil {
		router.Use(middleware.RateLimit(rdb, cfg))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	routes.SetupUploadRoutes(router, cfg, ingestion, queueClient)
	routes.SetupChatRoutes(router, answers)
	routes.SetupDocumentRoutes(router, vectorIndex, summaryCache)
	routes.SetupStudyRoutes(router, summarizer, flashcards)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}

// buildSummaryCache picks the configured cache backend. The memory
// backend gets a cron janitor so expired summaries do not pile up;
// Redis expires its own keys.
func buildSummaryCache(cfg *config.Config, rdb *redis.Client) (services.SummaryCache, *gocron.Scheduler) {
	if cfg.SummaryCacheBackend == "redis" && rdb != nil {
		return services.NewRedisSummaryCache(rdb, cfg.SummaryTTL), nil
	}

	cache := services.NewMemorySummaryCache(cfg.SummaryTTL)
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.Every(5).Minutes().Do(func() {
		if removed := cache.PurgeExpired(); removed > 0 {
			logger.Debug("Summary cache purged", "removed", removed)
		}
	})
	return cache, scheduler
}
