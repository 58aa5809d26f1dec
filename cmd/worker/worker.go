package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"clarity-backend/internal/ai"
	"clarity-backend/internal/config"
	"clarity-backend/internal/index"
	"clarity-backend/internal/logger"
	"clarity-backend/internal/queue"
	"clarity-backend/services"
)

// The worker drains the ingestion queue: uploads too large for inline
// processing are chunked, embedded and indexed here.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	embeddingClient, err := ai.NewEmbeddingClient(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to initialize embedding client:", err)
	}
	defer embeddingClient.Close()

	chunksCollection := mongoClient.Database(cfg.DBName).Collection(config.ChunksCollection)
	vectorIndex := index.NewMongoVectorIndex(chunksCollection, embeddingClient, cfg.VectorSearchEnabled, cfg.VectorIndexName)

	loader := services.NewDocumentLoader()
	chunker := services.NewChunkerService(cfg.MaxChunkSize, cfg.ChunkOverlap)
	ingestion := services.NewIngestionService(loader, chunker, vectorIndex)

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			StrictPriority: true,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error("Task failed", "type", task.Type(), "error", err)
			}),
		},
	)

	processor := queue.NewTaskProcessor(ingestion)

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskIngestDocument, processor.HandleIngestDocument)

	logger.Info("Starting ingestion worker", "redis", cfg.RedisURL)
	if err := server.Run(mux); err != nil {
		log.Fatal("Failed to start worker:", err)
	}
}
