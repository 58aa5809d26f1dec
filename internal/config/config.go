package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string

	MongoURI string
	DBName   string

	// Redis (rate limiting, async queue, optional summary cache backend)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Gemini
	GeminiAPIKey          string
	GeminiModel           string
	GeminiTier            string
	GoogleEmbeddingsModel string

	// Ingestion
	MaxFileSize         int64
	SyncProcessingLimit int64 // files above this are queued to the worker
	FileStorageDir      string
	MaxChunkSize        int
	ChunkOverlap        int

	// Retrieval
	RetrievalK int

	// Vector search: Atlas $vectorSearch when enabled, in-process cosine
	// scoring otherwise.
	VectorSearchEnabled bool
	VectorIndexName     string
	VectorDimensions    int

	// Summarization
	SummaryTTL          time.Duration
	SummaryCacheBackend string // "memory" or "redis"
	SummaryMapPrompt    string
	SummaryReducePrompt string

	FlashcardCount int

	// Rate limiting
	RateLimitReqs   int
	RateLimitWindow int

	// Telemetry
	TracingEnabled bool
	OTLPEndpoint   string
}

const defaultMapPrompt = `Extract structured study notes from the following text.
Return three sections:
- Key ideas (short bullets)
- Key terms (term: one-line definition)
- One-line summary

Text:
%s`

const defaultReducePrompt = `The following are structured notes extracted from consecutive sections of one document.
Merge them into a single structured summary. Deduplicate overlapping ideas and terms.
Return three sections:
- Big ideas
- Key terms
- A 2-3 sentence synthesis of the whole document

Notes:
%s`

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:8501,http://localhost:3000"), ","),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017/clarity"),
		DBName:   getEnv("DB_NAME", "clarity"),

		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiTier:            getEnv("GEMINI_TIER", "free"),
		GoogleEmbeddingsModel: getEnv("GOOGLE_EMBEDDINGS_MODEL", "text-embedding-004"),

		MaxFileSize:         getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB
		SyncProcessingLimit: getEnvInt64("SYNC_PROCESSING_LIMIT", 2097152),
		FileStorageDir:      getEnv("FILE_STORAGE_DIR", "./storage"),
		MaxChunkSize:        getEnvInt("MAX_CHUNK_SIZE", 1000),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", 50),

		RetrievalK: getEnvInt("RETRIEVAL_K", 3),

		VectorSearchEnabled: getEnvBool("MONGODB_VECTOR_ENABLED", false),
		VectorIndexName:     getEnv("MONGODB_VECTOR_INDEX", "note_chunks_vector"),
		VectorDimensions:    getEnvInt("VECTOR_DIM", 768),

		SummaryTTL:          time.Duration(getEnvInt("SUMMARY_TTL_MINUTES", 60)) * time.Minute,
		SummaryCacheBackend: getEnv("SUMMARY_CACHE_BACKEND", "memory"),
		SummaryMapPrompt:    getEnv("SUMMARY_MAP_PROMPT", defaultMapPrompt),
		SummaryReducePrompt: getEnv("SUMMARY_REDUCE_PROMPT", defaultReducePrompt),

		FlashcardCount: getEnvInt("FLASHCARD_COUNT", 15),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required - set it in .env file")
	}

	if cfg.ChunkOverlap >= cfg.MaxChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than MAX_CHUNK_SIZE (%d)",
			cfg.ChunkOverlap, cfg.MaxChunkSize)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
