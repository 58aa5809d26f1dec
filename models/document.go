package models

import "time"

// Chunk is a bounded slice of a source document produced by the chunker.
// ChunkID is deterministic (source + ordinal) so re-ingesting the same
// document overwrites records instead of duplicating them.
type Chunk struct {
	ChunkID string `json:"chunk_id" bson:"chunk_id"`
	Source  string `json:"source" bson:"source"`
	Order   int    `json:"order" bson:"order"`
	Content string `json:"content" bson:"content"`
}

// ChunkIndex is the durable record stored in the vector index collection.
// Text may be stored compressed; Compression names the algorithm used.
type ChunkIndex struct {
	ChunkID     string    `bson:"chunk_id"`
	Source      string    `bson:"source"`
	Order       int       `bson:"order"`
	Text        string    `bson:"text"`
	Compressed  bool      `bson:"compressed,omitempty"`
	Compression string    `bson:"compression,omitempty"`
	Vector      []float32 `bson:"vector"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// UploadResponse is returned after a successful synchronous upload.
type UploadResponse struct {
	Message    string `json:"message"`
	Source     string `json:"source"`
	ChunkCount int    `json:"chunk_count"`
}

// AsyncUploadResponse is returned when ingestion was queued instead of
// processed inline.
type AsyncUploadResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Ingestion status constants (async path).
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
