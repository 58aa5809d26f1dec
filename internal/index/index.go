package index

import (
	"context"

	"clarity-backend/models"
)

// Embedder is the embedding collaborator consumed by the index.
// Satisfied by ai.EmbeddingClient.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the persistent store of (vector, text, metadata)
// records. Upserts are keyed on chunk id, so re-ingesting a document
// with the same chunk boundaries overwrites rather than duplicates.
type VectorIndex interface {
	// Upsert embeds each chunk's content (batched) and writes or
	// overwrites records. Atomicity is best-effort: a failure may leave
	// earlier chunks of the batch written.
	Upsert(ctx context.Context, chunks []models.Chunk) error

	// SimilaritySearch embeds the query and returns the k most similar
	// chunks, most similar first.
	SimilaritySearch(ctx context.Context, query string, k int) ([]models.Chunk, error)

	// GetBySource returns all chunks of one document. Order is
	// unspecified; callers must not assume original chunk order.
	GetBySource(ctx context.Context, sourceID string) ([]models.Chunk, error)

	// DeleteBySource removes all records of one document. Deleting a
	// source with no records is not an error.
	DeleteBySource(ctx context.Context, sourceID string) error

	// ListSources returns the distinct source ids across all records.
	ListSources(ctx context.Context) ([]string, error)
}
