package services

import (
	"context"
	"fmt"

	"clarity-backend/internal/index"
	"clarity-backend/internal/logger"
	"clarity-backend/models"
)

// IngestionService is the write path: load file text, chunk it, embed
// and upsert into the vector index. If any step fails, chunks not yet
// upserted never reach the index (best-effort atomicity; the store
// itself is not transactional).
type IngestionService struct {
	loader  *DocumentLoader
	chunker *ChunkerService
	index   index.VectorIndex
}

func NewIngestionService(loader *DocumentLoader, chunker *ChunkerService, idx index.VectorIndex) *IngestionService {
	return &IngestionService{
		loader:  loader,
		chunker: chunker,
		index:   idx,
	}
}

// IngestFile processes the file stored at path. originalName is the
// name the user uploaded, used to derive the source id; path may be a
// temp file (it must keep the original extension).
func (is *IngestionService) IngestFile(ctx context.Context, path, originalName string) (string, int, error) {
	text, err := is.loader.Load(path)
	if err != nil {
		return "", 0, err
	}

	sourceID := NormalizeSourceID(originalName)
	if sourceID == "" {
		return "", 0, fmt.Errorf("%w: empty source id for %q", models.ErrUnsupportedFormat, originalName)
	}

	chunks := is.chunker.Chunk(text, sourceID)
	if len(chunks) == 0 {
		return "", 0, fmt.Errorf("%w: %s", models.ErrEmptyDocument, originalName)
	}

	if err := is.index.Upsert(ctx, chunks); err != nil {
		return "", 0, err
	}

	logger.Info("Document ingested", "source", sourceID, "chunks", len(chunks))
	return sourceID, len(chunks), nil
}
