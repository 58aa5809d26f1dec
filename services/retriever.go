package services

import (
	"context"

	"clarity-backend/internal/index"
	"clarity-backend/models"
)

// Retriever fetches the chunks most relevant to a query.
type Retriever struct {
	index index.VectorIndex
	topK  int
}

func NewRetriever(idx index.VectorIndex, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{index: idx, topK: topK}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.Chunk, error) {
	return r.index.SimilaritySearch(ctx, query, r.topK)
}
