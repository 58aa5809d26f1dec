package ai

import (
	"context"
	"fmt"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"clarity-backend/internal/config"
	"clarity-backend/models"
)

// EmbeddingClient converts text into fixed-dimension vectors via the
// Google embeddings model. Constructed once at startup and injected
// into the vector index.
type EmbeddingClient struct {
	client *genai.Client
	model  string
}

func NewEmbeddingClient(ctx context.Context, cfg *config.Config) (*EmbeddingClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for embeddings")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	return &EmbeddingClient{
		client: client,
		model:  cfg.GoogleEmbeddingsModel,
	}, nil
}

// Embed returns the embedding vector for a single text.
func (ec *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	model := ec.client.EmbeddingModel(ec.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	if resp.Embedding == nil {
		return nil, fmt.Errorf("%w: no embedding returned", models.ErrModelUnavailable)
	}
	return resp.Embedding.Values, nil
}

// EmbedBatch embeds all texts in one batched request, preserving order.
func (ec *EmbeddingClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := ec.client.EmbeddingModel(ec.model)
	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrModelUnavailable, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			models.ErrModelUnavailable, len(texts), len(resp.Embeddings))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at position %d", models.ErrModelUnavailable, i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (ec *EmbeddingClient) Close() error {
	if ec.client != nil {
		return ec.client.Close()
	}
	return nil
}
