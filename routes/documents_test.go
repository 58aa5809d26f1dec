package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/models"
	"clarity-backend/services"
)

// memoryIndex is an in-process VectorIndex for route tests.
type memoryIndex struct {
	chunks []models.Chunk
}

func (m *memoryIndex) Upsert(_ context.Context, chunks []models.Chunk) error {
	m.chunks = append(m.chunks, chunks...)
	return nil
}

func (m *memoryIndex) SimilaritySearch(_ context.Context, _ string, k int) ([]models.Chunk, error) {
	if len(m.chunks) > k {
		return m.chunks[:k], nil
	}
	return m.chunks, nil
}

func (m *memoryIndex) GetBySource(_ context.Context, sourceID string) ([]models.Chunk, error) {
	var result []models.Chunk
	for _, chunk := range m.chunks {
		if chunk.Source == sourceID {
			result = append(result, chunk)
		}
	}
	return result, nil
}

func (m *memoryIndex) DeleteBySource(_ context.Context, sourceID string) error {
	var kept []models.Chunk
	for _, chunk := range m.chunks {
		if chunk.Source != sourceID {
			kept = append(kept, chunk)
		}
	}
	m.chunks = kept
	return nil
}

func (m *memoryIndex) ListSources(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var sources []string
	for _, chunk := range m.chunks {
		if !seen[chunk.Source] {
			seen[chunk.Source] = true
			sources = append(sources, chunk.Source)
		}
	}
	return sources, nil
}

// staticModel answers every completion with a fixed string.
type staticModel struct{}

func (staticModel) Complete(_ context.Context, _ string, _ []models.ConversationTurn, _ string) (string, error) {
	return "answer", nil
}

func (staticModel) CompletePrompt(_ context.Context, _ string) (string, error) {
	return "generated summary", nil
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestDeleteInvalidatesSummaryCache(t *testing.T) {
	gin.SetMode(gin.TestMode)
	idx := &memoryIndex{chunks: []models.Chunk{
		{ChunkID: "bio-0", Source: "bio", Order: 0, Content: "Cells have membranes."},
	}}
	cache := services.NewMemorySummaryCache(time.Hour)
	summarizer := services.NewSummarizationService(idx, staticModel{}, cache,
		"Summarize this section:\n%s", "Merge these notes:\n%s")

	ctx := context.Background()
	first, err := summarizer.Summarize(ctx, "bio")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	router := gin.New()
	SetupDocumentRoutes(router, idx, cache)

	w := postJSON(router, "/delete", `{"file_name":"bio.txt"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	// The cached summary must not survive its document: summarizing a
	// deleted document reports it missing even within the TTL.
	_, err = summarizer.Summarize(ctx, "bio")
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestDeleteUnknownDocumentSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupDocumentRoutes(router, &memoryIndex{}, services.NewMemorySummaryCache(time.Hour))

	w := postJSON(router, "/delete", `{"file_name":"never uploaded.pdf"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestDeleteRequiresFileName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupDocumentRoutes(router, &memoryIndex{}, services.NewMemorySummaryCache(time.Hour))

	w := postJSON(router, "/delete", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDocuments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	idx := &memoryIndex{chunks: []models.Chunk{
		{ChunkID: "bio-0", Source: "bio", Order: 0, Content: "a"},
		{ChunkID: "chem-0", Source: "chem", Order: 0, Content: "b"},
	}}
	router := gin.New()
	SetupDocumentRoutes(router, idx, services.NewMemorySummaryCache(time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bio")
	assert.Contains(t, w.Body.String(), "chem")
}
