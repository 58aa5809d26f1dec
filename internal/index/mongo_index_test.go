package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/models"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0, 0}, []float32{1, 0, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0, 0}, []float32{0, 1, 0}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Magnitude must not affect the score
	assert.InDelta(t,
		cosineSimilarity([]float32{1, 2, 3}, []float32{4, 5, 6}),
		cosineSimilarity([]float32{2, 4, 6}, []float32{4, 5, 6}),
		1e-9)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, cosineSimilarity(nil, nil))
	assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	chunk := models.Chunk{
		ChunkID: "bio-0",
		Source:  "bio",
		Order:   0,
		Content: strings.Repeat("Mitochondria produce ATP through oxidative phosphorylation. ", 20),
	}
	vector := []float32{0.1, 0.2, 0.3}

	record, err := encodeRecord(chunk, vector)
	require.NoError(t, err)
	assert.True(t, record.Compressed)
	assert.Equal(t, "brotli", record.Compression)
	assert.NotEqual(t, chunk.Content, record.Text)
	assert.Equal(t, vector, record.Vector)
	assert.False(t, record.UpdatedAt.IsZero())

	restored, err := decodeRecord(record)
	require.NoError(t, err)
	assert.Equal(t, chunk, restored)
}

func TestEncodeRecordSmallChunkStaysPlain(t *testing.T) {
	chunk := models.Chunk{
		ChunkID: "bio-1",
		Source:  "bio",
		Order:   1,
		Content: "short",
	}

	record, err := encodeRecord(chunk, []float32{0.5})
	require.NoError(t, err)
	assert.False(t, record.Compressed)
	assert.Equal(t, "short", record.Text)

	restored, err := decodeRecord(record)
	require.NoError(t, err)
	assert.Equal(t, chunk, restored)
}

func TestDecodeRecordBadBase64(t *testing.T) {
	record := models.ChunkIndex{
		ChunkID:     "bad-0",
		Compressed:  true,
		Compression: "brotli",
		Text:        "not base64 !!!",
	}

	_, err := decodeRecord(record)
	assert.Error(t, err)
}
