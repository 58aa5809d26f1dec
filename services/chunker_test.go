package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkEmptyText(t *testing.T) {
	chunker := NewChunkerService(1000, 50)

	assert.Nil(t, chunker.Chunk("", "notes"))
	assert.Nil(t, chunker.Chunk("   \n\t  ", "notes"))
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	chunker := NewChunkerService(1000, 50)

	chunks := chunker.Chunk("A short note about mitochondria.", "biology")
	require.Len(t, chunks, 1)
	assert.Equal(t, "biology-0", chunks[0].ChunkID)
	assert.Equal(t, "biology", chunks[0].Source)
	assert.Equal(t, 0, chunks[0].Order)
	assert.Equal(t, "A short note about mitochondria.", chunks[0].Content)
}

func TestChunkRespectsMaxSize(t *testing.T) {
	chunker := NewChunkerService(200, 20)

	var builder strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&builder, "Sentence number %d talks about cell structure. ", i)
	}

	chunks := chunker.Chunk(builder.String(), "bio")
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 200, "chunk %s too long", chunk.ChunkID)
		assert.NotEmpty(t, strings.TrimSpace(chunk.Content))
	}
}

func TestChunkIDsAndOrderAreSequential(t *testing.T) {
	chunker := NewChunkerService(100, 10)

	text := strings.Repeat("Some words about photosynthesis and light. ", 20)
	chunks := chunker.Chunk(text, "plants")

	for i, chunk := range chunks {
		assert.Equal(t, fmt.Sprintf("plants-%d", i), chunk.ChunkID)
		assert.Equal(t, i, chunk.Order)
	}
}

func TestChunkOverlapCarriesPreviousTail(t *testing.T) {
	chunker := NewChunkerService(100, 20)

	text := strings.Repeat("abcdefghij ", 40)
	chunks := chunker.Chunk(text, "doc")
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		// Each chunk starts with the tail of the previous segment, so
		// some prefix of it must appear near the end of the previous
		// chunk's content.
		prefix := chunks[i].Content[:10]
		assert.Contains(t, chunks[i-1].Content, prefix,
			"chunk %d does not overlap its predecessor", i)
	}
}

func TestChunkIsDeterministic(t *testing.T) {
	chunker := NewChunkerService(150, 30)
	text := strings.Repeat("The Krebs cycle produces ATP. ", 30)

	first := chunker.Chunk(text, "bio")
	second := chunker.Chunk(text, "bio")
	assert.Equal(t, first, second)
}

func TestChunkPrefersParagraphBoundaries(t *testing.T) {
	chunker := NewChunkerService(100, 0)

	para1 := strings.Repeat("alpha ", 12)
	para2 := strings.Repeat("beta ", 12)
	chunks := chunker.Chunk(para1 + "\n\n" + para2, "doc")

	require.Len(t, chunks, 2)
	assert.NotContains(t, chunks[0].Content, "beta")
	assert.NotContains(t, chunks[1].Content, "alpha")
}

func TestChunkLongUnbrokenText(t *testing.T) {
	chunker := NewChunkerService(100, 10)

	// No separators at all: the character-level fallback must still
	// produce bounded chunks covering the whole input.
	text := strings.Repeat("x", 1000)
	chunks := chunker.Chunk(text, "raw")

	require.NotEmpty(t, chunks)
	total := 0
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
		total += len(chunk.Content)
	}
	assert.GreaterOrEqual(t, total, 1000)
}
