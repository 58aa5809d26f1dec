package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/models"
)

func newFlashcardFixture(completer *fakeCompleter) *FlashcardService {
	idx := &fakeIndex{chunks: []models.Chunk{
		{ChunkID: "bio-0", Source: "bio", Order: 0, Content: "Cells have membranes."},
	}}
	summarizer := newSummarizer(idx, completer, nil)
	return NewFlashcardService(summarizer, completer, 15)
}

func TestGenerateFlashcards(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"note",
		"summary",
		`[{"question":"What bounds a cell?","answer":"A membrane."},{"question":"What makes ATP?","answer":"Mitochondria."}]`,
	}}

	svc := newFlashcardFixture(completer)
	cards, err := svc.Generate(context.Background(), "bio", 2)
	require.NoError(t, err)

	require.Len(t, cards, 2)
	assert.Equal(t, "What bounds a cell?", cards[0].Question)
	assert.Equal(t, "A membrane.", cards[0].Answer)
}

func TestGenerateFlashcardsStripsCodeFence(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"note",
		"summary",
		"```json\n[{\"question\":\"Q\",\"answer\":\"A\"}]\n```",
	}}

	svc := newFlashcardFixture(completer)
	cards, err := svc.Generate(context.Background(), "bio", 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q", cards[0].Question)
}

func TestGenerateFlashcardsDefaultCount(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"note",
		"summary",
		`[{"question":"Q","answer":"A"}]`,
	}}

	svc := newFlashcardFixture(completer)
	_, err := svc.Generate(context.Background(), "bio", 0)
	require.NoError(t, err)

	// The final prompt is the flashcard request; it must carry the
	// configured default count.
	last := completer.prompts[len(completer.prompts)-1]
	assert.Contains(t, last, strconv.Itoa(15))
}

func TestGenerateFlashcardsMalformedJSON(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"note",
		"summary",
		"Here are your flashcards! 1) What is a cell?",
	}}

	svc := newFlashcardFixture(completer)
	_, err := svc.Generate(context.Background(), "bio", 3)

	var parseErr *models.FlashcardParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Raw, "Here are your flashcards!")
}

func TestGenerateFlashcardsEmptyList(t *testing.T) {
	completer := &fakeCompleter{responses: []string{"note", "summary", "[]"}}

	svc := newFlashcardFixture(completer)
	_, err := svc.Generate(context.Background(), "bio", 3)

	var parseErr *models.FlashcardParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerateFlashcardsMissingFields(t *testing.T) {
	completer := &fakeCompleter{responses: []string{
		"note",
		"summary",
		`[{"question":"Q","answer":""}]`,
	}}

	svc := newFlashcardFixture(completer)
	_, err := svc.Generate(context.Background(), "bio", 1)

	var parseErr *models.FlashcardParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestGenerateFlashcardsUnknownDocument(t *testing.T) {
	completer := &fakeCompleter{}
	idx := &fakeIndex{}
	summarizer := newSummarizer(idx, completer, nil)
	svc := NewFlashcardService(summarizer, completer, 15)

	_, err := svc.Generate(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`[1]`, `[1]`},
		{"```json\n[1]\n```", `[1]`},
		{"```\n[1]\n```", `[1]`},
		{"  ```json\n[1]\n```  ", `[1]`},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in), "input %q", tt.in)
	}
}
