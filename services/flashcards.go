package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"clarity-backend/models"
)

const flashcardPrompt = `Create exactly %d flashcards from the study summary below.
Respond with only a JSON array. Each element must be an object with "question" and "answer" string fields.
Do not wrap the JSON in markdown or add any commentary.

Summary:
%s`

// FlashcardService turns a document summary into question/answer study
// cards. The model must return strict JSON; malformed output is
// surfaced as a FlashcardParseError rather than repaired.
type FlashcardService struct {
	summarizer   *SummarizationService
	completer    Completer
	defaultCount int
}

func NewFlashcardService(summarizer *SummarizationService, completer Completer, defaultCount int) *FlashcardService {
	if defaultCount <= 0 {
		defaultCount = 15
	}
	return &FlashcardService{
		summarizer:   summarizer,
		completer:    completer,
		defaultCount: defaultCount,
	}
}

func (fs *FlashcardService) Generate(ctx context.Context, sourceID string, count int) ([]models.Flashcard, error) {
	if count <= 0 {
		count = fs.defaultCount
	}

	// Reuses a cached summary when one is still fresh.
	summary, err := fs.summarizer.Summarize(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	raw, err := fs.completer.CompletePrompt(ctx, fmt.Sprintf(flashcardPrompt, count, summary))
	if err != nil {
		return nil, err
	}

	return parseFlashcards(raw)
}

func parseFlashcards(raw string) ([]models.Flashcard, error) {
	cleaned := stripCodeFences(raw)

	var cards []models.Flashcard
	if err := json.Unmarshal([]byte(cleaned), &cards); err != nil {
		return nil, &models.FlashcardParseError{Reason: err.Error(), Raw: raw}
	}
	if len(cards) == 0 {
		return nil, &models.FlashcardParseError{Reason: "empty flashcard list", Raw: raw}
	}
	for i, card := range cards {
		if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
			return nil, &models.FlashcardParseError{
				Reason: fmt.Sprintf("card %d missing question or answer", i),
				Raw:    raw,
			}
		}
	}
	return cards, nil
}

// stripCodeFences removes a surrounding markdown code block, which
// models emit even when told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if newline := strings.Index(s, "\n"); newline >= 0 {
		s = s[newline+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
