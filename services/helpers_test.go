package services

import (
	"context"
	"fmt"

	"clarity-backend/models"
)

// fakeCompleter scripts model responses and records every prompt it
// receives.
type fakeCompleter struct {
	responses []string
	err       error

	calls          int
	prompts        []string
	lastSystem     string
	lastHistoryLen int
}

func (f *fakeCompleter) Complete(_ context.Context, system string, history []models.ConversationTurn, prompt string) (string, error) {
	f.lastSystem = system
	f.lastHistoryLen = len(history)
	return f.next(prompt)
}

func (f *fakeCompleter) CompletePrompt(_ context.Context, prompt string) (string, error) {
	return f.next(prompt)
}

func (f *fakeCompleter) next(prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return fmt.Sprintf("response %d", f.calls), nil
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response, nil
}

// fakeIndex is an in-memory VectorIndex. Similarity search returns
// chunks in insertion order; good enough for services that only care
// about what comes back, not ranking.
type fakeIndex struct {
	chunks    []models.Chunk
	searchErr error
	getErr    error
}

func (f *fakeIndex) Upsert(_ context.Context, chunks []models.Chunk) error {
	for _, chunk := range chunks {
		replaced := false
		for i, existing := range f.chunks {
			if existing.ChunkID == chunk.ChunkID {
				f.chunks[i] = chunk
				replaced = true
				break
			}
		}
		if !replaced {
			f.chunks = append(f.chunks, chunk)
		}
	}
	return nil
}

func (f *fakeIndex) SimilaritySearch(_ context.Context, _ string, k int) ([]models.Chunk, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.chunks) > k {
		return f.chunks[:k], nil
	}
	return f.chunks, nil
}

func (f *fakeIndex) GetBySource(_ context.Context, sourceID string) ([]models.Chunk, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var result []models.Chunk
	for _, chunk := range f.chunks {
		if chunk.Source == sourceID {
			result = append(result, chunk)
		}
	}
	return result, nil
}

func (f *fakeIndex) DeleteBySource(_ context.Context, sourceID string) error {
	var kept []models.Chunk
	for _, chunk := range f.chunks {
		if chunk.Source != sourceID {
			kept = append(kept, chunk)
		}
	}
	f.chunks = kept
	return nil
}

func (f *fakeIndex) ListSources(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var sources []string
	for _, chunk := range f.chunks {
		if !seen[chunk.Source] {
			seen[chunk.Source] = true
			sources = append(sources, chunk.Source)
		}
	}
	return sources, nil
}
