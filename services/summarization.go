package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"clarity-backend/internal/index"
	"clarity-backend/internal/logger"
	"clarity-backend/models"
)

// SummarizationService builds a document summary with a map-reduce
// pipeline: each chunk is summarized on its own, then the per-chunk
// notes are folded into one final summary. Results are cached per
// source id; only complete summaries are cached.
type SummarizationService struct {
	index        index.VectorIndex
	completer    Completer
	cache        SummaryCache
	mapPrompt    string
	reducePrompt string
}

func NewSummarizationService(idx index.VectorIndex, completer Completer, cache SummaryCache, mapPrompt, reducePrompt string) *SummarizationService {
	return &SummarizationService{
		index:        idx,
		completer:    completer,
		cache:        cache,
		mapPrompt:    mapPrompt,
		reducePrompt: reducePrompt,
	}
}

func (ss *SummarizationService) Summarize(ctx context.Context, sourceID string) (string, error) {
	if summary, ok := ss.cache.Get(ctx, sourceID); ok {
		logger.Debug("Summary cache hit", "source", sourceID)
		return summary, nil
	}

	chunks, err := ss.index.GetBySource(ctx, sourceID)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: %s", models.ErrDocumentNotFound, sourceID)
	}

	// Map over document order so the reduce input reads coherently.
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Order < chunks[j].Order })

	notes := make([]string, len(chunks))
	for i, chunk := range chunks {
		note, err := ss.completer.CompletePrompt(ctx, fmt.Sprintf(ss.mapPrompt, chunk.Content))
		if err != nil {
			return "", fmt.Errorf("%w: map stage %s: %v", models.ErrSummarizationFailed, chunk.ChunkID, err)
		}
		notes[i] = strings.TrimSpace(note)
	}

	combined := strings.Join(notes, "\n\n---\n\n")
	summary, err := ss.completer.CompletePrompt(ctx, fmt.Sprintf(ss.reducePrompt, combined))
	if err != nil {
		return "", fmt.Errorf("%w: reduce stage %s: %v", models.ErrSummarizationFailed, sourceID, err)
	}
	summary = strings.TrimSpace(summary)

	ss.cache.Put(ctx, sourceID, summary)
	logger.Info("Summary generated", "source", sourceID, "chunks", len(chunks))
	return summary, nil
}
