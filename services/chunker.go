package services

import (
	"fmt"
	"strings"

	"clarity-backend/models"
)

// ChunkerService splits document text into overlapping segments. It
// prefers semantic boundaries, trying separators in order: paragraph,
// line, sentence, word, then raw characters as a last resort.
type ChunkerService struct {
	maxChunkSize int
	overlap      int
	separators   []string
}

func NewChunkerService(maxChunkSize, overlap int) *ChunkerService {
	if maxChunkSize <= 0 {
		maxChunkSize = 1000
	}
	if overlap < 0 || overlap >= maxChunkSize {
		overlap = 0
	}
	return &ChunkerService{
		maxChunkSize: maxChunkSize,
		overlap:      overlap,
		separators:   []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// Chunk splits text into chunks of at most maxChunkSize characters.
// Consecutive chunks overlap by the configured amount: each chunk after
// the first is prefixed with the tail of its predecessor. Chunk IDs are
// deterministic (source + ordinal) so re-ingestion overwrites instead
// of duplicating.
func (cs *ChunkerService) Chunk(text, sourceID string) []models.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	// Reserve room for the overlap prefix so the invariant
	// len(content) <= maxChunkSize holds for every chunk.
	budget := cs.maxChunkSize - cs.overlap

	pieces := cs.split(text, cs.separators, budget)
	segments := mergePieces(pieces, budget)

	chunks := make([]models.Chunk, 0, len(segments))
	previous := ""
	for i, segment := range segments {
		content := segment
		if i > 0 && cs.overlap > 0 {
			content = overlapTail(previous, cs.overlap) + content
		}
		chunks = append(chunks, models.Chunk{
			ChunkID: fmt.Sprintf("%s-%d", sourceID, i),
			Source:  sourceID,
			Order:   i,
			Content: content,
		})
		previous = segment
	}
	return chunks
}

// split recursively breaks text into pieces no longer than budget,
// trying each separator in turn. Separators are kept attached to the
// preceding piece so concatenation reassembles the original text.
func (cs *ChunkerService) split(text string, separators []string, budget int) []string {
	if len(text) <= budget {
		return []string{text}
	}
	if len(separators) == 0 {
		return splitByLength(text, budget)
	}

	separator := separators[0]
	if separator == "" {
		return splitByLength(text, budget)
	}

	parts := strings.SplitAfter(text, separator)
	if len(parts) == 1 {
		// Separator absent at this level; fall through to the next one
		return cs.split(text, separators[1:], budget)
	}

	var pieces []string
	for _, part := range parts {
		if len(part) <= budget {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, cs.split(part, separators[1:], budget)...)
	}
	return pieces
}

// mergePieces packs adjacent pieces greedily into segments up to budget.
func mergePieces(pieces []string, budget int) []string {
	var segments []string
	current := new(strings.Builder)

	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(piece) > budget {
			if s := strings.TrimSpace(current.String()); s != "" {
				segments = append(segments, s)
			}
			current.Reset()
		}
		current.WriteString(piece)
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		segments = append(segments, s)
	}
	return segments
}

// splitByLength is the character-level fallback for text with no usable
// separators. Splits on rune boundaries.
func splitByLength(text string, budget int) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); {
		end := start + budget
		if end > len(runes) {
			end = len(runes)
		}
		// budget is in bytes; shrink until the rune slice fits
		for end > start+1 && len(string(runes[start:end])) > budget {
			end--
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

// overlapTail returns the last n bytes of text, on a rune boundary.
func overlapTail(text string, n int) string {
	if len(text) <= n {
		return text
	}
	runes := []rune(text)
	start := len(runes)
	for start > 0 && len(string(runes[start-1:])) <= n {
		start--
	}
	return string(runes[start:])
}
