package models

import (
	"errors"
	"fmt"
)

// Typed failures surfaced by the core pipeline. External collaborator
// errors (embedding service, vector store, language model) are wrapped
// in one of these and propagated without retry.
var (
	// ErrUnsupportedFormat is returned for uploads that are neither
	// .txt nor .pdf.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument is returned when a loader yields no extractable
	// text.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrIndexUnavailable wraps vector store connectivity failures.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrDocumentNotFound is returned when an operation references a
	// source id with no indexed chunks.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrModelUnavailable wraps language model failures, including an
	// open circuit breaker.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrModelTimeout is returned when a model call exceeds its
	// context deadline.
	ErrModelTimeout = errors.New("language model timed out")

	// ErrSummarizationFailed wraps any map or reduce stage failure.
	// Nothing is cached when it occurs.
	ErrSummarizationFailed = errors.New("summarization failed")
)

// FlashcardParseError reports a model response that could not be parsed
// into a complete flashcard batch. Raw carries the unmodified model
// output for diagnosis; partial batches are never returned.
type FlashcardParseError struct {
	Reason string
	Raw    string
}

func (e *FlashcardParseError) Error() string {
	return fmt.Sprintf("flashcard parse error: %s", e.Reason)
}
