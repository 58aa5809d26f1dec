package services

import (
	"context"
	"fmt"
	"strings"

	"clarity-backend/models"
)

// Completer is the text generation collaborator used by the question
// answering and study services. Satisfied by ai.GeminiClient.
type Completer interface {
	Complete(ctx context.Context, system string, history []models.ConversationTurn, prompt string) (string, error)
	CompletePrompt(ctx context.Context, prompt string) (string, error)
}

const chatSystemPrompt = `You are a study assistant that answers questions about the user's uploaded notes.
Base your answers on the provided documents, using the conversation so far for context.
If the documents do not contain the answer, say "Answer not found in notes" and suggest what the user could upload or ask instead.`

const askSystemPrompt = `You are a study assistant that answers questions about the user's uploaded notes.
Answer using only the provided documents.
If the documents do not contain the answer, reply with "Answer not found in notes" and nothing else.`

// AnswerService is the read path: retrieve relevant chunks, assemble
// them into a prompt alongside the conversation history, and ask the
// model for a single grounded answer.
type AnswerService struct {
	retriever *Retriever
	completer Completer
}

func NewAnswerService(retriever *Retriever, completer Completer) *AnswerService {
	return &AnswerService{retriever: retriever, completer: completer}
}

// Answer runs one retrieval-augmented completion. The history is
// replayed to the model verbatim; retrieved chunks only back the
// current query, not past turns.
func (as *AnswerService) Answer(ctx context.Context, query string, history []models.ConversationTurn) (*models.AnswerResult, error) {
	chunks, err := as.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	system := chatSystemPrompt
	if len(history) == 0 {
		system = askSystemPrompt
	}

	prompt := buildAnswerPrompt(query, chunks)
	answer, err := as.completer.Complete(ctx, system, history, prompt)
	if err != nil {
		return nil, err
	}

	sources := make([]string, len(chunks))
	for i, chunk := range chunks {
		sources[i] = chunk.Content
	}

	return &models.AnswerResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// buildAnswerPrompt inlines the retrieved chunks, in retrieval order,
// after the user's question.
func buildAnswerPrompt(query string, chunks []models.Chunk) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Question: %s\n\nRelevant documents:\n\n", query)
	if len(chunks) == 0 {
		builder.WriteString("(no documents found)\n")
	}
	for i, chunk := range chunks {
		fmt.Fprintf(&builder, "[%d] %s\n\n", i+1, chunk.Content)
	}
	builder.WriteString("Please answer the question based on the documents above.")
	return builder.String()
}
