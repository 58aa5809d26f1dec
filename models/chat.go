package models

// ConversationTurn is one message in a caller-supplied dialogue history.
// The backend holds no session state; the full history arrives on every
// /chat request.
type ConversationTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// AnswerResult pairs a generated answer with the chunk texts it was
// grounded on, for attribution in the UI.
type AnswerResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// AskRequest is the stateless question endpoint payload.
type AskRequest struct {
	Query string `json:"query" binding:"required"`
}

// ChatRequest carries a question plus replayed conversation history.
type ChatRequest struct {
	Query       string             `json:"query" binding:"required"`
	ChatHistory []ConversationTurn `json:"chat_history"`
}

// DocumentRequest names a previously ingested document by source id.
type DocumentRequest struct {
	FileName string `json:"file_name" binding:"required"`
}

// FlashcardRequest optionally overrides how many cards to generate.
type FlashcardRequest struct {
	FileName string `json:"file_name" binding:"required"`
	Count    int    `json:"count"`
}
