package models

// Flashcard is a single question/answer study pair generated from a
// document summary. Flashcards are not persisted; they are regenerated
// per request (only the underlying summary is cached).
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
