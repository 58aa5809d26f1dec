package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/models"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends a standardized error response
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

// RespondWithServiceError maps core pipeline errors to HTTP responses.
// Only the taxonomy and a human-readable message leak out; wrapped
// collaborator details stay in the logs.
func RespondWithServiceError(c *gin.Context, err error) {
	var parseErr *models.FlashcardParseError

	switch {
	case errors.Is(err, models.ErrUnsupportedFormat):
		RespondWithBadRequest(c, "Unsupported file type. Supported file types: .txt, .pdf", nil)
	case errors.Is(err, models.ErrEmptyDocument):
		RespondWithBadRequest(c, "Document contains no extractable text", nil)
	case errors.Is(err, models.ErrDocumentNotFound):
		RespondWithNotFound(c, "Document not found")
	case errors.Is(err, models.ErrIndexUnavailable):
		RespondWithError(c, http.StatusServiceUnavailable, "index_unavailable",
			"Document index is temporarily unavailable", nil)
	case errors.Is(err, models.ErrModelTimeout):
		RespondWithError(c, http.StatusGatewayTimeout, "model_timeout",
			"The language model took too long to respond", nil)
	case errors.Is(err, models.ErrModelUnavailable):
		RespondWithError(c, http.StatusServiceUnavailable, "model_unavailable",
			"The language model is temporarily unavailable", nil)
	case errors.Is(err, models.ErrSummarizationFailed):
		RespondWithInternalError(c, "Failed to summarize document", nil)
	case errors.As(err, &parseErr):
		RespondWithError(c, http.StatusBadGateway, "flashcard_parse_error",
			"The language model returned malformed flashcards", nil)
	default:
		RespondWithInternalError(c, "Internal server error", nil)
	}
}
