package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/models"
	"clarity-backend/services"
	"clarity-backend/utils"
)

// SetupStudyRoutes wires summarization and flashcard generation.
func SetupStudyRoutes(router *gin.Engine, summarizer *services.SummarizationService, flashcards *services.FlashcardService) {
	router.POST("/summarize", func(c *gin.Context) {
		var req models.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "file_name is required", nil)
			return
		}

		sourceID := services.NormalizeSourceID(req.FileName)
		summary, err := summarizer.Summarize(c.Request.Context(), sourceID)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"answer": summary})
	})

	router.POST("/flashcards", func(c *gin.Context) {
		var req models.FlashcardRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "file_name is required", nil)
			return
		}

		sourceID := services.NormalizeSourceID(req.FileName)
		cards, err := flashcards.Generate(c.Request.Context(), sourceID, req.Count)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"flash_cards": cards})
	})
}
