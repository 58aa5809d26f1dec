package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/models"
	"clarity-backend/services"
	"clarity-backend/utils"
)

// SetupChatRoutes wires the question answering endpoints. /ask is the
// stateless one-shot variant; /chat replays the caller's history.
func SetupChatRoutes(router *gin.Engine, answers *services.AnswerService) {
	router.POST("/ask", func(c *gin.Context) {
		var req models.AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "query is required", nil)
			return
		}

		result, err := answers.Answer(c.Request.Context(), req.Query, nil)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "query is required", nil)
			return
		}

		result, err := answers.Answer(c.Request.Context(), req.Query, req.ChatHistory)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}
