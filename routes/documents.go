package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clarity-backend/internal/index"
	"clarity-backend/internal/logger"
	"clarity-backend/middleware"
	"clarity-backend/models"
	"clarity-backend/services"
	"clarity-backend/utils"
)

// SetupDocumentRoutes wires document listing and deletion.
func SetupDocumentRoutes(router *gin.Engine, idx index.VectorIndex, summaryCache services.SummaryCache) {
	router.GET("/documents", func(c *gin.Context) {
		sources, err := idx.ListSources(c.Request.Context())
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}
		if sources == nil {
			sources = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"file_names": sources})
	})

	// Deleting an unknown document still succeeds; the end state is the
	// same either way.
	router.POST("/delete", func(c *gin.Context) {
		var req models.DocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "file_name is required", nil)
			return
		}

		sourceID := services.NormalizeSourceID(req.FileName)
		if err := idx.DeleteBySource(c.Request.Context(), sourceID); err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		// A cached summary must not outlive its document
		summaryCache.Invalidate(c.Request.Context(), sourceID)

		logger.Info("Document deleted",
			"request_id", middleware.GetRequestID(c),
			"source", sourceID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}
