package routes

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"clarity-backend/internal/config"
	"clarity-backend/internal/logger"
	"clarity-backend/internal/queue"
	"clarity-backend/middleware"
	"clarity-backend/models"
	"clarity-backend/services"
	"clarity-backend/utils"
)

var allowedExtensions = map[string]bool{
	".txt": true,
	".pdf": true,
}

// SetupUploadRoutes wires the document ingestion endpoint. Files above
// the sync limit are queued for the worker; smaller ones are processed
// inline so the caller gets the chunk count immediately.
func SetupUploadRoutes(router *gin.Engine, cfg *config.Config, ingestion *services.IngestionService, queueClient *asynq.Client) {
	router.POST("/upload", func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExtensions[ext] {
			utils.RespondWithServiceError(c, fmt.Errorf("%w: %s", models.ErrUnsupportedFormat, ext))
			return
		}

		if file.Size > cfg.MaxFileSize {
			utils.RespondWithError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Sprintf("File exceeds the %d byte limit", cfg.MaxFileSize), nil)
			return
		}

		if err := os.MkdirAll(cfg.FileStorageDir, 0o755); err != nil {
			utils.RespondWithInternalError(c, "Failed to store uploaded file", nil)
			return
		}

		// Temp name keeps the extension so the loader can dispatch on it
		tempPath := filepath.Join(cfg.FileStorageDir, uuid.NewString()+ext)
		if err := c.SaveUploadedFile(file, tempPath); err != nil {
			utils.RespondWithInternalError(c, "Failed to store uploaded file", nil)
			return
		}

		if queueClient != nil && file.Size > cfg.SyncProcessingLimit {
			enqueueUpload(c, queueClient, tempPath, file.Filename)
			return
		}

		defer os.Remove(tempPath)
		sourceID, chunkCount, err := ingestion.IngestFile(c.Request.Context(), tempPath, file.Filename)
		if err != nil {
			utils.RespondWithServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Message:    fmt.Sprintf("File %s has been successfully uploaded", file.Filename),
			Source:     sourceID,
			ChunkCount: chunkCount,
		})
	})
}

func enqueueUpload(c *gin.Context, queueClient *asynq.Client, tempPath, originalName string) {
	taskID := uuid.NewString()
	task, err := queue.NewIngestTask(tempPath, originalName, taskID)
	if err != nil {
		os.Remove(tempPath)
		utils.RespondWithInternalError(c, "Failed to queue upload", nil)
		return
	}

	if _, err := queueClient.Enqueue(task); err != nil {
		os.Remove(tempPath)
		logger.Error("Upload enqueue failed",
			"request_id", middleware.GetRequestID(c),
			"file", originalName,
			"error", err)
		utils.RespondWithInternalError(c, "Failed to queue upload", nil)
		return
	}

	logger.Info("Upload queued",
		"request_id", middleware.GetRequestID(c),
		"task_id", taskID,
		"file", originalName)
	c.JSON(http.StatusAccepted, models.AsyncUploadResponse{
		TaskID:  taskID,
		Status:  models.StatusPending,
		Message: fmt.Sprintf("File %s is being processed", originalName),
	})
}
