package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hibiken/asynq"

	"clarity-backend/internal/logger"
	"clarity-backend/models"
	"clarity-backend/services"
)

const TaskIngestDocument = "document:ingest"

type IngestPayload struct {
	FilePath     string `json:"file_path"`
	OriginalName string `json:"original_name"`
	TaskID       string `json:"task_id"`
}

func NewIngestTask(filePath, originalName, taskID string) (*asynq.Task, error) {
	payload, err := json.Marshal(IngestPayload{
		FilePath:     filePath,
		OriginalName: originalName,
		TaskID:       taskID,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskIngestDocument,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("critical"),
	), nil
}

type TaskProcessor struct {
	ingestion *services.IngestionService
}

func NewTaskProcessor(ingestion *services.IngestionService) *TaskProcessor {
	return &TaskProcessor{ingestion: ingestion}
}

// HandleIngestDocument processes one queued upload. The temp file is
// removed whether ingestion succeeds or not; retrying would reread it,
// so only transient failures keep it on disk.
func (p *TaskProcessor) HandleIngestDocument(ctx context.Context, t *asynq.Task) error {
	var payload IngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	logger.Info("Processing queued upload", "task_id", payload.TaskID, "file", payload.OriginalName)

	sourceID, chunkCount, err := p.ingestion.IngestFile(ctx, payload.FilePath, payload.OriginalName)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedFormat) || errors.Is(err, models.ErrEmptyDocument) {
			// Permanent: the file will not get better on retry
			os.Remove(payload.FilePath)
			logger.Error("Queued upload rejected", "task_id", payload.TaskID, "error", err)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		logger.Error("Queued upload failed", "task_id", payload.TaskID, "error", err)
		return err
	}

	os.Remove(payload.FilePath)
	logger.Info("Queued upload completed",
		"task_id", payload.TaskID,
		"source", sourceID,
		"chunks", chunkCount)
	return nil
}
