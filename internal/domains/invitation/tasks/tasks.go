// Package tasks defines the background task passed from the API to the
// generation worker.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeGenerate runs the upload/persist pipeline for a published draft.
	TypeGenerate = "invitation:generate"

	QueueDefault = "default"
)

// GeneratePayload identifies the job and the published draft to consume.
type GeneratePayload struct {
	JobID   string `json:"job_id"`
	DraftID string `json:"draft_id"`
}

func NewGenerateTask(jobID, draftID string) (*asynq.Task, error) {
	payload, err := json.Marshal(GeneratePayload{JobID: jobID, DraftID: draftID})
	if err != nil {
		return nil, fmt.Errorf("marshal generate payload: %w", err)
	}
	return asynq.NewTask(TypeGenerate, payload), nil
}

func ParseGeneratePayload(task *asynq.Task) (GeneratePayload, error) {
	var payload GeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return GeneratePayload{}, fmt.Errorf("unmarshal generate payload: %w", err)
	}
	return payload, nil
}

// Enqueuer abstracts task submission so tests can run the pipeline
// synchronously.
type Enqueuer interface {
	EnqueueGenerate(ctx context.Context, jobID, draftID string) error
}

// AsynqEnqueuer submits tasks to the redis-backed queue. Generation is not
// retried automatically: a failed run surfaces its error through the
// progress store and the author restarts it explicitly.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) EnqueueGenerate(ctx context.Context, jobID, draftID string) error {
	task, err := NewGenerateTask(jobID, draftID)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue generate task: %w", err)
	}
	return nil
}
