package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/channel"
	"invitation-backend/internal/domains/invitation/service"
	"invitation-backend/internal/domains/invitation/tasks"
)

// GenerateHandler consumes invitation:generate tasks on the worker. The
// draft is rehydrated from the channel's fallback copy, since the worker
// never shares memory with the API process.
type GenerateHandler struct {
	channel  *channel.Channel
	uploader *service.Uploader
	progress service.ProgressStore
}

func NewGenerateHandler(ch *channel.Channel, uploader *service.Uploader, progress service.ProgressStore) *GenerateHandler {
	return &GenerateHandler{channel: ch, uploader: uploader, progress: progress}
}

func (h *GenerateHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := tasks.ParseGeneratePayload(task)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse generate payload")
		return err
	}

	draft, err := h.channel.Current(ctx, payload.DraftID)
	if err != nil {
		status := invitation.GenerationStatus{
			JobID: payload.JobID,
			Stage: invitation.StageFailed,
			Error: err.Error(),
		}
		if perr := h.progress.Set(ctx, payload.JobID, status); perr != nil {
			log.Warn().Err(perr).Str("job_id", payload.JobID).Msg("progress report failed")
		}
		return fmt.Errorf("load published draft %s: %w", payload.DraftID, err)
	}

	id, err := h.uploader.Run(ctx, payload.JobID, draft)
	if err != nil {
		// The uploader already recorded the failed stage; the author sees
		// the error on the progress screen and restarts explicitly.
		return fmt.Errorf("generate invitation: %w", err)
	}

	// The draft is consumed exactly once; release its slot.
	if err := h.channel.Discard(ctx, payload.DraftID); err != nil {
		log.Warn().Err(err).Str("draft_id", payload.DraftID).Msg("failed to discard consumed draft")
	}

	log.Info().
		Str("job_id", payload.JobID).
		Str("draft_id", payload.DraftID).
		Str("invitation_id", id).
		Msg("generation task completed")
	return nil
}
