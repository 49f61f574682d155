package service

import (
	"context"

	"invitation-backend/internal/config"
	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/channel"
	"invitation-backend/internal/domains/invitation/render"
	"invitation-backend/internal/domains/invitation/repository"
	"invitation-backend/internal/domains/invitation/tasks"

	"github.com/rs/xid"
)

// InvitationService is the read/orchestration side: it starts generation
// jobs, reports their progress, resolves public invitations and composes
// the share and calendar surfaces.
type InvitationService struct {
	drafts   *DraftService
	channel  *channel.Channel
	repo     repository.Repository
	progress ProgressStore
	enqueuer tasks.Enqueuer
	share    config.ShareConfig
}

func NewInvitationService(
	drafts *DraftService,
	ch *channel.Channel,
	repo repository.Repository,
	progress ProgressStore,
	enqueuer tasks.Enqueuer,
	share config.ShareConfig,
) *InvitationService {
	return &InvitationService{
		drafts:   drafts,
		channel:  ch,
		repo:     repo,
		progress: progress,
		enqueuer: enqueuer,
		share:    share,
	}
}

// StartGeneration checks the gate and hands the published draft to the
// worker. The returned job id is what the progress screen polls.
func (s *InvitationService) StartGeneration(ctx context.Context, draftID string) (string, error) {
	if err := s.drafts.ReadyForGeneration(ctx, draftID); err != nil {
		return "", err
	}
	// The worker reads the draft from the channel; make sure it is there
	// before the job is visible.
	if _, err := s.channel.Current(ctx, draftID); err != nil {
		return "", err
	}

	jobID := xid.New().String()
	initial := invitation.GenerationStatus{JobID: jobID, Stage: invitation.StageIdle, Percent: 0}
	if err := s.progress.Set(ctx, jobID, initial); err != nil {
		return "", err
	}

	if err := s.enqueuer.EnqueueGenerate(ctx, jobID, draftID); err != nil {
		return "", err
	}
	return jobID, nil
}

// GenerationStatus reports the pipeline's current stage and percent.
func (s *InvitationService) GenerationStatus(ctx context.Context, jobID string) (invitation.GenerationStatus, error) {
	status, found, err := s.progress.Get(ctx, jobID)
	if err != nil {
		return invitation.GenerationStatus{}, err
	}
	if !found {
		return invitation.GenerationStatus{}, invitation.ErrNotFound
	}
	return status, nil
}

// ResolvePublic fetches a persisted invitation by its identifier.
// Repeated reads of the same identifier return equal records.
func (s *InvitationService) ResolvePublic(ctx context.Context, id string) (*invitation.PersistedInvitation, error) {
	return s.repo.GetByID(ctx, id)
}

// Share composes the share screen: canonical link, message text and one
// prefilled URL per platform.
func (s *InvitationService) Share(ctx context.Context, id string) (*invitation.ShareInfo, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	link := invitation.ShareLink(s.share.PublicBaseURL, id)
	text := invitation.ShareText(inv.BrideName, inv.GroomName)
	return &invitation.ShareInfo{
		Link:      link,
		Text:      text,
		Platforms: invitation.AllShareURLs(link, text),
	}, nil
}

// CalendarFile renders the downloadable .ics payload and its file name.
func (s *InvitationService) CalendarFile(ctx context.Context, id string) ([]byte, string, error) {
	event, err := s.calendarEvent(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return event.ICS(), event.FileName(), nil
}

// CalendarLink builds the external calendar URL with the event prefilled.
func (s *InvitationService) CalendarLink(ctx context.Context, id string) (string, error) {
	event, err := s.calendarEvent(ctx, id)
	if err != nil {
		return "", err
	}
	return event.GoogleCalendarURL(s.share.CalendarTZ), nil
}

func (s *InvitationService) calendarEvent(ctx context.Context, id string) (invitation.CalendarEvent, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return invitation.CalendarEvent{}, err
	}
	return invitation.NewCalendarEvent(inv)
}

// TemplateDocument renders the fixed demo invitation.
func (s *InvitationService) TemplateDocument() render.Document {
	return render.Compose(render.Sample(), render.ModeTemplate)
}

// ReviewDocument renders the published draft the way the public page
// will, so the author reviews exactly what guests will see.
func (s *InvitationService) ReviewDocument(ctx context.Context, draftID string) (render.Document, error) {
	draft, err := s.channel.Current(ctx, draftID)
	if err != nil {
		return render.Document{}, err
	}
	return render.Compose(render.FromDraft(draft), render.ModeReview), nil
}

// PublicDocument renders a persisted invitation for guests.
func (s *InvitationService) PublicDocument(ctx context.Context, id string) (render.Document, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return render.Document{}, err
	}
	return render.Compose(render.FromPersisted(inv), render.ModePublic), nil
}
