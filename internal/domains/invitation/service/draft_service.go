package service

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/channel"

	"github.com/rs/xid"
)

// MediaFile is one uploaded file before encoding.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Encode produces the data-URL media holder used for previews and, later,
// the object-store upload.
func (f MediaFile) Encode() invitation.MediaHolder {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return invitation.MediaHolder{
		FileName:    f.Name,
		ContentType: contentType,
		DataURL:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(f.Data),
	}
}

// Media slot names accepted by AttachMedia.
const (
	SlotCouplePhoto = "couple-photo"
	SlotHeroImage   = "hero-image"
)

// DraftService owns every in-flight authoring session. Each session holds
// exactly one mutable draft; all mutations take the session lock, so
// concurrent requests interleave per field instead of clobbering the
// whole draft.
type DraftService struct {
	mu       sync.RWMutex
	sessions map[string]*draftSession
	channel  *channel.Channel
	ttl      time.Duration

	// encodeHook, when set, runs before each gallery encode with the
	// file's submission index. Tests use it to force adversarial
	// completion orders.
	encodeHook func(index int)
}

type draftSession struct {
	mu        sync.Mutex
	draft     *invitation.Draft
	published bool
	// publishedComplete is the frozen copy's completeness at publish
	// time. The gate reads this, not the live draft: edits after a
	// publish must not open or close the gate.
	publishedComplete bool
	confirmed         bool
	expiresAt         time.Time
}

func NewDraftService(ch *channel.Channel, ttl time.Duration) *DraftService {
	return &DraftService{
		sessions: make(map[string]*draftSession),
		channel:  ch,
		ttl:      ttl,
	}
}

// Create starts a fresh authoring session and returns its id.
func (s *DraftService) Create(ctx context.Context) (string, *invitation.Draft) {
	id := xid.New().String()
	sess := &draftSession{
		draft:     invitation.NewDraft(),
		expiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.pruneLocked()
	s.sessions[id] = sess
	s.mu.Unlock()

	return id, sess.draft.Clone()
}

func (s *DraftService) session(id string) (*draftSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || time.Now().After(sess.expiresAt) {
		return nil, invitation.ErrDraftNotFound
	}
	return sess, nil
}

// pruneLocked drops expired sessions; caller holds s.mu.
func (s *DraftService) pruneLocked() {
	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// Get returns a copy of the current draft.
func (s *DraftService) Get(ctx context.Context, id string) (*invitation.Draft, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.draft.Clone(), nil
}

// Update applies a partial update of the top-level scalar fields. Fields
// not present in the request are left as they are (last writer wins per
// field, not per draft).
func (s *DraftService) Update(ctx context.Context, id string, req invitation.UpdateDraftRequest) (*invitation.Draft, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	d := sess.draft
	setIf(&d.BrideName, req.BrideName)
	setIf(&d.GroomName, req.GroomName)
	setIf(&d.Date, req.Date)
	setIf(&d.Time, req.Time)
	setIf(&d.Venue, req.Venue)
	setIf(&d.Location, req.Location)
	setIf(&d.Headline, req.Headline)
	setIf(&d.DressCode, req.DressCode)
	return d.Clone(), nil
}

// UpdateSection patches one of the ceremony/reception sub-records,
// preserving siblings that are not sent.
func (s *DraftService) UpdateSection(ctx context.Context, id, section string, req invitation.VenueDetailRequest) (*invitation.Draft, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var target *invitation.VenueDetail
	switch section {
	case "ceremony":
		target = &sess.draft.Ceremony
	case "reception":
		target = &sess.draft.Reception
	default:
		return nil, invitation.ErrIndexOutOfRange
	}
	setIf(&target.Venue, req.Venue)
	setIf(&target.Date, req.Date)
	setIf(&target.Time, req.Time)
	return sess.draft.Clone(), nil
}

// AppendStoryCard adds a new empty card and returns its index.
func (s *DraftService) AppendStoryCard(ctx context.Context, id string) (int, error) {
	sess, err := s.session(id)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.draft.StoryCards = append(sess.draft.StoryCards, invitation.StoryCard{Icon: invitation.AddedStoryIcon})
	return len(sess.draft.StoryCards) - 1, nil
}

// UpdateStoryCard patches the card at index. Out-of-bounds indexes are an
// explicit error, not a silent no-op.
func (s *DraftService) UpdateStoryCard(ctx context.Context, id string, index int, req invitation.StoryCardRequest) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.draft.StoryCards) {
		return invitation.ErrIndexOutOfRange
	}
	card := &sess.draft.StoryCards[index]
	setIf(&card.Icon, req.Icon)
	setIf(&card.Title, req.Title)
	setIf(&card.Date, req.Date)
	setIf(&card.Description, req.Description)
	return nil
}

// RemoveStoryCard removes the card at index. Removal down to zero cards is
// allowed here; keeping at least one visible slot is UI policy, not a
// mechanism concern.
func (s *DraftService) RemoveStoryCard(ctx context.Context, id string, index int) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.draft.StoryCards) {
		return invitation.ErrIndexOutOfRange
	}
	sess.draft.StoryCards = append(sess.draft.StoryCards[:index], sess.draft.StoryCards[index+1:]...)
	return nil
}

// AttachMedia encodes the file and installs it into the named slot. Only
// the slot field is written, so edits to unrelated fields made while the
// file was in flight survive.
func (s *DraftService) AttachMedia(ctx context.Context, id, slot string, file MediaFile) (*invitation.Draft, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	holder := file.Encode()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch slot {
	case SlotCouplePhoto:
		sess.draft.CouplePhoto = holder
	case SlotHeroImage:
		sess.draft.HeroImage = holder
	default:
		return nil, invitation.ErrIndexOutOfRange
	}
	return sess.draft.Clone(), nil
}

// AppendGallery encodes every file concurrently and appends the results.
// Each file is tagged with its submission index up front and lands in that
// slot, so the final order matches submission order no matter which encode
// finishes first.
func (s *DraftService) AppendGallery(ctx context.Context, id string, files []MediaFile) (*invitation.Draft, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	encoded := make([]invitation.MediaHolder, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file MediaFile) {
			defer wg.Done()
			if s.encodeHook != nil {
				s.encodeHook(i)
			}
			encoded[i] = file.Encode()
		}(i, file)
	}
	wg.Wait()

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.draft.GalleryImages = append(sess.draft.GalleryImages, encoded...)
	return sess.draft.Clone(), nil
}

// RemoveGalleryImage removes one gallery entry.
func (s *DraftService) RemoveGalleryImage(ctx context.Context, id string, index int) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if index < 0 || index >= len(sess.draft.GalleryImages) {
		return invitation.ErrIndexOutOfRange
	}
	sess.draft.GalleryImages = append(sess.draft.GalleryImages[:index], sess.draft.GalleryImages[index+1:]...)
	return nil
}

// Review runs the validation gate and, on success, freezes a copy of the
// draft into the channel for the downstream steps. The returned result
// carries the advisory missing-section list; each publish re-arms the
// incompleteness gate.
func (s *DraftService) Review(ctx context.Context, id string) (*invitation.ReviewResult, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := sess.draft.ValidateForReview(); err != nil {
		return nil, err
	}

	frozen := sess.draft.Clone()
	if err := s.channel.Publish(ctx, id, frozen); err != nil {
		return nil, err
	}
	sess.published = true
	sess.publishedComplete = frozen.Complete()
	sess.confirmed = false

	return &invitation.ReviewResult{
		DraftID:         id,
		Complete:        frozen.Complete(),
		MissingSections: frozen.MissingSections(),
	}, nil
}

// ConfirmIncomplete records the author's explicit "continue anyway" for a
// published, incomplete draft.
func (s *DraftService) ConfirmIncomplete(ctx context.Context, id string) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.published {
		return invitation.ErrNotPublished
	}
	sess.confirmed = true
	return nil
}

// ReadyForGeneration checks the gate before the pipeline may start: the
// draft must be published, and an incomplete published copy needs the
// author's confirmation. The gate is evaluated against the frozen copy,
// because that is what the pipeline consumes; it can only be cleared by
// an explicit confirm, never automatically.
func (s *DraftService) ReadyForGeneration(ctx context.Context, id string) error {
	sess, err := s.session(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.published {
		return invitation.ErrNotPublished
	}
	if !sess.publishedComplete && !sess.confirmed {
		return invitation.ErrMissingSections
	}
	return nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
