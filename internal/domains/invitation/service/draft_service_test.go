package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitation-backend/internal/domains/invitation"
	"invitation-backend/internal/domains/invitation/channel"
)

// memoryCache is the JSON-round-tripping stand-in for redis shared by the
// service tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	setErr  error
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) Ping(ctx context.Context) error { return nil }

func newTestDraftService() (*DraftService, *channel.Channel) {
	ch := channel.New(newMemoryCache(), time.Hour, 4<<20)
	return NewDraftService(ch, time.Hour), ch
}

func fillRequired(t *testing.T, s *DraftService, id string) {
	t.Helper()
	bride, groom := "Ananya", "Raj"
	date, clock := "2025-12-20", "17:00"
	venue := "The Grand Palace"
	_, err := s.Update(context.Background(), id, invitation.UpdateDraftRequest{
		BrideName: &bride,
		GroomName: &groom,
		Date:      &date,
		Time:      &clock,
		Venue:     &venue,
	})
	require.NoError(t, err)
}

func TestCreateStartsFreshSession(t *testing.T) {
	s, _ := newTestDraftService()
	id, draft := s.Create(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, invitation.DefaultHeadline, draft.Headline)
	require.Len(t, draft.StoryCards, 1)

	id2, _ := s.Create(context.Background())
	assert.NotEqual(t, id, id2)
}

func TestGetUnknownSession(t *testing.T) {
	s, _ := newTestDraftService()
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, invitation.ErrDraftNotFound)
}

func TestUpdateIsPartialPerField(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	bride := "Ananya"
	_, err := s.Update(ctx, id, invitation.UpdateDraftRequest{BrideName: &bride})
	require.NoError(t, err)

	groom := "Raj"
	draft, err := s.Update(ctx, id, invitation.UpdateDraftRequest{GroomName: &groom})
	require.NoError(t, err)

	assert.Equal(t, "Ananya", draft.BrideName, "unsent fields stay put")
	assert.Equal(t, "Raj", draft.GroomName)
	assert.Equal(t, invitation.DefaultHeadline, draft.Headline)
}

func TestUpdateSectionPreservesSiblings(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	venue := "Chapel"
	clock := "5:00 PM"
	_, err := s.UpdateSection(ctx, id, "ceremony", invitation.VenueDetailRequest{Venue: &venue, Time: &clock})
	require.NoError(t, err)

	date := "June 14, 2026"
	draft, err := s.UpdateSection(ctx, id, "ceremony", invitation.VenueDetailRequest{Date: &date})
	require.NoError(t, err)

	assert.Equal(t, invitation.VenueDetail{Venue: "Chapel", Date: "June 14, 2026", Time: "5:00 PM"}, draft.Ceremony)
	assert.Empty(t, draft.Reception.Venue, "reception untouched")
}

func TestStoryCardLifecycle(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	index, err := s.AppendStoryCard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, index)

	title := "The Proposal"
	require.NoError(t, s.UpdateStoryCard(ctx, id, index, invitation.StoryCardRequest{Title: &title}))

	draft, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, draft.StoryCards, 2)
	assert.Equal(t, invitation.AddedStoryIcon, draft.StoryCards[1].Icon)
	assert.Equal(t, "The Proposal", draft.StoryCards[1].Title)

	require.NoError(t, s.RemoveStoryCard(ctx, id, 0))
	draft, err = s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, draft.StoryCards, 1)
	assert.Equal(t, "The Proposal", draft.StoryCards[0].Title)

	// Removing down to zero cards is allowed.
	require.NoError(t, s.RemoveStoryCard(ctx, id, 0))
	draft, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, draft.StoryCards)
}

func TestStoryCardIndexBounds(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	title := "x"
	assert.ErrorIs(t, s.UpdateStoryCard(ctx, id, 5, invitation.StoryCardRequest{Title: &title}), invitation.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.UpdateStoryCard(ctx, id, -1, invitation.StoryCardRequest{Title: &title}), invitation.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveStoryCard(ctx, id, 1), invitation.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.RemoveGalleryImage(ctx, id, 0), invitation.ErrIndexOutOfRange)
}

func TestAttachMediaOnlyTouchesItsSlot(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	draft, err := s.AttachMedia(ctx, id, SlotCouplePhoto, MediaFile{
		Name:        "us.png",
		ContentType: "image/png",
		Data:        []byte("pixels"),
	})
	require.NoError(t, err)

	assert.True(t, draft.CouplePhoto.IsEncoded())
	assert.Equal(t, "us.png", draft.CouplePhoto.FileName)
	assert.True(t, strings.HasPrefix(draft.CouplePhoto.DataURL, "data:image/png;base64,"))
	assert.False(t, draft.HeroImage.IsSet())
	assert.Equal(t, "Ananya", draft.BrideName, "in-flight field edits survive")
}

func TestAttachMediaDefaultsContentType(t *testing.T) {
	holder := MediaFile{Name: "a", Data: []byte("x")}.Encode()
	assert.True(t, strings.HasPrefix(holder.DataURL, "data:image/jpeg;base64,"))
}

func TestAppendGalleryKeepsSubmissionOrder(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	files := make([]MediaFile, 8)
	for i := range files {
		files[i] = MediaFile{Name: fmt.Sprintf("photo-%d.jpg", i), Data: []byte{byte(i)}}
	}

	// Delay earlier submissions so later encodes finish first.
	s.encodeHook = func(index int) {
		time.Sleep(time.Duration(len(files)-index) * time.Millisecond)
	}

	draft, err := s.AppendGallery(ctx, id, files)
	require.NoError(t, err)

	require.Len(t, draft.GalleryImages, len(files))
	for i, img := range draft.GalleryImages {
		assert.Equal(t, fmt.Sprintf("photo-%d.jpg", i), img.FileName)
	}
}

func TestAppendGalleryAppendsAfterExisting(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	_, err := s.AppendGallery(ctx, id, []MediaFile{{Name: "first.jpg", Data: []byte("a")}})
	require.NoError(t, err)
	draft, err := s.AppendGallery(ctx, id, []MediaFile{{Name: "second.jpg", Data: []byte("b")}})
	require.NoError(t, err)

	require.Len(t, draft.GalleryImages, 2)
	assert.Equal(t, "first.jpg", draft.GalleryImages[0].FileName)
	assert.Equal(t, "second.jpg", draft.GalleryImages[1].FileName)
}

func TestRemoveGalleryImage(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	_, err := s.AppendGallery(ctx, id, []MediaFile{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	})
	require.NoError(t, err)

	require.NoError(t, s.RemoveGalleryImage(ctx, id, 0))
	draft, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, draft.GalleryImages, 1)
	assert.Equal(t, "b.jpg", draft.GalleryImages[0].FileName)
}

func TestReviewRejectsIncompleteRequiredFields(t *testing.T) {
	s, ch := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)

	_, err := s.Review(ctx, id)
	var verr *invitation.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = ch.Current(ctx, id)
	assert.ErrorIs(t, err, invitation.ErrNotPublished, "failed review publishes nothing")
}

func TestReviewPublishesFrozenCopy(t *testing.T) {
	s, ch := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	result, err := s.Review(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, result.DraftID)
	assert.False(t, result.Complete)
	assert.Equal(t, []string{
		"Wedding Details (Ceremony, Reception, Dress Code)",
		"Story Cards",
		"Gallery Images",
	}, result.MissingSections)

	// Edits after publish do not leak into the frozen copy.
	venue := "Elsewhere"
	_, err = s.Update(ctx, id, invitation.UpdateDraftRequest{Venue: &venue})
	require.NoError(t, err)

	frozen, err := ch.Current(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "The Grand Palace", frozen.Venue)
}

func TestGenerationGate(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	// Not reviewed yet.
	assert.ErrorIs(t, s.ReadyForGeneration(ctx, id), invitation.ErrNotPublished)
	assert.ErrorIs(t, s.ConfirmIncomplete(ctx, id), invitation.ErrNotPublished)

	_, err := s.Review(ctx, id)
	require.NoError(t, err)

	// Published but incomplete and unconfirmed.
	assert.ErrorIs(t, s.ReadyForGeneration(ctx, id), invitation.ErrMissingSections)

	require.NoError(t, s.ConfirmIncomplete(ctx, id))
	assert.NoError(t, s.ReadyForGeneration(ctx, id))
}

func TestRepublishRearmsConfirmation(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	_, err := s.Review(ctx, id)
	require.NoError(t, err)
	require.NoError(t, s.ConfirmIncomplete(ctx, id))
	require.NoError(t, s.ReadyForGeneration(ctx, id))

	// Going back to edit and reviewing again requires a fresh confirm.
	_, err = s.Review(ctx, id)
	require.NoError(t, err)
	assert.ErrorIs(t, s.ReadyForGeneration(ctx, id), invitation.ErrMissingSections)
}

func TestGateTracksPublishedCopyNotLiveDraft(t *testing.T) {
	s, ch := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	_, err := s.Review(ctx, id)
	require.NoError(t, err)
	assert.ErrorIs(t, s.ReadyForGeneration(ctx, id), invitation.ErrMissingSections)

	// Completing the live draft after the publish must not clear the
	// gate: the pipeline would still consume the incomplete frozen copy.
	dress := "Traditional"
	_, err = s.Update(ctx, id, invitation.UpdateDraftRequest{DressCode: &dress})
	require.NoError(t, err)
	title := "First Meeting"
	require.NoError(t, s.UpdateStoryCard(ctx, id, 0, invitation.StoryCardRequest{Title: &title}))
	_, err = s.AppendGallery(ctx, id, []MediaFile{{Name: "a.jpg", Data: []byte("a")}})
	require.NoError(t, err)

	frozen, err := ch.Current(ctx, id)
	require.NoError(t, err)
	require.False(t, frozen.Complete())
	assert.ErrorIs(t, s.ReadyForGeneration(ctx, id), invitation.ErrMissingSections)

	// The mirror case: once a complete copy is published, later edits
	// that hollow out the live draft must not re-arm the gate either.
	_, err = s.Review(ctx, id)
	require.NoError(t, err)
	require.NoError(t, s.ReadyForGeneration(ctx, id))

	empty := ""
	_, err = s.Update(ctx, id, invitation.UpdateDraftRequest{DressCode: &empty})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStoryCard(ctx, id, 0, invitation.StoryCardRequest{Title: &empty}))
	require.NoError(t, s.RemoveGalleryImage(ctx, id, 0))

	assert.NoError(t, s.ReadyForGeneration(ctx, id))
}

func TestCompleteDraftNeedsNoConfirmation(t *testing.T) {
	s, _ := newTestDraftService()
	ctx := context.Background()
	id, _ := s.Create(ctx)
	fillRequired(t, s, id)

	dress := "Traditional"
	_, err := s.Update(ctx, id, invitation.UpdateDraftRequest{DressCode: &dress})
	require.NoError(t, err)
	title := "First Meeting"
	require.NoError(t, s.UpdateStoryCard(ctx, id, 0, invitation.StoryCardRequest{Title: &title}))
	_, err = s.AppendGallery(ctx, id, []MediaFile{{Name: "a.jpg", Data: []byte("a")}})
	require.NoError(t, err)

	result, err := s.Review(ctx, id)
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Empty(t, result.MissingSections)
	assert.NoError(t, s.ReadyForGeneration(ctx, id))
}
