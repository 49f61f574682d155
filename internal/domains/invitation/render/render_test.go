package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitation-backend/internal/domains/invitation"
)

func minimalDraft() *invitation.Draft {
	d := invitation.NewDraft()
	d.BrideName = "Ananya"
	d.GroomName = "Raj"
	d.Date = "2025-12-20"
	d.Time = "17:00"
	d.Venue = "The Grand Palace"
	return d
}

func TestTemplateShowsEverySection(t *testing.T) {
	doc := Compose(Sample(), ModeTemplate)

	assert.Equal(t, ModeTemplate, doc.Mode)
	assert.Equal(t, "Ananya & Raj", doc.Hero.Names)
	assert.Equal(t, "Saturday, December 20, 2025", doc.Hero.FormattedDate)
	assert.Equal(t, "5:00 PM", doc.Hero.FormattedTime)
	assert.NotNil(t, doc.Details)
	assert.NotNil(t, doc.Story)
	assert.NotNil(t, doc.Gallery)
	assert.NotNil(t, doc.Map)
	assert.True(t, doc.RSVP)
	assert.True(t, doc.Share)
}

func TestMinimalDraftHidesOptionalSections(t *testing.T) {
	doc := Compose(FromDraft(minimalDraft()), ModeReview)

	assert.Nil(t, doc.Details)
	assert.Nil(t, doc.Story, "the starter card has no title")
	assert.Nil(t, doc.Gallery, "no template fallback outside template mode")
	assert.False(t, doc.Share)
	assert.True(t, doc.RSVP)
}

func TestDraftMediaFallsBackToPlaceholders(t *testing.T) {
	content := FromDraft(minimalDraft())

	assert.Equal(t, invitation.DefaultCouplePhoto, content.CouplePhoto)
	assert.Equal(t, invitation.DefaultHeroImage, content.HeroImage)
	assert.Equal(t, invitation.DefaultHeadline, content.Headline)
}

func TestDraftMediaUsesDataURLsWhenSet(t *testing.T) {
	d := minimalDraft()
	d.CouplePhoto = invitation.MediaHolder{DataURL: "data:image/png;base64,YQ=="}
	d.GalleryImages = []invitation.MediaHolder{
		{DataURL: "data:image/png;base64,Zg=="},
		{DataURL: "data:image/png;base64,Zw=="},
	}

	doc := Compose(FromDraft(d), ModeReview)
	assert.Equal(t, "data:image/png;base64,YQ==", doc.Hero.CouplePhoto)
	require.NotNil(t, doc.Gallery)
	assert.Equal(t, []string{"data:image/png;base64,Zg==", "data:image/png;base64,Zw=="}, doc.Gallery.Images)
}

func TestDetailsSectionPartialPresence(t *testing.T) {
	d := minimalDraft()
	d.Ceremony = invitation.VenueDetail{Venue: "Chapel", Date: "June 14", Time: "5 PM"}

	doc := Compose(FromDraft(d), ModeReview)
	require.NotNil(t, doc.Details)
	require.NotNil(t, doc.Details.Ceremony)
	assert.Equal(t, "Chapel", doc.Details.Ceremony.Venue)
	assert.Nil(t, doc.Details.Reception, "reception has no venue, so it is hidden")
}

func TestStorySectionFiltersUntitledCards(t *testing.T) {
	d := minimalDraft()
	d.StoryCards = []invitation.StoryCard{
		{Icon: "☕", Title: "First Meeting"},
		{Icon: "💑"},
		{Icon: "💍", Title: "The Proposal"},
	}

	doc := Compose(FromDraft(d), ModeReview)
	require.NotNil(t, doc.Story)
	require.Len(t, doc.Story.Cards, 2)
	assert.Equal(t, "First Meeting", doc.Story.Cards[0].Title)
	assert.Equal(t, "The Proposal", doc.Story.Cards[1].Title)
}

func TestMapPrefersLocationOverVenue(t *testing.T) {
	d := minimalDraft()
	doc := Compose(FromDraft(d), ModeReview)
	require.NotNil(t, doc.Map)
	assert.Equal(t, "The Grand Palace", doc.Map.Address)

	d.Location = "12 Marine Drive, Mumbai"
	doc = Compose(FromDraft(d), ModeReview)
	assert.Equal(t, "12 Marine Drive, Mumbai", doc.Map.Address)
	assert.Contains(t, doc.Map.EmbedURL, "www.google.com/maps?q=")
	assert.Contains(t, doc.Map.EmbedURL, "output=embed")
}

func TestUnparseableDateRendersVerbatim(t *testing.T) {
	d := minimalDraft()
	d.Date = "winter solstice"
	d.Time = "sunset"

	doc := Compose(FromDraft(d), ModeReview)
	assert.Equal(t, "winter solstice", doc.Hero.FormattedDate)
	assert.Equal(t, "sunset", doc.Hero.FormattedTime)
}

// The review render of a draft and the public render of its persisted
// counterpart must expose the same section set.
func TestReviewAndPublicSectionsAgree(t *testing.T) {
	d := minimalDraft()
	d.DressCode = "Traditional"
	d.StoryCards[0].Title = "First Meeting"
	d.GalleryImages = []invitation.MediaHolder{{DataURL: "data:image/png;base64,YQ=="}}

	persisted := &invitation.PersistedInvitation{
		BrideName:     d.BrideName,
		GroomName:     d.GroomName,
		Date:          d.Date,
		Time:          d.Time,
		Venue:         d.Venue,
		DressCode:     d.DressCode,
		StoryCards:    d.TitledStoryCards(),
		GalleryImages: []string{"https://store.local/b/gallery-0.jpg"},
		CouplePhoto:   invitation.DefaultCouplePhoto,
		HeroImage:     invitation.DefaultHeroImage,
	}

	review := Compose(FromDraft(d), ModeReview)
	public := Compose(FromPersisted(persisted), ModePublic)

	assert.Equal(t, review.Details != nil, public.Details != nil)
	assert.Equal(t, review.Story != nil, public.Story != nil)
	assert.Equal(t, review.Gallery != nil, public.Gallery != nil)
	assert.Equal(t, review.Map != nil, public.Map != nil)
	assert.Equal(t, review.Hero.Names, public.Hero.Names)
}
