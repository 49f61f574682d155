package invitation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	assert.Equal(t, DefaultHeadline, d.Headline)
	require.Len(t, d.StoryCards, 1)
	assert.Equal(t, FirstStoryIcon, d.StoryCards[0].Icon)
	assert.False(t, d.StoryCards[0].Present(), "the starter card is an empty slot")
	assert.Empty(t, d.GalleryImages)
}

func TestDraftCloneIsIsolated(t *testing.T) {
	d := NewDraft()
	d.GalleryImages = []MediaHolder{{DataURL: "data:image/jpeg;base64,YQ=="}}

	clone := d.Clone()
	clone.StoryCards[0].Title = "changed"
	clone.GalleryImages[0].DataURL = "changed"
	clone.BrideName = "changed"

	assert.Empty(t, d.StoryCards[0].Title)
	assert.Equal(t, "data:image/jpeg;base64,YQ==", d.GalleryImages[0].DataURL)
	assert.Empty(t, d.BrideName)
}

func TestMediaHolderPredicates(t *testing.T) {
	assert.False(t, MediaHolder{}.IsSet())
	assert.True(t, MediaHolder{DataURL: "data:image/png;base64,YQ=="}.IsSet())
	assert.True(t, MediaHolder{DataURL: "data:image/png;base64,YQ=="}.IsEncoded())
	assert.False(t, MediaHolder{DataURL: "http://example.com/a.jpg"}.IsEncoded())
}

func TestSectionPresence(t *testing.T) {
	assert.False(t, VenueDetail{Date: "June 14", Time: "5 PM"}.Present(),
		"venue is the anchor field")
	assert.True(t, VenueDetail{Venue: "The Grand Palace"}.Present())
	assert.False(t, VenueDetail{Venue: "   "}.Present())

	assert.False(t, StoryCard{Description: "long story"}.Present(),
		"title is the anchor field")
	assert.True(t, StoryCard{Title: "First Meeting"}.Present())
}

func TestMissingSectionsOrder(t *testing.T) {
	d := NewDraft()
	assert.Equal(t, []string{
		"Wedding Details (Ceremony, Reception, Dress Code)",
		"Story Cards",
		"Gallery Images",
	}, d.MissingSections())
	assert.False(t, d.Complete())

	d.DressCode = "Traditional"
	assert.Equal(t, []string{"Story Cards", "Gallery Images"}, d.MissingSections())

	d.StoryCards[0].Title = "First Meeting"
	d.GalleryImages = append(d.GalleryImages, MediaHolder{DataURL: "data:image/jpeg;base64,YQ=="})
	assert.True(t, d.Complete())
	assert.Empty(t, d.MissingSections())
}

func TestHasDetailsAnyField(t *testing.T) {
	var d Draft
	assert.False(t, d.HasDetails())

	d.Ceremony.Venue = "Chapel"
	assert.True(t, d.HasDetails())

	d = Draft{Reception: VenueDetail{Venue: "Banquet"}}
	assert.True(t, d.HasDetails())

	d = Draft{DressCode: "Formal"}
	assert.True(t, d.HasDetails())
}

func TestTitledStoryCards(t *testing.T) {
	d := Draft{StoryCards: []StoryCard{
		{Icon: FirstStoryIcon, Title: "First Meeting"},
		{Icon: AddedStoryIcon},
		{Icon: AddedStoryIcon, Title: "The Proposal"},
	}}

	cards := d.TitledStoryCards()
	require.Len(t, cards, 2)
	assert.Equal(t, "First Meeting", cards[0].Title)
	assert.Equal(t, "The Proposal", cards[1].Title)
}

func TestParseEventStart(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		want  time.Time
	}{
		{"date with embedded time", "2025-12-20T17:00:00", "", time.Date(2025, 12, 20, 17, 0, 0, 0, time.UTC)},
		{"date with short embedded time", "2025-12-20T17:00", "ignored", time.Date(2025, 12, 20, 17, 0, 0, 0, time.UTC)},
		{"separate date and time", "2025-12-20", "17:00", time.Date(2025, 12, 20, 17, 0, 0, 0, time.UTC)},
		{"seconds in clock", "2025-12-20", "17:00:30", time.Date(2025, 12, 20, 17, 0, 30, 0, time.UTC)},
		{"date only", "2025-12-20", "", time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventStart(tt.date, tt.clock)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseEventStartInvalid(t *testing.T) {
	_, err := ParseEventStart("next saturday", "5ish")

	var terr *InvalidEventTimeError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "next saturday", terr.Date)
	assert.Equal(t, "5ish", terr.Time)
}

func TestPersistedInvitationEventStart(t *testing.T) {
	inv := PersistedInvitation{Date: "2025-12-20", Time: "17:00"}
	start, err := inv.EventStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 20, 17, 0, 0, 0, time.UTC), start)
}
