package invitation

import (
	"strings"
	"time"
)

// Defaults shown by the wizard and the template preview when a slot is
// left empty.
const (
	DefaultHeadline    = "We cordially invite you to join us"
	DefaultCouplePhoto = "/assets/couple.jpg"
	DefaultHeroImage   = "/assets/hero.jpg"

	FirstStoryIcon = "☕"
	AddedStoryIcon = "💑"
)

// ExpiryWindow is the advisory lifetime stored on every persisted
// invitation. Nothing enforces it; it exists for external cleanup.
const ExpiryWindow = 30 * 24 * time.Hour

// MediaHolder carries an uploaded image as its data-URL encoding, plus the
// original file metadata. The data URL feeds both the preview and the
// object-store upload.
type MediaHolder struct {
	FileName    string `json:"fileName,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	DataURL     string `json:"dataUrl,omitempty"`
}

// IsSet reports whether any media was attached to the slot.
func (m MediaHolder) IsSet() bool {
	return m.DataURL != ""
}

// IsEncoded reports whether the payload is a well-formed data URL. Only
// encoded payloads can be uploaded.
func (m MediaHolder) IsEncoded() bool {
	return strings.HasPrefix(m.DataURL, "data:")
}

// VenueDetail is the ceremony/reception sub-record. It counts as present
// only when its venue is filled in.
type VenueDetail struct {
	Venue string `json:"venue"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

func (v VenueDetail) Present() bool {
	return strings.TrimSpace(v.Venue) != ""
}

// StoryCard is one entry of the couple's story timeline. A card without a
// title is treated as an empty slot and never rendered or persisted.
type StoryCard struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func (s StoryCard) Present() bool {
	return strings.TrimSpace(s.Title) != ""
}

// Draft is the mutable invitation being authored by the wizard. It is
// owned by a single authoring session; once published to the draft channel
// it is read-only for every downstream consumer.
type Draft struct {
	BrideName string `json:"brideName"`
	GroomName string `json:"groomName"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Venue     string `json:"venue"`
	Location  string `json:"location"`
	Headline  string `json:"headline"`

	CouplePhoto MediaHolder `json:"couplePhoto"`
	HeroImage   MediaHolder `json:"heroImage"`

	Ceremony  VenueDetail `json:"ceremony"`
	Reception VenueDetail `json:"reception"`
	DressCode string      `json:"dressCode"`

	StoryCards    []StoryCard   `json:"storyCards"`
	GalleryImages []MediaHolder `json:"galleryImages"`
}

// NewDraft returns an empty draft the way the wizard starts: default
// headline and a single empty story card slot.
func NewDraft() *Draft {
	return &Draft{
		Headline:   DefaultHeadline,
		StoryCards: []StoryCard{{Icon: FirstStoryIcon}},
	}
}

// Clone deep-copies the draft so callers can hand it out without sharing
// the mutable slices.
func (d *Draft) Clone() *Draft {
	clone := *d
	clone.StoryCards = append([]StoryCard(nil), d.StoryCards...)
	clone.GalleryImages = append([]MediaHolder(nil), d.GalleryImages...)
	return &clone
}

// HasDetails reports whether the wedding-details section has any content.
func (d *Draft) HasDetails() bool {
	return d.Ceremony.Present() || d.Reception.Present() || strings.TrimSpace(d.DressCode) != ""
}

// HasStory reports whether at least one story card is titled.
func (d *Draft) HasStory() bool {
	for _, card := range d.StoryCards {
		if card.Present() {
			return true
		}
	}
	return false
}

// HasGallery reports whether any gallery image was attached.
func (d *Draft) HasGallery() bool {
	return len(d.GalleryImages) > 0
}

// Complete reports whether the draft fills every optional section.
// Incompleteness is advisory: the author may generate anyway after an
// explicit confirmation.
func (d *Draft) Complete() bool {
	return d.HasDetails() && d.HasStory() && d.HasGallery()
}

// MissingSections lists the optional sections the author has not filled,
// in the order the review screen presents them.
func (d *Draft) MissingSections() []string {
	var missing []string
	if !d.HasDetails() {
		missing = append(missing, "Wedding Details (Ceremony, Reception, Dress Code)")
	}
	if !d.HasStory() {
		missing = append(missing, "Story Cards")
	}
	if !d.HasGallery() {
		missing = append(missing, "Gallery Images")
	}
	return missing
}

// TitledStoryCards filters out empty story slots; only these are persisted
// and rendered.
func (d *Draft) TitledStoryCards() []StoryCard {
	cards := make([]StoryCard, 0, len(d.StoryCards))
	for _, card := range d.StoryCards {
		if card.Present() {
			cards = append(cards, card)
		}
	}
	return cards
}

// EventStart combines the wedding date and time into a single instant.
// Values are treated as wall-clock time, not converted between zones.
func (d *Draft) EventStart() (time.Time, error) {
	return ParseEventStart(d.Date, d.Time)
}

// ParseEventStart parses a date plus optional time into an instant. The
// date may already embed a time component.
func ParseEventStart(date, clock string) (time.Time, error) {
	if strings.Contains(date, "T") {
		for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
			if t, err := time.ParseInLocation(layout, date, time.UTC); err == nil {
				return t, nil
			}
		}
	}
	if clock == "" {
		return time.ParseInLocation("2006-01-02", date, time.UTC)
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidEventTimeError{Date: date, Time: clock}
}

// PersistedInvitation is the finalized record written to the document
// store: the draft's fields with media holders replaced by resolved
// object-store URLs. Field names mirror the public JSON shape.
type PersistedInvitation struct {
	ID string `json:"id,omitempty"`

	BrideName string `json:"brideName"`
	GroomName string `json:"groomName"`
	Headline  string `json:"headline"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Venue     string `json:"venue"`
	Location  string `json:"location"`

	CouplePhoto string `json:"couplePhoto"`
	HeroImage   string `json:"heroImage"`

	Ceremony  VenueDetail `json:"ceremony"`
	Reception VenueDetail `json:"reception"`
	DressCode string      `json:"dressCode"`

	StoryCards    []StoryCard `json:"storyCards"`
	GalleryImages []string    `json:"galleryImages"`

	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (p *PersistedInvitation) HasDetails() bool {
	return p.Ceremony.Present() || p.Reception.Present() || strings.TrimSpace(p.DressCode) != ""
}

func (p *PersistedInvitation) HasStory() bool {
	for _, card := range p.StoryCards {
		if card.Present() {
			return true
		}
	}
	return false
}

func (p *PersistedInvitation) HasGallery() bool {
	return len(p.GalleryImages) > 0
}

// EventStart combines the persisted date and time into a single instant.
func (p *PersistedInvitation) EventStart() (time.Time, error) {
	return ParseEventStart(p.Date, p.Time)
}
