// Package render maps invitation data to the section document the
// frontend lays out. One renderer serves the template demo, the authoring
// review and the public view, parameterized by mode and data source, so
// the section-presence rules cannot drift apart.
package render

import (
	"fmt"
	"net/url"

	"invitation-backend/internal/domains/invitation"
)

// Mode selects the rendering surface.
type Mode string

const (
	// ModeTemplate renders the fixed illustrative sample end-to-end.
	ModeTemplate Mode = "template"
	// ModeReview renders a live draft before generation.
	ModeReview Mode = "review"
	// ModePublic renders a persisted invitation for guests.
	ModePublic Mode = "public"
)

const (
	dateFormat = "Monday, January 2, 2006"
	timeFormat = "3:04 PM"
)

// defaultGallery is the illustrative image set shown in template mode when
// no gallery exists.
var defaultGallery = []string{
	"/assets/gallery-1.jpg", "/assets/gallery-2.jpg", "/assets/gallery-3.jpg",
	"/assets/gallery-4.jpg", "/assets/gallery-5.jpg", "/assets/gallery-6.jpg",
}

// Content is the neutral data model every source resolves to before
// composition. Media fields are display references: data URLs for drafts,
// object-store URLs for persisted records, asset paths for the sample.
type Content struct {
	BrideName string
	GroomName string
	Headline  string
	Date      string
	Time      string
	Venue     string
	Location  string

	CouplePhoto string
	HeroImage   string

	Ceremony  invitation.VenueDetail
	Reception invitation.VenueDetail
	DressCode string

	StoryCards []invitation.StoryCard
	Gallery    []string
}

// Sample is the fixed demo content behind the template preview.
func Sample() Content {
	return Content{
		BrideName:   "Ananya",
		GroomName:   "Raj",
		Headline:    invitation.DefaultHeadline,
		Date:        "2025-12-20",
		Time:        "17:00",
		Venue:       "The Grand Palace, Mumbai",
		CouplePhoto: invitation.DefaultCouplePhoto,
		HeroImage:   invitation.DefaultHeroImage,
		Ceremony:    invitation.VenueDetail{Venue: "The Grand Palace", Date: "June 14, 2026", Time: "5:00 PM"},
		Reception:   invitation.VenueDetail{Venue: "Rose Garden Banquet", Date: "June 15, 2026", Time: "8:00 PM"},
		DressCode:   "Traditional",
		StoryCards: []invitation.StoryCard{
			{Icon: "☕", Title: "First Meeting", Date: "March 2021", Description: "A chance encounter over coffee turned into hours of conversation."},
			{Icon: "💍", Title: "The Proposal", Date: "December 2024", Description: "Under the stars, a question was asked and answered with joyful tears."},
		},
		Gallery: defaultGallery,
	}
}

// FromDraft resolves a live draft, substituting the fixed placeholders for
// empty media slots the way the authoring preview does.
func FromDraft(d *invitation.Draft) Content {
	couple := invitation.DefaultCouplePhoto
	if d.CouplePhoto.IsSet() {
		couple = d.CouplePhoto.DataURL
	}
	hero := invitation.DefaultHeroImage
	if d.HeroImage.IsSet() {
		hero = d.HeroImage.DataURL
	}
	headline := d.Headline
	if headline == "" {
		headline = invitation.DefaultHeadline
	}

	gallery := make([]string, 0, len(d.GalleryImages))
	for _, img := range d.GalleryImages {
		gallery = append(gallery, img.DataURL)
	}

	return Content{
		BrideName:   d.BrideName,
		GroomName:   d.GroomName,
		Headline:    headline,
		Date:        d.Date,
		Time:        d.Time,
		Venue:       d.Venue,
		Location:    d.Location,
		CouplePhoto: couple,
		HeroImage:   hero,
		Ceremony:    d.Ceremony,
		Reception:   d.Reception,
		DressCode:   d.DressCode,
		StoryCards:  d.StoryCards,
		Gallery:     gallery,
	}
}

// FromPersisted resolves a persisted record fetched by the public
// resolver.
func FromPersisted(p *invitation.PersistedInvitation) Content {
	headline := p.Headline
	if headline == "" {
		headline = invitation.DefaultHeadline
	}
	return Content{
		BrideName:   p.BrideName,
		GroomName:   p.GroomName,
		Headline:    headline,
		Date:        p.Date,
		Time:        p.Time,
		Venue:       p.Venue,
		Location:    p.Location,
		CouplePhoto: p.CouplePhoto,
		HeroImage:   p.HeroImage,
		Ceremony:    p.Ceremony,
		Reception:   p.Reception,
		DressCode:   p.DressCode,
		StoryCards:  p.StoryCards,
		Gallery:     p.GalleryImages,
	}
}

// Document is the composed invitation page: one entry per section, nil
// when the section's presence predicate does not hold.
type Document struct {
	Mode    Mode            `json:"mode"`
	Hero    HeroSection     `json:"hero"`
	Details *DetailsSection `json:"details,omitempty"`
	Story   *StorySection   `json:"story,omitempty"`
	Gallery *GallerySection `json:"gallery,omitempty"`
	Map     *MapSection     `json:"map,omitempty"`
	RSVP    bool            `json:"rsvp"`
	Share   bool            `json:"share"`
}

type HeroSection struct {
	Names         string `json:"names"`
	Headline      string `json:"headline"`
	FormattedDate string `json:"formattedDate"`
	FormattedTime string `json:"formattedTime"`
	Venue         string `json:"venue"`
	CouplePhoto   string `json:"couplePhoto"`
	HeroImage     string `json:"heroImage"`
}

type DetailsSection struct {
	Ceremony  *invitation.VenueDetail `json:"ceremony,omitempty"`
	Reception *invitation.VenueDetail `json:"reception,omitempty"`
	DressCode string                  `json:"dressCode,omitempty"`
}

type StorySection struct {
	Cards []invitation.StoryCard `json:"cards"`
}

type GallerySection struct {
	Images []string `json:"images"`
}

type MapSection struct {
	Address  string `json:"address"`
	EmbedURL string `json:"embedUrl"`
}

// Compose builds the section document. Section visibility follows the
// presence predicates; template mode shows every section, falling back to
// the sample gallery when empty.
func Compose(c Content, mode Mode) Document {
	doc := Document{
		Mode:  mode,
		Hero:  heroSection(c),
		RSVP:  true,
		Share: mode != ModeReview,
	}

	if details := detailsSection(c); details != nil {
		doc.Details = details
	}

	if cards := titledCards(c.StoryCards); len(cards) > 0 {
		doc.Story = &StorySection{Cards: cards}
	}

	switch {
	case len(c.Gallery) > 0:
		doc.Gallery = &GallerySection{Images: c.Gallery}
	case mode == ModeTemplate:
		doc.Gallery = &GallerySection{Images: defaultGallery}
	}

	if address := mapAddress(c); address != "" {
		doc.Map = &MapSection{
			Address:  address,
			EmbedURL: "https://www.google.com/maps?q=" + url.QueryEscape(address) + "&output=embed",
		}
	}

	return doc
}

func heroSection(c Content) HeroSection {
	hero := HeroSection{
		Names:       fmt.Sprintf("%s & %s", c.BrideName, c.GroomName),
		Headline:    c.Headline,
		Venue:       c.Venue,
		CouplePhoto: c.CouplePhoto,
		HeroImage:   c.HeroImage,
	}
	if start, err := invitation.ParseEventStart(c.Date, c.Time); err == nil {
		hero.FormattedDate = start.Format(dateFormat)
		hero.FormattedTime = start.Format(timeFormat)
	} else {
		// Unparseable input renders verbatim rather than dropping the hero.
		hero.FormattedDate = c.Date
		hero.FormattedTime = c.Time
	}
	return hero
}

func detailsSection(c Content) *DetailsSection {
	hasDress := c.DressCode != ""
	if !c.Ceremony.Present() && !c.Reception.Present() && !hasDress {
		return nil
	}

	details := &DetailsSection{DressCode: c.DressCode}
	if c.Ceremony.Present() {
		ceremony := c.Ceremony
		details.Ceremony = &ceremony
	}
	if c.Reception.Present() {
		reception := c.Reception
		details.Reception = &reception
	}
	return details
}

func titledCards(cards []invitation.StoryCard) []invitation.StoryCard {
	titled := make([]invitation.StoryCard, 0, len(cards))
	for _, card := range cards {
		if card.Present() {
			titled = append(titled, card)
		}
	}
	return titled
}

// mapAddress keys the embedded map off the free-text location, falling
// back to the venue.
func mapAddress(c Content) string {
	if c.Location != "" {
		return c.Location
	}
	return c.Venue
}
