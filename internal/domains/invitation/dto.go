package invitation

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateForReview enforces the reviewable invariant: couple names, date,
// time and venue must all be present before the author may leave the
// authoring step. It never mutates the draft; on failure the returned
// *ValidationError names every missing field.
func (d *Draft) ValidateForReview() error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.BrideName, validation.Required.Error("bride name is required")),
		validation.Field(&d.GroomName, validation.Required.Error("groom name is required")),
		validation.Field(&d.Date, validation.Required.Error("wedding date is required")),
		validation.Field(&d.Time, validation.Required.Error("wedding time is required")),
		validation.Field(&d.Venue, validation.Required.Error("venue is required")),
	)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}

// UpdateDraftRequest carries a partial update of the top-level scalar
// fields. Nil pointers leave the field untouched, so concurrent updates of
// unrelated fields never clobber each other.
type UpdateDraftRequest struct {
	BrideName *string `json:"brideName"`
	GroomName *string `json:"groomName"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Venue     *string `json:"venue"`
	Location  *string `json:"location"`
	Headline  *string `json:"headline"`
	DressCode *string `json:"dressCode"`
}

// VenueDetailRequest updates one of the ceremony/reception sub-records,
// preserving sibling fields that are not sent.
type VenueDetailRequest struct {
	Venue *string `json:"venue"`
	Date  *string `json:"date"`
	Time  *string `json:"time"`
}

// StoryCardRequest updates one field or more of a story card.
type StoryCardRequest struct {
	Icon        *string `json:"icon"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

func (r StoryCardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Icon, validation.Length(0, 8).Error("icon must be a short glyph")),
		validation.Field(&r.Title, validation.Length(0, 120)),
	)
}

// ReviewResult is returned when a draft passes the review gate.
type ReviewResult struct {
	DraftID         string   `json:"draftId"`
	Complete        bool     `json:"complete"`
	MissingSections []string `json:"missingSections,omitempty"`
}

// GenerationStatus is the polled view of a generation job.
type GenerationStatus struct {
	JobID        string `json:"jobId"`
	Stage        Stage  `json:"stage"`
	Percent      int    `json:"percent"`
	InvitationID string `json:"invitationId,omitempty"`
	Error        string `json:"error,omitempty"`
}

// ShareInfo bundles everything the share screen needs.
type ShareInfo struct {
	Link      string            `json:"link"`
	Text      string            `json:"text"`
	Platforms map[string]string `json:"platforms"`
}
