package invitation

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors mapped to HTTP responses by the handler layer.
var (
	// ErrDraftNotFound: no authoring session exists for the given id.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrNotFound: the public resolver found no record for the identifier.
	// Surfaced as an "invalid or expired link" message.
	ErrNotFound = errors.New("invitation not found")

	// ErrUnavailable: the document store could not be reached. Distinct
	// from ErrNotFound so the caller can say "try again later".
	ErrUnavailable = errors.New("invitation store unavailable")

	// ErrInvalidMediaEncoding: a media slot holds a payload that is not a
	// well-formed data URL. The whole generation aborts.
	ErrInvalidMediaEncoding = errors.New("media payload is not a valid data URL")

	// ErrIndexOutOfRange: a story-card or gallery index does not exist.
	// Out-of-bounds operations fail loudly instead of silently no-opping.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotPublished: generation was requested before the draft passed
	// review and was published to the channel.
	ErrNotPublished = errors.New("draft has not been published for review")

	// ErrMissingSections: the draft is incomplete and the author has not
	// confirmed continuing anyway.
	ErrMissingSections = errors.New("draft has missing optional sections")

	// ErrPayloadTooLarge: the serialized draft exceeds the channel's size
	// ceiling.
	ErrPayloadTooLarge = errors.New("draft payload exceeds the size ceiling")

	// ErrUnknownPlatform: share target is not one of the supported ones.
	ErrUnknownPlatform = errors.New("unknown share platform")
)

// ValidationError reports every required authoring field that is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidEventTimeError reports an unparseable wedding date/time pair.
type InvalidEventTimeError struct {
	Date string
	Time string
}

func (e *InvalidEventTimeError) Error() string {
	return fmt.Sprintf("invalid event date/time %q %q", e.Date, e.Time)
}

// UploadError wraps a failure of one step of the generation pipeline,
// keeping which stage and object key failed. Blobs uploaded before the
// failure are not rolled back.
type UploadError struct {
	Stage Stage
	Key   string
	Err   error
}

func (e *UploadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Key, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
