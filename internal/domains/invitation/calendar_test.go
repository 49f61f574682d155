package invitation

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grandPalaceEvent(t *testing.T) CalendarEvent {
	t.Helper()
	event, err := NewCalendarEvent(&PersistedInvitation{
		BrideName: "Ananya",
		GroomName: "Raj",
		Venue:     "The Grand Palace",
		Date:      "2025-12-20T17:00:00",
	})
	require.NoError(t, err)
	return event
}

func TestCalendarEventBasics(t *testing.T) {
	event := grandPalaceEvent(t)

	assert.Equal(t, time.Date(2025, 12, 20, 17, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2025, 12, 20, 20, 0, 0, 0, time.UTC), event.End(),
		"event spans three hours")
	assert.Equal(t, "Ananya & Raj — Wedding Ceremony", event.Summary())
	assert.Equal(t, "ananya-raj-wedding.ics", event.FileName())
}

func TestCalendarICSPayload(t *testing.T) {
	ics := string(grandPalaceEvent(t).ICS())
	lines := strings.Split(ics, "\r\n")

	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])

	assert.Contains(t, lines, "VERSION:2.0")
	assert.Contains(t, lines, "PRODID:-//Wedding Invite//EN")
	assert.Contains(t, lines, "DTSTART:20251220T170000Z")
	assert.Contains(t, lines, "DTEND:20251220T200000Z")
	assert.Contains(t, lines, "DTSTAMP:20251220T170000Z")
	assert.Contains(t, lines, "SUMMARY:Ananya & Raj — Wedding Ceremony")
	assert.Contains(t, lines, "LOCATION:The Grand Palace")

	// Reminder alarm one day before.
	assert.Contains(t, lines, "TRIGGER:-P1D")
	assert.Contains(t, lines, "ACTION:DISPLAY")
	assert.Contains(t, lines, "DESCRIPTION:Reminder: wedding event is tomorrow")

	for _, line := range lines {
		if strings.HasPrefix(line, "UID:") {
			assert.True(t, strings.HasSuffix(line, "@wedding-invite"), "got %s", line)
			return
		}
	}
	t.Fatal("no UID line in ICS payload")
}

func TestGoogleCalendarURL(t *testing.T) {
	raw := grandPalaceEvent(t).GoogleCalendarURL("Asia/Kolkata")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", u.Host)
	assert.Equal(t, "/calendar/render", u.Path)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Ananya & Raj — Wedding Ceremony", q.Get("text"))
	assert.Equal(t, "20251220T170000Z/20251220T200000Z", q.Get("dates"))
	assert.Equal(t, "Ananya & Raj's wedding at The Grand Palace.", q.Get("details"))
	assert.Equal(t, "The Grand Palace", q.Get("location"))
	assert.Equal(t, "Asia/Kolkata", q.Get("ctz"))
}

func TestNewCalendarEventUnparseableTime(t *testing.T) {
	_, err := NewCalendarEvent(&PersistedInvitation{Date: "someday"})

	var terr *InvalidEventTimeError
	assert.ErrorAs(t, err, &terr)
}
