package invitation

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// The calendar event spans three hours from the ceremony start, with a
// display alarm one day before.
const (
	eventDuration = 3 * time.Hour
	alarmTrigger  = "-P1D"
	icsProdID     = "-//Wedding Invite//EN"
)

// CalendarEvent is the ceremony as a calendar entry: an iCalendar file
// download plus an external Google Calendar link.
type CalendarEvent struct {
	BrideName string
	GroomName string
	Venue     string
	Start     time.Time
}

// NewCalendarEvent builds the event from a persisted invitation.
func NewCalendarEvent(inv *PersistedInvitation) (CalendarEvent, error) {
	start, err := inv.EventStart()
	if err != nil {
		return CalendarEvent{}, err
	}
	return CalendarEvent{
		BrideName: inv.BrideName,
		GroomName: inv.GroomName,
		Venue:     inv.Venue,
		Start:     start,
	}, nil
}

func (e CalendarEvent) Summary() string {
	return fmt.Sprintf("%s & %s — Wedding Ceremony", e.BrideName, e.GroomName)
}

func (e CalendarEvent) End() time.Time {
	return e.Start.Add(eventDuration)
}

// FileName is the suggested download name, lowercased.
func (e CalendarEvent) FileName() string {
	return strings.ToLower(fmt.Sprintf("%s-%s-wedding.ics", e.BrideName, e.GroomName))
}

// compactUTC renders an instant in iCalendar basic format, e.g.
// 20251220T170000Z.
func compactUTC(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// ICS renders the iCalendar payload: one VEVENT with a VALARM triggering a
// display reminder one day before. DTSTAMP deliberately equals the event
// instant rather than generation time.
func (e CalendarEvent) ICS() []byte {
	start := compactUTC(e.Start)
	end := compactUTC(e.End())
	uid := fmt.Sprintf("%d@wedding-invite", time.Now().UnixMilli())

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icsProdID,
		"BEGIN:VEVENT",
		"UID:" + uid,
		"DTSTAMP:" + start,
		"DTSTART:" + start,
		"DTEND:" + end,
		"SUMMARY:" + e.Summary(),
		"LOCATION:" + e.Venue,
		"BEGIN:VALARM",
		"TRIGGER:" + alarmTrigger,
		"ACTION:DISPLAY",
		"DESCRIPTION:Reminder: wedding event is tomorrow",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return []byte(strings.Join(lines, "\r\n"))
}

// GoogleCalendarURL builds the external calendar link with the event
// prefilled.
func (e CalendarEvent) GoogleCalendarURL(tz string) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", e.Summary())
	params.Set("dates", compactUTC(e.Start)+"/"+compactUTC(e.End()))
	params.Set("details", fmt.Sprintf("%s & %s's wedding at %s.", e.BrideName, e.GroomName, e.Venue))
	params.Set("location", e.Venue)
	params.Set("ctz", tz)
	return "https://www.google.com/calendar/render?" + params.Encode()
}
