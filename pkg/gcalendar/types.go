package gcalendar

import "time"

// CreateEventRequest is the input for mirroring a reminder as a calendar
// event. CalendarID overrides the client's configured default calendar.
type CreateEventRequest struct {
	CalendarID  string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Timezone    string // IANA name, e.g. "Asia/Shanghai"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HTMLLink    string
	StartTime   time.Time
	EndTime     time.Time
}

// ListEventsRequest is the input for listing calendar events.
type ListEventsRequest struct {
	CalendarID string
	TimeMin    time.Time
	TimeMax    time.Time
	MaxResults int64
}
