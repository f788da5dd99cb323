package viewmodel

import (
	"time"

	"github.com/veya/analytics-dashboard/pkg/format"
	"github.com/veya/analytics-dashboard/pkg/models/domain"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
)

const (
	LoadingEvents = "Loading events..."
	NoEvents      = "No events yet"
)

var EventColumns = []string{"Tenant", "Platform", "Event", "Session", "Body", "Time"}

type EventRow struct {
	Tenant   string
	Platform string
	Event    string
	Color    format.Color
	Session  string
	Body     string
	Time     string
}

// Cells returns the row in EventColumns order.
func (r EventRow) Cells() []string {
	return []string{r.Tenant, r.Platform, r.Event, r.Session, r.Body, r.Time}
}

type EventDetail struct {
	Title     string
	Color     format.Color
	Tenant    string
	Timestamp string
	JSON      string
}

type LivePage struct {
	Rows    []EventRow
	Message string
	Error   string
	Paused  bool
	Status  string
	Updated string
	Detail  *EventDetail
	// Generation identifies the event list the rows were built from.
	Generation uint64
}

func NewEventRow(e domain.LiveEvent, loc *time.Location) EventRow {
	return EventRow{
		Tenant:   e.TenantID(),
		Platform: format.Platform(e.Platform()),
		Event:    format.EventName(string(e.Name())),
		Color:    format.EventColor(e.Name()),
		Session:  format.ShortID(e.SessionID()),
		Body:     format.CompactJSON(e.Record),
		Time:     format.TimeIn(e.EventTimestamp(), loc),
	}
}

func EventRows(events []domain.LiveEvent, loc *time.Location) []EventRow {
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, NewEventRow(e, loc))
	}
	return rows
}

func NewEventDetail(e domain.LiveEvent) EventDetail {
	return EventDetail{
		Title:     format.EventName(string(e.Name())),
		Color:     format.EventColor(e.Name()),
		Tenant:    e.TenantID(),
		Timestamp: e.EventTimestamp(),
		JSON:      format.IndentedJSON(e.Record),
	}
}

func NewLivePage(snap livestream.Snapshot, loc *time.Location) LivePage {
	page := LivePage{
		Rows:   EventRows(snap.Events, loc),
		Error:  snap.Error,
		Paused: snap.Paused,
		Status: "Live",

		Generation: snap.Generation,
	}
	if snap.Paused {
		page.Status = "Paused"
	}
	if !snap.LastUpdated.IsZero() {
		page.Updated = "Updated " + format.Clock(snap.LastUpdated.In(loc))
	}

	switch {
	case snap.Loading:
		page.Message = LoadingEvents
	case len(page.Rows) == 0:
		page.Message = NoEvents
	}

	if snap.Selected != nil {
		detail := NewEventDetail(*snap.Selected)
		page.Detail = &detail
	}
	return page
}
