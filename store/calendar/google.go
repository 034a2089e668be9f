package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/exaland/CalendarSlackBot/models"
	"github.com/exaland/CalendarSlackBot/utils"
)

// ErrEventExists is returned by InsertEvent when the calendar already holds
// an event with the same ID.
var ErrEventExists = errors.New("calendar event already exists")

const requesterProperty = "requester"

// GoogleCalendar implements BusySource and EventWriter against one Google
// Calendar.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
}

func NewGoogleCalendar(svc *gcal.Service, calendarID, timezone string) *GoogleCalendar {
	return &GoogleCalendar{svc: svc, calendarID: calendarID, timezone: timezone}
}

// ListBusy returns the occupied intervals inside [start, end). All-day
// entries carry no dateTime and are skipped; they do not block slots.
func (g *GoogleCalendar) ListBusy(ctx context.Context, start, end time.Time) ([]models.BusyInterval, error) {
	logger := utils.GetLogger()

	resp, err := g.svc.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	var busy []models.BusyInterval
	for _, item := range resp.Items {
		if item.Start == nil || item.End == nil || item.Start.DateTime == "" || item.End.DateTime == "" {
			continue
		}
		bs, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			logger.Warn("unparseable event start, skipping",
				zap.String("eventId", item.Id), zap.String("start", item.Start.DateTime))
			continue
		}
		be, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			logger.Warn("unparseable event end, skipping",
				zap.String("eventId", item.Id), zap.String("end", item.End.DateTime))
			continue
		}
		busy = append(busy, models.BusyInterval{Start: bs.In(start.Location()), End: be.In(start.Location())})
	}
	return busy, nil
}

// InsertEvent creates the event under its caller-supplied ID. A 409 from the
// API means an event with that ID already exists and maps to ErrEventExists;
// every other failure is reported as-is.
func (g *GoogleCalendar) InsertEvent(ctx context.Context, ev models.Event) (string, error) {
	event := &gcal.Event{
		Id:      ev.ID,
		Summary: ev.Title,
		Start:   &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: g.timezone},
		End:     &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: g.timezone},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{requesterProperty: ev.Requester},
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			return "", fmt.Errorf("event %s: %w", ev.ID, ErrEventExists)
		}
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

// OwnedOverlap looks for an event inside [start, end) whose private
// requester property matches the given requester.
func (g *GoogleCalendar) OwnedOverlap(ctx context.Context, start, end time.Time, requester string) (string, bool, error) {
	resp, err := g.svc.Events.List(g.calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		PrivateExtendedProperty(requesterProperty + "=" + requester).
		Context(ctx).Do()
	if err != nil {
		return "", false, fmt.Errorf("list owned events: %w", err)
	}
	for _, item := range resp.Items {
		if item.Status != "cancelled" {
			return item.Id, true, nil
		}
	}
	return "", false, nil
}
