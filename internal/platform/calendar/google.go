package calendar

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleSync writes appointment events to a Google Calendar using a
// service-account credentials file.
type GoogleSync struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleSync builds the calendar client from a service-account JSON
// key file and the target calendar id.
func NewGoogleSync(ctx context.Context, credentialsFile, calendarID string) (*GoogleSync, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &GoogleSync{svc: svc, calendarID: calendarID}, nil
}

func (g *GoogleSync) CreateEvent(ctx context.Context, ev Event) (string, error) {
	created, err := g.svc.Events.Insert(g.calendarID, toGoogleEvent(ev)).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

func (g *GoogleSync) UpdateEvent(ctx context.Context, eventID string, ev Event) error {
	if _, err := g.svc.Events.Update(g.calendarID, eventID, toGoogleEvent(ev)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	return nil
}

func (g *GoogleSync) DeleteEvent(ctx context.Context, eventID string) error {
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

func toGoogleEvent(ev Event) *gcal.Event {
	return &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format("2006-01-02T15:04:05-07:00")},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format("2006-01-02T15:04:05-07:00")},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{"appointment_id": ev.AppointmentID},
		},
	}
}
