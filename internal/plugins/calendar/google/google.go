// Package google implements the calendar provider on Google Calendar v3.
package google

import (
	"context"

	"github.com/Reyad02/chatting-voice-agent/internal/plugins/calendar"
	"github.com/pkg/errors"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const PrimaryCalendar = "primary"

var _ calendar.Provider = (*Provider)(nil)

type Provider struct {
	service    *gcal.Service
	calendarID string
}

// New builds a provider for calendarID ("primary" when empty). Client
// options carry the credentials.
func New(ctx context.Context, calendarID string, opts ...option.ClientOption) (*Provider, error) {
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create calendar service")
	}
	if calendarID == "" {
		calendarID = PrimaryCalendar
	}
	return &Provider{service: service, calendarID: calendarID}, nil
}

// NewWithCredentials authenticates through a credential provider.
func NewWithCredentials(ctx context.Context, calendarID string, creds CredentialProvider) (*Provider, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	return New(ctx, calendarID, option.WithTokenSource(ts))
}

func (p *Provider) Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error) {
	created, err := p.service.Events.Insert(p.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "insert event")
	}
	return created, nil
}

func (p *Provider) List(ctx context.Context, query calendar.Query) ([]*gcal.Event, error) {
	call := p.service.Events.List(p.calendarID).
		TimeMin(query.TimeMin).
		TimeMax(query.TimeMax).
		SingleEvents(true).
		OrderBy("startTime")
	if query.TimeZone != "" {
		call = call.TimeZone(query.TimeZone)
	}

	var ret []*gcal.Event
	err := call.Pages(ctx, func(page *gcal.Events) error {
		ret = append(ret, page.Items...)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	return ret, nil
}
