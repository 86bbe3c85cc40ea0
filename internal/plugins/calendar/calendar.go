// Package calendar turns scheduling requests into provider events and keeps
// a local mirror of what it created.
package calendar

import (
	"context"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	gcal "google.golang.org/api/calendar/v3"
)

const (
	DefaultReminder = "15 minutes"
	DefaultMethod   = "popup"
	colorID         = "6"
)

// Query is an occurrence listing over [TimeMin, TimeMax) in TimeZone. Both
// bounds are RFC 3339.
type Query struct {
	TimeMin  string
	TimeMax  string
	TimeZone string
}

// Provider is the remote calendar. List must expand recurring events into
// single occurrences ordered by start time.
type Provider interface {
	Insert(ctx context.Context, event *gcal.Event) (*gcal.Event, error)
	List(ctx context.Context, query Query) ([]*gcal.Event, error)
}

// Mirror receives every event the adapter creates.
type Mirror interface {
	AddEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
}

// EventRequest is the schedule_event argument set.
type EventRequest struct {
	Summary       string        `json:"summary"`
	Description   string        `json:"description"`
	StartDateTime string        `json:"start_datetime"`
	EndDateTime   string        `json:"end_datetime"`
	TimeZone      string        `json:"timezone"`
	Repeat        domain.Repeat `json:"repeat,omitempty"`
	Reminder      string        `json:"reminder,omitempty"`
	Method        string        `json:"method,omitempty"`
}

// Outcome is what the adapter reports back. Provider failures end up in
// Error with StatusError, never as a returned error.
type Outcome struct {
	Status  domain.Status   `json:"status"`
	Message string          `json:"message,omitempty"`
	Event   *domain.Event   `json:"event,omitempty"`
	Events  []*domain.Event `json:"events,omitempty"`
	Count   int             `json:"count"`
	Error   string          `json:"error,omitempty"`
}

func failed(err error) *Outcome {
	debuglog.Debug(debuglog.Basic, "calendar: %v\n", err)
	return &Outcome{Status: domain.StatusError, Error: err.Error()}
}

type Adapter struct {
	provider Provider
	mirror   Mirror
}

func NewAdapter(provider Provider, mirror Mirror) *Adapter {
	return &Adapter{provider: provider, mirror: mirror}
}

// FindEvents lists live events overlapping the naive local interval
// [start, end) in timeZone.
func (a *Adapter) FindEvents(ctx context.Context, start, end, timeZone string) *Outcome {
	events, err := a.overlapping(ctx, start, end, timeZone)
	if err != nil {
		return failed(err)
	}
	return &Outcome{Status: domain.StatusSuccess, Events: events, Count: len(events)}
}

func (a *Adapter) overlapping(ctx context.Context, start, end, timeZone string) ([]*domain.Event, error) {
	from, err := parseInZone(start, timeZone)
	if err != nil {
		return nil, err
	}
	to, err := parseInZone(end, timeZone)
	if err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, errors.Errorf("end %q is not after start %q", end, start)
	}

	items, err := a.provider.List(ctx, Query{
		TimeMin:  from.Format(time.RFC3339),
		TimeMax:  to.Format(time.RFC3339),
		TimeZone: timeZone,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}

	live := lo.Filter(items, func(ev *gcal.Event, _ int) bool {
		return ev.Status != "cancelled" && overlaps(ev, from, to)
	})
	return lo.Map(live, func(ev *gcal.Event, _ int) *domain.Event {
		return FromProvider(ev)
	}), nil
}

// overlaps re-checks the provider's range filter. Events whose bounds do not
// parse are trusted to overlap.
func overlaps(ev *gcal.Event, from, to time.Time) bool {
	start, okStart := eventTime(ev.Start)
	end, okEnd := eventTime(ev.End)
	if !okStart || !okEnd {
		return true
	}
	return start.Before(to) && end.After(from)
}

func eventTime(dt *gcal.EventDateTime) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, dt.DateTime)
		return t, err == nil
	}
	if dt.Date != "" {
		t, err := time.Parse(time.DateOnly, dt.Date)
		return t, err == nil
	}
	return time.Time{}, false
}

// Schedule creates the event unless something already occupies the
// interval, in which case it reports a conflict and creates nothing.
func (a *Adapter) Schedule(ctx context.Context, req EventRequest) *Outcome {
	req = withDefaults(req)

	existing, err := a.overlapping(ctx, req.StartDateTime, req.EndDateTime, req.TimeZone)
	if err != nil {
		return failed(err)
	}
	if len(existing) > 0 {
		return &Outcome{
			Status:  domain.StatusConflict,
			Message: "There are already events scheduled during this time. Please choose a different time.",
			Events:  existing,
			Count:   len(existing),
		}
	}

	event, err := BuildEvent(req)
	if err != nil {
		return failed(err)
	}
	created, err := a.provider.Insert(ctx, event)
	if err != nil {
		return failed(errors.Wrap(err, "insert event"))
	}

	mirrored := FromProvider(created)
	if a.mirror != nil {
		if stored, err := a.mirror.AddEvent(ctx, *mirrored); err != nil {
			debuglog.Log("calendar: event %s created but not mirrored: %v\n", created.Id, err)
		} else {
			mirrored = stored
		}
	}
	return &Outcome{Status: domain.StatusSuccess, Message: "Event scheduled successfully", Event: mirrored, Count: 1}
}

func withDefaults(req EventRequest) EventRequest {
	if req.Repeat == "" {
		req.Repeat = domain.RepeatNever
	}
	if req.Reminder == "" {
		req.Reminder = DefaultReminder
	}
	if req.Method == "" {
		req.Method = DefaultMethod
	}
	return req
}

// BuildEvent encodes a request in the provider's event shape.
func BuildEvent(req EventRequest) (*gcal.Event, error) {
	req = withDefaults(req)
	start, err := ToRFC3339(req.StartDateTime, req.TimeZone)
	if err != nil {
		return nil, err
	}
	end, err := ToRFC3339(req.EndDateTime, req.TimeZone)
	if err != nil {
		return nil, err
	}
	return &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		ColorId:     colorID,
		Start:       &gcal.EventDateTime{DateTime: start, TimeZone: req.TimeZone},
		End:         &gcal.EventDateTime{DateTime: end, TimeZone: req.TimeZone},
		Recurrence:  RecurrenceRule(req.Repeat),
		Reminders:   ReminderOverride(NormalizeReminder(req.Reminder), req.Method),
	}, nil
}
