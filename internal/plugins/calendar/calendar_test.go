package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
)

// fakeProvider keeps inserted events and answers List from them.
type fakeProvider struct {
	events    []*gcal.Event
	queries   []Query
	inserts   int
	listErr   error
	insertErr error
}

func (f *fakeProvider) Insert(_ context.Context, ev *gcal.Event) (*gcal.Event, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserts++
	created := *ev
	created.Id = "evt" + string(rune('0'+f.inserts))
	created.HtmlLink = "https://calendar.example/" + created.Id
	created.Status = "confirmed"
	f.events = append(f.events, &created)
	return &created, nil
}

func (f *fakeProvider) List(_ context.Context, q Query) ([]*gcal.Event, error) {
	f.queries = append(f.queries, q)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func meeting(start, end string) EventRequest {
	return EventRequest{
		Summary:       "Team sync",
		Description:   "Weekly",
		StartDateTime: start,
		EndDateTime:   end,
		TimeZone:      "Asia/Dhaka",
	}
}

func TestReminderMinutes(t *testing.T) {
	tests := []struct {
		in      string
		minutes int64
		ok      bool
	}{
		{"15 minutes", 15, true},
		{"2 hours", 120, true},
		{"1 week", 10080, true},
		{"3 days", 4320, true},
		{"10 MIN", 10, true},
		{"1 hr", 60, true},
		{"2 wks", 20160, true},
		{"soon", 0, false},
		{"15", 0, false},
		{"fifteen minutes", 0, false},
		{"5 fortnights", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			minutes, ok := ReminderMinutes(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.minutes, minutes)
		})
	}
}

func TestNormalizeReminderPassesMalformedThrough(t *testing.T) {
	assert.Equal(t, "2 hours", NormalizeReminder("2 HRS"))
	assert.Equal(t, "15 minutes", NormalizeReminder("15 mins"))
	assert.Equal(t, "whenever works", NormalizeReminder("whenever works"))
	assert.NotPanics(t, func() { NormalizeReminder("1-2 days") })
}

func TestReminderOverride(t *testing.T) {
	r := ReminderOverride("1 week", "email")
	assert.False(t, r.UseDefault)
	assert.Contains(t, r.ForceSendFields, "UseDefault")
	require.Len(t, r.Overrides, 1)
	assert.Equal(t, "email", r.Overrides[0].Method)
	assert.Equal(t, int64(10080), r.Overrides[0].Minutes)

	malformed := ReminderOverride("later", "popup")
	assert.False(t, malformed.UseDefault)
	assert.Empty(t, malformed.Overrides)
}

func TestRecurrenceRule(t *testing.T) {
	assert.Nil(t, RecurrenceRule(domain.RepeatNever))
	assert.Nil(t, RecurrenceRule(""))
	assert.Equal(t, []string{"RRULE:FREQ=DAILY"}, RecurrenceRule(domain.RepeatEveryday))
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY"}, RecurrenceRule(domain.RepeatEveryWeek))
	assert.Equal(t, []string{"RRULE:FREQ=MONTHLY"}, RecurrenceRule(domain.RepeatEveryMonth))
}

func TestToRFC3339(t *testing.T) {
	got, err := ToRFC3339("2026-01-16T15:00:00", "Asia/Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16T15:00:00+06:00", got)

	got, err = ToRFC3339("2026-01-16 15:00", "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16T15:00:00Z", got)

	got, err = ToRFC3339("2026-01-16T09:00:00Z", "Asia/Dhaka")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-16T15:00:00+06:00", got)

	_, err = ToRFC3339("2026-01-16T15:00:00", "Mars/Olympus")
	assert.Error(t, err)
	_, err = ToRFC3339("tomorrow", "Asia/Dhaka")
	assert.Error(t, err)
}

func TestBuildEvent(t *testing.T) {
	req := meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00")
	req.Repeat = domain.RepeatEveryWeek
	req.Reminder = "2 hours"
	req.Method = "email"

	ev, err := BuildEvent(req)
	require.NoError(t, err)
	assert.Equal(t, "Team sync", ev.Summary)
	assert.Equal(t, "2026-01-20T10:00:00+06:00", ev.Start.DateTime)
	assert.Equal(t, "Asia/Dhaka", ev.End.TimeZone)
	assert.Equal(t, []string{"RRULE:FREQ=WEEKLY"}, ev.Recurrence)
	assert.Equal(t, int64(120), ev.Reminders.Overrides[0].Minutes)

	defaults, err := BuildEvent(meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	require.NoError(t, err)
	assert.Nil(t, defaults.Recurrence)
	assert.Equal(t, "popup", defaults.Reminders.Overrides[0].Method)
	assert.Equal(t, int64(15), defaults.Reminders.Overrides[0].Minutes)
}

func TestScheduleCreatesAndMirrors(t *testing.T) {
	provider := &fakeProvider{}
	mirror := store.NewMemory()
	adapter := NewAdapter(provider, mirror)

	out := adapter.Schedule(context.Background(), meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	require.Equal(t, domain.StatusSuccess, out.Status, out.Error)
	require.NotNil(t, out.Event)
	assert.Equal(t, "2026-01-20", out.Event.Date)
	assert.Equal(t, 1, provider.inserts)

	require.Len(t, provider.queries, 1)
	assert.Equal(t, "2026-01-20T10:00:00+06:00", provider.queries[0].TimeMin)
	assert.Equal(t, "2026-01-20T11:00:00+06:00", provider.queries[0].TimeMax)

	events, err := mirror.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, out.Event.ID, events[0].ID)
}

func TestScheduleOverlapShortCircuits(t *testing.T) {
	provider := &fakeProvider{}
	mirror := store.NewMemory()
	adapter := NewAdapter(provider, mirror)
	ctx := context.Background()

	first := adapter.Schedule(ctx, meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	require.Equal(t, domain.StatusSuccess, first.Status)

	second := adapter.Schedule(ctx, meeting("2026-01-20T10:30:00", "2026-01-20T11:30:00"))
	assert.Equal(t, domain.StatusConflict, second.Status)
	assert.Equal(t, 1, second.Count)
	assert.Nil(t, second.Event)
	assert.Equal(t, 1, provider.inserts)

	events, _ := mirror.Events(ctx)
	assert.Len(t, events, 1)
}

func TestScheduleBackToBackIsNotAConflict(t *testing.T) {
	provider := &fakeProvider{}
	adapter := NewAdapter(provider, nil)
	ctx := context.Background()

	require.Equal(t, domain.StatusSuccess, adapter.Schedule(ctx, meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00")).Status)
	assert.Equal(t, domain.StatusSuccess, adapter.Schedule(ctx, meeting("2026-01-20T11:00:00", "2026-01-20T12:00:00")).Status)
	assert.Equal(t, 2, provider.inserts)
}

func TestScheduleIgnoresCancelledEvents(t *testing.T) {
	provider := &fakeProvider{events: []*gcal.Event{{
		Id:     "gone",
		Status: "cancelled",
		Start:  &gcal.EventDateTime{DateTime: "2026-01-20T10:00:00+06:00"},
		End:    &gcal.EventDateTime{DateTime: "2026-01-20T11:00:00+06:00"},
	}}}
	out := NewAdapter(provider, nil).Schedule(context.Background(), meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	assert.Equal(t, domain.StatusSuccess, out.Status)
}

func TestProviderErrorsBecomeErrorStatus(t *testing.T) {
	ctx := context.Background()

	listFails := NewAdapter(&fakeProvider{listErr: errors.New("quota exceeded")}, nil)
	out := listFails.Schedule(ctx, meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Contains(t, out.Error, "quota exceeded")

	insertFails := &fakeProvider{insertErr: errors.New("forbidden")}
	out = NewAdapter(insertFails, nil).Schedule(ctx, meeting("2026-01-20T10:00:00", "2026-01-20T11:00:00"))
	assert.Equal(t, domain.StatusError, out.Status)
	assert.Contains(t, out.Error, "forbidden")

	out = NewAdapter(&fakeProvider{}, nil).FindEvents(ctx, "2026-01-20T10:00:00", "2026-01-20T11:00:00", "Nowhere/Land")
	assert.Equal(t, domain.StatusError, out.Status)

	out = NewAdapter(&fakeProvider{}, nil).FindEvents(ctx, "2026-01-20T11:00:00", "2026-01-20T10:00:00", "Asia/Dhaka")
	assert.Equal(t, domain.StatusError, out.Status)
}

func TestFindEvents(t *testing.T) {
	provider := &fakeProvider{events: []*gcal.Event{{
		Id:      "a",
		Summary: "Standup",
		Start:   &gcal.EventDateTime{DateTime: "2026-01-20T09:30:00+06:00", TimeZone: "Asia/Dhaka"},
		End:     &gcal.EventDateTime{DateTime: "2026-01-20T10:15:00+06:00"},
	}}}
	out := NewAdapter(provider, nil).FindEvents(context.Background(), "2026-01-20T10:00:00", "2026-01-20T12:00:00", "Asia/Dhaka")
	require.Equal(t, domain.StatusSuccess, out.Status)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Standup", out.Events[0].Summary)
	assert.Equal(t, "2026-01-20", out.Events[0].Date)
}

func TestFromProviderAllDayEvent(t *testing.T) {
	ev := FromProvider(&gcal.Event{
		Id:        "allday",
		Start:     &gcal.EventDateTime{Date: "2026-02-01"},
		End:       &gcal.EventDateTime{Date: "2026-02-02"},
		Reminders: &gcal.EventReminders{Overrides: []*gcal.EventReminder{{Method: "popup", Minutes: 30}}},
	})
	assert.Equal(t, "2026-02-01", ev.Date)
	assert.Equal(t, []domain.EventReminder{{Method: "popup", Minutes: 30}}, ev.Reminders)
}
