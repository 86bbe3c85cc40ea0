package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/pkg/errors"
	gcal "google.golang.org/api/calendar/v3"
)

var reminderPattern = regexp.MustCompile(`^\s*(\d+)\s+(\w+)\s*$`)

// reminderUnits maps every accepted spelling onto its canonical unit.
var reminderUnits = map[string]string{
	"m": "minutes", "min": "minutes", "mins": "minutes", "minute": "minutes", "minutes": "minutes",
	"h": "hours", "hr": "hours", "hrs": "hours", "hour": "hours", "hours": "hours",
	"d": "days", "day": "days", "days": "days",
	"w": "weeks", "wk": "weeks", "wks": "weeks", "week": "weeks", "weeks": "weeks",
}

var unitMinutes = map[string]int64{
	"minutes": 1,
	"hours":   60,
	"days":    1440,
	"weeks":   10080,
}

func parseReminder(reminder string) (amount int64, unit string, ok bool) {
	m := reminderPattern.FindStringSubmatch(reminder)
	if m == nil {
		return 0, "", false
	}
	if unit, ok = reminderUnits[strings.ToLower(m[2])]; !ok {
		return 0, "", false
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return amount, unit, true
}

// ReminderMinutes converts "<digits> <unit>" into a minutes offset. ok is
// false for anything else.
func ReminderMinutes(reminder string) (minutes int64, ok bool) {
	amount, unit, ok := parseReminder(reminder)
	if !ok {
		return 0, false
	}
	return amount * unitMinutes[unit], true
}

// NormalizeReminder rewrites the unit into its canonical spelling, so
// "2 HRS" becomes "2 hours". Strings that do not parse come back unchanged.
func NormalizeReminder(reminder string) string {
	amount, unit, ok := parseReminder(reminder)
	if !ok {
		return reminder
	}
	return fmt.Sprintf("%d %s", amount, unit)
}

// ReminderOverride always disables the calendar's default reminders. An
// override is added only when the reminder string parses.
func ReminderOverride(reminder, method string) *gcal.EventReminders {
	ret := &gcal.EventReminders{
		UseDefault:      false,
		ForceSendFields: []string{"UseDefault"},
	}
	if minutes, ok := ReminderMinutes(reminder); ok {
		ret.Overrides = []*gcal.EventReminder{{
			Method:          method,
			Minutes:         minutes,
			ForceSendFields: []string{"Minutes"},
		}}
	}
	return ret
}

// RecurrenceRule returns the RRULE lines for a repeat cadence. never, and
// anything unknown, yields nil so the field is omitted.
func RecurrenceRule(repeat domain.Repeat) []string {
	switch repeat {
	case domain.RepeatEveryday:
		return []string{"RRULE:FREQ=DAILY"}
	case domain.RepeatEveryWeek:
		return []string{"RRULE:FREQ=WEEKLY"}
	case domain.RepeatEveryMonth:
		return []string{"RRULE:FREQ=MONTHLY"}
	}
	return nil
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ToRFC3339 reads a naive local timestamp in the named IANA zone. Input that
// already carries an offset is converted into that zone.
func ToRFC3339(timestamp, timeZone string) (string, error) {
	t, err := parseInZone(timestamp, timeZone)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

func parseInZone(timestamp, timeZone string) (time.Time, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "unknown time zone %q", timeZone)
	}
	timestamp = strings.TrimSpace(timestamp)
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, timestamp, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised timestamp %q", timestamp)
}

// FromProvider maps a provider event onto the local mirror record. Date is
// the calendar-date part of the start.
func FromProvider(ev *gcal.Event) *domain.Event {
	ret := &domain.Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		HTMLLink:    ev.HtmlLink,
		Status:      ev.Status,
		Recurrence:  ev.Recurrence,
	}
	if ev.Start != nil {
		ret.Start = firstNonEmpty(ev.Start.DateTime, ev.Start.Date)
		ret.TimeZone = ev.Start.TimeZone
	}
	if ev.End != nil {
		ret.End = firstNonEmpty(ev.End.DateTime, ev.End.Date)
	}
	if ev.Reminders != nil {
		for _, o := range ev.Reminders.Overrides {
			ret.Reminders = append(ret.Reminders, domain.EventReminder{Method: o.Method, Minutes: o.Minutes})
		}
	}
	ret.Date, _, _ = strings.Cut(ret.Start, "T")
	return ret
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
