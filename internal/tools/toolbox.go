package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/calendar"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/samber/lo"
)

const (
	PresetFull     = "full"
	PresetCalendar = "calendar"
	PresetMinimal  = "minimal"
	PresetClassic  = "classic"
	PresetNone     = "none"
)

// Presets names the tool sets the server can run with. A nil entry means
// every tool.
var Presets = map[string][]string{
	PresetFull:     nil,
	PresetCalendar: {ScheduleEvent, FindEvents, SaveList, AddReminders},
	PresetMinimal:  {SaveList, AddReminders},
	PresetClassic:  {ScheduleEvent, SaveList, AddReminders, AddMeal, AddRecipe},
	PresetNone:     {},
}

// Toolbox binds the executors to their collaborators. Calendar may be nil, in
// which case the calendar tools are left out of every registry.
type Toolbox struct {
	Store    store.Store
	Calendar *calendar.Adapter
	Matcher  store.MealMatcher
}

// Registry builds the registry for a named preset.
func (tb *Toolbox) Registry(preset string) (*Registry, error) {
	names, ok := Presets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown tool preset %q", preset)
	}
	registry, err := NewRegistry(tb.Definitions()...)
	if err != nil {
		return nil, err
	}
	if names != nil {
		registry = registry.Only(names...)
	}
	if tb.Calendar == nil {
		if lo.Some(registry.Names(), CalendarTools) {
			debuglog.Debug(debuglog.Basic, "calendar not configured, dropping %v\n", CalendarTools)
		}
		registry = registry.Without(CalendarTools...)
	}
	return registry, nil
}

func (tb *Toolbox) matcher() store.MealMatcher {
	if tb.Matcher == nil {
		return store.ExactMatcher{}
	}
	return tb.Matcher
}

// decode checks that every required key is present and not null before
// unmarshalling, so a tool never runs on zero values.
func decode(tool string, args json.RawMessage, out any, required ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(args, &fields); err != nil {
		return &InvalidArgumentsError{Tool: tool, Problems: []string{err.Error()}}
	}
	missing := lo.Filter(required, func(key string, _ int) bool {
		raw, ok := fields[key]
		return !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	})
	if len(missing) > 0 {
		return &IncompleteArgumentsError{Tool: tool, Missing: missing}
	}
	if err := json.Unmarshal(args, out); err != nil {
		return &InvalidArgumentsError{Tool: tool, Problems: []string{err.Error()}}
	}
	return nil
}

func (tb *Toolbox) addMeal(ctx context.Context, args json.RawMessage) (*Result, error) {
	var meal domain.Meal
	if err := decode(AddMeal, args, &meal, "date", "time", "meal_type", "title", "description", "calories"); err != nil {
		return nil, err
	}
	meal.ID = 0
	stored, err := tb.Store.AddMeal(ctx, meal)
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "Meal added successfully", Record: stored}, nil
}

type mealUpdate struct {
	domain.MealKey
	domain.MealPatch
}

func (tb *Toolbox) updateMeal(ctx context.Context, args json.RawMessage) (*Result, error) {
	var req mealUpdate
	if err := decode(UpdateMeal, args, &req, "date", "meal_type", "title"); err != nil {
		return nil, err
	}
	if req.MealPatch.IsEmpty() {
		return nil, &InvalidArgumentsError{Tool: UpdateMeal, Problems: []string{"no new_* field supplied"}}
	}
	updated, err := tb.Store.UpdateMeal(ctx, req.MealKey, req.MealPatch, tb.matcher())
	if errors.Is(err, store.ErrNotFound) {
		return mealNotFound(req.MealKey), nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "Meal updated successfully", Record: updated}, nil
}

func (tb *Toolbox) deleteMeal(ctx context.Context, args json.RawMessage) (*Result, error) {
	var key domain.MealKey
	if err := decode(DeleteMeal, args, &key, "date", "meal_type", "title"); err != nil {
		return nil, err
	}
	removed, err := tb.Store.DeleteMeal(ctx, key, tb.matcher())
	if errors.Is(err, store.ErrNotFound) {
		return mealNotFound(key), nil
	}
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "Meal deleted successfully", Record: removed, Removed: true}, nil
}

func mealNotFound(key domain.MealKey) *Result {
	return &Result{
		Status:  domain.StatusNotFound,
		Message: fmt.Sprintf("Meal not found using the date %s, meal type %s, and title %s", key.Date, key.MealType, key.Title),
	}
}

func (tb *Toolbox) addRecipe(ctx context.Context, args json.RawMessage) (*Result, error) {
	var recipe domain.Recipe
	if err := decode(AddRecipe, args, &recipe, "recipe_name", "meal_type", "cooking_time", "description", "ratings"); err != nil {
		return nil, err
	}
	stored, err := tb.Store.AddRecipe(ctx, recipe)
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "Recipe added successfully", Record: stored}, nil
}

func (tb *Toolbox) addReminder(ctx context.Context, args json.RawMessage) (*Result, error) {
	var reminder domain.Reminder
	if err := decode(AddReminders, args, &reminder, "title", "time"); err != nil {
		return nil, err
	}
	stored, err := tb.Store.AddReminder(ctx, reminder)
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "Reminder added successfully", Record: stored}, nil
}

func (tb *Toolbox) saveList(ctx context.Context, args json.RawMessage) (*Result, error) {
	var note domain.Note
	if err := decode(SaveList, args, &note, "title", "items"); err != nil {
		return nil, err
	}
	stored, err := tb.Store.AddNote(ctx, note)
	if err != nil {
		return nil, err
	}
	return &Result{Status: domain.StatusSuccess, Message: "List saved successfully", Record: stored}, nil
}

func (tb *Toolbox) scheduleEvent(ctx context.Context, args json.RawMessage) (*Result, error) {
	if tb.Calendar == nil {
		return nil, errors.New("calendar is not configured")
	}
	var req calendar.EventRequest
	if err := decode(ScheduleEvent, args, &req, "summary", "description", "start_datetime", "end_datetime", "timezone"); err != nil {
		return nil, err
	}
	return fromOutcome(tb.Calendar.Schedule(ctx, req)), nil
}

type eventQuery struct {
	StartDateTime string `json:"start_datetime"`
	EndDateTime   string `json:"end_datetime"`
	TimeZone      string `json:"timezone"`
	Query         string `json:"query"`
}

func (tb *Toolbox) findEvents(ctx context.Context, args json.RawMessage) (*Result, error) {
	if tb.Calendar == nil {
		return nil, errors.New("calendar is not configured")
	}
	var q eventQuery
	if err := decode(FindEvents, args, &q, "start_datetime", "end_datetime", "timezone"); err != nil {
		return nil, err
	}
	out := tb.Calendar.FindEvents(ctx, q.StartDateTime, q.EndDateTime, q.TimeZone)
	if keywords := strings.ToLower(strings.TrimSpace(q.Query)); keywords != "" && out.Status == domain.StatusSuccess {
		out.Events = lo.Filter(out.Events, func(ev *domain.Event, _ int) bool {
			return strings.Contains(strings.ToLower(ev.Summary), keywords)
		})
		out.Count = len(out.Events)
	}
	ret := fromOutcome(out)
	ret.Count = out.Count
	return ret, nil
}

func fromOutcome(out *calendar.Outcome) *Result {
	ret := &Result{
		Status:  out.Status,
		Message: out.Message,
		Events:  out.Events,
		Error:   out.Error,
	}
	if out.Event != nil {
		ret.Record = out.Event
	}
	if out.Status == domain.StatusError {
		ret.Err = errors.New(out.Error)
	}
	return ret
}
