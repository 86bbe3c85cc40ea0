package tools

import (
	"github.com/Reyad02/chatting-voice-agent/internal/domain"
)

const (
	ScheduleEvent = "schedule_event"
	FindEvents    = "find_events"
	SaveList      = "save_list"
	AddReminders  = "add_reminders"
	AddMeal       = "add_meal"
	UpdateMeal    = "update_meal"
	DeleteMeal    = "delete_meal"
	AddRecipe     = "add_recipe"
)

// CalendarTools need a calendar adapter.
var CalendarTools = []string{ScheduleEvent, FindEvents}

func str(description string) map[string]any {
	if description == "" {
		return map[string]any{"type": "string"}
	}
	return map[string]any{"type": "string", "description": description}
}

func num(description string) map[string]any {
	if description == "" {
		return map[string]any{"type": "number"}
	}
	return map[string]any{"type": "number", "description": description}
}

func enum(description string, values []string) map[string]any {
	ret := map[string]any{"type": "string", "enum": values}
	if description != "" {
		ret["description"] = description
	}
	return ret
}

func object(properties map[string]any, required ...string) map[string]any {
	ret := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		ret["required"] = required
	}
	return ret
}

// Definitions returns the full tool table bound to this toolbox.
func (tb *Toolbox) Definitions() []Definition {
	return []Definition{
		{
			Name:        ScheduleEvent,
			Description: "Schedule a meeting with specified description, start_datetime, end_datetime, and timezone.",
			Parameters: object(map[string]any{
				"summary":        str("Summary of the meeting"),
				"description":    str("Description of the meeting"),
				"start_datetime": str("Start date and time of the meeting in ISO 8601 format"),
				"end_datetime":   str("End date and time of the meeting in ISO 8601 format"),
				"timezone":       str("Timezone of the meeting"),
				"repeat":         enum("Repeat frequency of the meeting (never, everyday, every_week, every_month)", domain.Repeats),
				"reminder":       str("Reminder time before the meeting (e.g., 15 minutes). The format is '<number> <unit>' where unit can be minutes, hours, days, or weeks."),
				"method":         enum("Reminder method (e.g., popup, email)", domain.ReminderMethods),
			}, "summary", "description", "start_datetime", "end_datetime", "timezone"),
			Kind:    domain.KindEvent,
			Handler: tb.scheduleEvent,
		},
		{
			Name:        FindEvents,
			Description: "Find calendar events by date/time and optional title keywords.",
			Parameters: object(map[string]any{
				"start_datetime": str("Start of the range in ISO 8601 format"),
				"end_datetime":   str("End of the range in ISO 8601 format"),
				"timezone":       str("Timezone of the range"),
				"query":          str("Optional meeting title or keywords"),
			}, "start_datetime", "end_datetime", "timezone"),
			Handler: tb.findEvents,
		},
		{
			Name:        SaveList,
			Description: "Save a note with specified title and item list.",
			Parameters: object(map[string]any{
				"title": str("Title of the note"),
				"items": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "List of items in the note",
				},
			}, "title", "items"),
			Strict:  true,
			Kind:    domain.KindList,
			Handler: tb.saveList,
		},
		{
			Name:        AddReminders,
			Description: "Add a reminder with specified title and time.",
			Parameters: object(map[string]any{
				"title": str("Title of the reminder"),
				"time":  enum("When the reminder is due", domain.ReminderWindows),
			}, "title", "time"),
			Strict:  true,
			Kind:    domain.KindReminder,
			Handler: tb.addReminder,
		},
		{
			Name:        AddMeal,
			Description: "Add meal to the meal tracker by date, time, meal type, title, meal description, and calories.",
			Parameters: object(map[string]any{
				"date":        str("Date in YYYY-MM-DD format"),
				"time":        str("Time in HH:MM format"),
				"meal_type":   enum("", domain.MealTypes),
				"title":       str(""),
				"description": str(""),
				"calories":    num(""),
			}, "date", "time", "meal_type", "title", "description", "calories"),
			Kind:    domain.KindMeal,
			Handler: tb.addMeal,
		},
		{
			Name:        UpdateMeal,
			Description: "Update meal in the meal tracker by date, meal type, and title with new details.",
			Parameters: object(map[string]any{
				"date":            str("Date in YYYY-MM-DD format"),
				"meal_type":       enum("", domain.MealTypes),
				"title":           str(""),
				"new_date":        str("New date in YYYY-MM-DD format"),
				"new_time":        str("New time in HH:MM format"),
				"new_meal_type":   enum("", domain.MealTypes),
				"new_title":       str(""),
				"new_description": str(""),
				"new_calories":    num(""),
			}, "date", "meal_type", "title"),
			Kind:    domain.KindMeal,
			Handler: tb.updateMeal,
		},
		{
			Name:        DeleteMeal,
			Description: "Delete meal from the meal tracker by date, meal type, and title.",
			Parameters: object(map[string]any{
				"date":      str("Date in YYYY-MM-DD format"),
				"meal_type": enum("", domain.MealTypes),
				"title":     str(""),
			}, "date", "meal_type", "title"),
			Kind:    domain.KindMeal,
			Handler: tb.deleteMeal,
		},
		{
			Name:        AddRecipe,
			Description: "Add recipe to the meal tracker by recipe name, meal type, cooking time, description, and ratings.",
			Parameters: object(map[string]any{
				"recipe_name":  str("Name of the recipe"),
				"meal_type":    enum("", domain.MealTypes),
				"cooking_time": num("Cooking time in minutes"),
				"description":  str(""),
				"ratings": map[string]any{
					"type":        "number",
					"description": "Ratings of the recipe out of 5",
					"minimum":     0,
					"maximum":     5,
				},
			}, "recipe_name", "meal_type", "cooking_time", "description", "ratings"),
			Kind:    domain.KindRecipe,
			Handler: tb.addRecipe,
		},
	}
}
