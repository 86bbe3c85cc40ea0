package store

import (
	"context"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
)

var demoMeals = []domain.Meal{
	{
		Date:        "2026-01-16",
		Time:        "08:30",
		MealType:    domain.Breakfast,
		Title:       "Oatmeal with Banana and Honey",
		Description: "A bowl of oatmeal topped with sliced banana and a drizzle of honey",
		Calories:    350,
	},
	{
		Date:        "2026-01-16",
		Time:        "12:30",
		MealType:    domain.Lunch,
		Title:       "rice & chicken",
		Description: "A bowl of rice and chicken curry",
		Calories:    500,
	},
}

var demoEvents = []domain.Event{
	{
		ID:          "c1o2si7t698qeog2k3qn6roti4",
		Summary:     "Weekly Team Sync – Project Alpha Update",
		Description: "Team reviews progress on Project Alpha, discusses blockers and challenges, assigns next actions, and aligns on priorities for the upcoming week.",
		Start:       "2026-01-16T15:00:00+06:00",
		End:         "2026-01-16T16:00:00+06:00",
		TimeZone:    "Asia/Dhaka",
		Status:      "confirmed",
		Reminders:   []domain.EventReminder{{Method: "email", Minutes: 60}},
		Date:        "2026-01-16",
	},
	{
		ID:          "bahalmlc2datvm4vrm9le9j6kk",
		Summary:     "testing meeting",
		Description: "how to increase sell",
		Start:       "2026-01-16T18:00:00+06:00",
		End:         "2026-01-16T19:00:00+06:00",
		TimeZone:    "Asia/Dhaka",
		Status:      "confirmed",
		Reminders:   []domain.EventReminder{{Method: "email", Minutes: 30}},
		Date:        "2026-01-16",
	},
}

// Seed loads the demo meals and calendar mirror entries used by the web UI.
func Seed(ctx context.Context, s Store) error {
	for _, meal := range demoMeals {
		if _, err := s.AddMeal(ctx, meal); err != nil {
			return err
		}
	}
	for _, event := range demoEvents {
		if _, err := s.AddEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
