// Package store holds the assistant's local collections: meals, recipes,
// reminders, lists and the calendar event mirror.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
)

// ErrNotFound is returned when no meal matches the supplied key.
var ErrNotFound = errors.New("record not found")

// Store is the repository behind the tool executors. Implementations must be
// safe for concurrent use. Returned records are copies.
type Store interface {
	// AddMeal assigns the next meal id and stores the meal.
	AddMeal(ctx context.Context, meal domain.Meal) (*domain.Meal, error)
	// UpdateMeal patches the first meal, in insertion order, that the matcher
	// accepts for key.
	UpdateMeal(ctx context.Context, key domain.MealKey, patch domain.MealPatch, matcher MealMatcher) (*domain.Meal, error)
	// DeleteMeal removes the first meal the matcher accepts for key.
	DeleteMeal(ctx context.Context, key domain.MealKey, matcher MealMatcher) (*domain.Meal, error)
	Meals(ctx context.Context) ([]*domain.Meal, error)

	AddRecipe(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error)
	Recipes(ctx context.Context) ([]*domain.Recipe, error)

	AddReminder(ctx context.Context, reminder domain.Reminder) (*domain.Reminder, error)
	Reminders(ctx context.Context) ([]*domain.Reminder, error)

	AddNote(ctx context.Context, note domain.Note) (*domain.Note, error)
	Notes(ctx context.Context) ([]*domain.Note, error)

	AddEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
	Events(ctx context.Context) ([]*domain.Event, error)
}

// List returns the whole collection for kind.
func List(ctx context.Context, s Store, kind domain.RecordKind) (any, error) {
	switch kind {
	case domain.KindMeal:
		return s.Meals(ctx)
	case domain.KindRecipe:
		return s.Recipes(ctx)
	case domain.KindReminder:
		return s.Reminders(ctx)
	case domain.KindList:
		return s.Notes(ctx)
	case domain.KindEvent:
		return s.Events(ctx)
	}
	return nil, fmt.Errorf("unknown record kind %q", kind)
}
