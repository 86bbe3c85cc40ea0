package store

import (
	"context"
	"sync"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/samber/lo"
)

var _ Store = (*Memory)(nil)

// collection is an append-ordered slice behind its own lock.
type collection[T any] struct {
	mu    sync.RWMutex
	items []*T
}

func (c *collection[T]) add(item T) *T {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := item
	c.items = append(c.items, &stored)
	out := stored
	return &out
}

func (c *collection[T]) snapshot() []*T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return lo.Map(c.items, func(item *T, _ int) *T {
		out := *item
		return &out
	})
}

// Memory keeps every collection in process memory. Each collection has its
// own lock so a meal write does not block reminder reads.
type Memory struct {
	meals     collection[domain.Meal]
	lastMeal  int
	recipes   collection[domain.Recipe]
	reminders collection[domain.Reminder]
	notes     collection[domain.Note]
	events    collection[domain.Event]
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AddMeal(_ context.Context, meal domain.Meal) (*domain.Meal, error) {
	m.meals.mu.Lock()
	defer m.meals.mu.Unlock()
	// Ids grow monotonically so a delete never lets an id be handed out twice.
	m.lastMeal = max(m.lastMeal, len(m.meals.items)) + 1
	meal.ID = m.lastMeal
	m.meals.items = append(m.meals.items, &meal)
	out := meal
	return &out, nil
}

func (m *Memory) UpdateMeal(_ context.Context, key domain.MealKey, patch domain.MealPatch, matcher MealMatcher) (*domain.Meal, error) {
	m.meals.mu.Lock()
	defer m.meals.mu.Unlock()
	meal, ok := lo.Find(m.meals.items, func(meal *domain.Meal) bool {
		return matcher.Match(meal, key)
	})
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(meal)
	out := *meal
	return &out, nil
}

func (m *Memory) DeleteMeal(_ context.Context, key domain.MealKey, matcher MealMatcher) (*domain.Meal, error) {
	m.meals.mu.Lock()
	defer m.meals.mu.Unlock()
	_, idx, ok := lo.FindIndexOf(m.meals.items, func(meal *domain.Meal) bool {
		return matcher.Match(meal, key)
	})
	if !ok {
		return nil, ErrNotFound
	}
	removed := *m.meals.items[idx]
	m.meals.items = append(m.meals.items[:idx], m.meals.items[idx+1:]...)
	return &removed, nil
}

func (m *Memory) Meals(context.Context) ([]*domain.Meal, error) {
	return m.meals.snapshot(), nil
}

func (m *Memory) AddRecipe(_ context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	return m.recipes.add(recipe), nil
}

func (m *Memory) Recipes(context.Context) ([]*domain.Recipe, error) {
	return m.recipes.snapshot(), nil
}

func (m *Memory) AddReminder(_ context.Context, reminder domain.Reminder) (*domain.Reminder, error) {
	return m.reminders.add(reminder), nil
}

func (m *Memory) Reminders(context.Context) ([]*domain.Reminder, error) {
	return m.reminders.snapshot(), nil
}

func (m *Memory) AddNote(_ context.Context, note domain.Note) (*domain.Note, error) {
	note.Items = append([]string(nil), note.Items...)
	return m.notes.add(note), nil
}

func (m *Memory) Notes(context.Context) ([]*domain.Note, error) {
	return m.notes.snapshot(), nil
}

func (m *Memory) AddEvent(_ context.Context, event domain.Event) (*domain.Event, error) {
	return m.events.add(event), nil
}

func (m *Memory) Events(context.Context) ([]*domain.Event, error) {
	return m.events.snapshot(), nil
}
