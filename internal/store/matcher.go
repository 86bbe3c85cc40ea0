package store

import (
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"golang.org/x/text/cases"
)

// MealMatcher decides whether a stored meal is the one a (date, meal_type,
// title) key refers to.
type MealMatcher interface {
	Match(meal *domain.Meal, key domain.MealKey) bool
}

// ExactMatcher compares all three key fields byte for byte.
type ExactMatcher struct{}

func (ExactMatcher) Match(meal *domain.Meal, key domain.MealKey) bool {
	return meal.Date == key.Date && meal.MealType == key.MealType && meal.Title == key.Title
}

// FoldMatcher trims whitespace and compares meal type and title under Unicode
// case folding. Dates still compare exactly.
type FoldMatcher struct{}

func NewFoldMatcher() *FoldMatcher {
	return &FoldMatcher{}
}

func (f *FoldMatcher) Match(meal *domain.Meal, key domain.MealKey) bool {
	return strings.TrimSpace(meal.Date) == strings.TrimSpace(key.Date) &&
		f.fold(string(meal.MealType)) == f.fold(string(key.MealType)) &&
		f.fold(meal.Title) == f.fold(key.Title)
}

func (f *FoldMatcher) fold(s string) string {
	// cases.Caser keeps state between calls and is not safe for concurrent use.
	return cases.Fold().String(strings.TrimSpace(s))
}

// MatcherByName resolves the --meal-match flag value.
func MatcherByName(name string) MealMatcher {
	if strings.EqualFold(name, "fold") {
		return NewFoldMatcher()
	}
	return ExactMatcher{}
}
