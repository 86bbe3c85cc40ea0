package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChatResponseMarshalsEmptyArrays(t *testing.T) {
	data, err := json.Marshal(NewChatResponse("abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"session_id": "abc",
		"ai_message": "",
		"meals": [],
		"lists": [],
		"reminders": [],
		"events": [],
		"recipes": []
	}`, string(data))
}

func TestChatResponseAttach(t *testing.T) {
	resp := NewChatResponse("s")
	resp.Attach(&Meal{Title: "soup"})
	resp.Attach(&Reminder{Title: "call mom", Time: ThisWeek})
	resp.Attach("not a record")

	assert.Len(t, resp.Meals, 1)
	assert.Len(t, resp.Reminders, 1)
	assert.Empty(t, resp.Lists)
	assert.Empty(t, resp.Events)
	assert.Empty(t, resp.Recipes)
}

func TestMealPatchApplyOnlyTouchesSuppliedFields(t *testing.T) {
	meal := &Meal{ID: 2, Date: "2026-01-16", Time: "12:30", MealType: Lunch, Title: "rice & chicken", Description: "curry", Calories: 500}
	calories := 620.0
	patch := MealPatch{Calories: &calories}

	assert.False(t, patch.IsEmpty())
	patch.Apply(meal)

	assert.Equal(t, &Meal{ID: 2, Date: "2026-01-16", Time: "12:30", MealType: Lunch, Title: "rice & chicken", Description: "curry", Calories: 620}, meal)
	assert.True(t, MealPatch{}.IsEmpty())
}

func TestParseRecordKind(t *testing.T) {
	kind, ok := ParseRecordKind(" Meals ")
	assert.True(t, ok)
	assert.Equal(t, KindMeal, kind)

	_, ok = ParseRecordKind("patterns")
	assert.False(t, ok)
}
