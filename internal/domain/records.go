package domain

// MealType is one of breakfast, lunch or dinner.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
)

var MealTypes = []string{string(Breakfast), string(Lunch), string(Dinner)}

type Meal struct {
	ID          int      `json:"id"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	MealType    MealType `json:"meal_type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Calories    float64  `json:"calories"`
}

// MealKey is the (date, meal_type, title) composite key used to target a
// meal for update or delete. It is not enforced as unique.
type MealKey struct {
	Date     string   `json:"date"`
	MealType MealType `json:"meal_type"`
	Title    string   `json:"title"`
}

// MealPatch holds the fields of a partial meal update. Nil fields are left
// untouched.
type MealPatch struct {
	Date        *string   `json:"new_date,omitempty"`
	Time        *string   `json:"new_time,omitempty"`
	MealType    *MealType `json:"new_meal_type,omitempty"`
	Title       *string   `json:"new_title,omitempty"`
	Description *string   `json:"new_description,omitempty"`
	Calories    *float64  `json:"new_calories,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p MealPatch) IsEmpty() bool {
	return p.Date == nil && p.Time == nil && p.MealType == nil &&
		p.Title == nil && p.Description == nil && p.Calories == nil
}

// Apply mutates m with every non-nil field of the patch.
func (p MealPatch) Apply(m *Meal) {
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.MealType != nil {
		m.MealType = *p.MealType
	}
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Calories != nil {
		m.Calories = *p.Calories
	}
}

type Recipe struct {
	RecipeName  string   `json:"recipe_name"`
	MealType    MealType `json:"meal_type"`
	CookingTime float64  `json:"cooking_time"`
	Description string   `json:"description"`
	Ratings     float64  `json:"ratings"`
}

// ReminderWindow is the coarse time bucket a reminder belongs to.
type ReminderWindow string

const (
	Today     ReminderWindow = "today"
	ThisWeek  ReminderWindow = "this week"
	NextWeek  ReminderWindow = "next week"
	ThisMonth ReminderWindow = "this month"
)

var ReminderWindows = []string{string(Today), string(ThisWeek), string(NextWeek), string(ThisMonth)}

type Reminder struct {
	Title string         `json:"title"`
	Time  ReminderWindow `json:"time"`
}

// Note is a titled list, e.g. a shopping list.
type Note struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Repeat is the recurrence cadence of a calendar event.
type Repeat string

const (
	RepeatNever      Repeat = "never"
	RepeatEveryday   Repeat = "everyday"
	RepeatEveryWeek  Repeat = "every_week"
	RepeatEveryMonth Repeat = "every_month"
)

var Repeats = []string{string(RepeatNever), string(RepeatEveryday), string(RepeatEveryWeek), string(RepeatEveryMonth)}

// ReminderMethods are the delivery methods a calendar reminder supports.
var ReminderMethods = []string{"popup", "email"}

type EventReminder struct {
	Method  string `json:"method"`
	Minutes int64  `json:"minutes"`
}

// Event mirrors a calendar event created through this service. Date is the
// calendar-date part of Start. The provider owns the authoritative record.
type Event struct {
	ID          string          `json:"id"`
	Summary     string          `json:"summary"`
	Description string          `json:"description"`
	Start       string          `json:"start"`
	End         string          `json:"end"`
	TimeZone    string          `json:"time_zone"`
	HTMLLink    string          `json:"html_link,omitempty"`
	Status      string          `json:"status,omitempty"`
	Recurrence  []string        `json:"recurrence,omitempty"`
	Reminders   []EventReminder `json:"reminders,omitempty"`
	Date        string          `json:"date"`
}
