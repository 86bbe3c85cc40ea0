package domain

import "strings"

// ChatRequest is the inbound chat message. SessionID is optional; a new
// session is created when it is empty.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// ChatOptions carries per-call model settings handed to a vendor.
type ChatOptions struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// Turn is one user message plus the assistant's reply.
type Turn struct {
	UserMessage string `json:"user_message"`
	AIMessage   string `json:"ai_message"`
}

// Sessions maps a session id to its turns in order.
type Sessions map[string][]Turn

// Status is the outcome reported by a tool executor.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusConflict Status = "conflict"
	StatusNotFound Status = "not found"
	StatusError    Status = "error"
)

// RecordKind names a domain collection. The values double as the envelope
// keys and the /records/:kind path segment.
type RecordKind string

const (
	KindMeal     RecordKind = "meals"
	KindList     RecordKind = "lists"
	KindReminder RecordKind = "reminders"
	KindEvent    RecordKind = "events"
	KindRecipe   RecordKind = "recipes"
)

// RecordKinds lists every collection in envelope order.
var RecordKinds = []RecordKind{KindMeal, KindList, KindReminder, KindEvent, KindRecipe}

// ParseRecordKind maps a path segment onto a RecordKind.
func ParseRecordKind(s string) (RecordKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range RecordKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ChatResponse is the envelope returned for every chat turn. Each slice
// holds at most the one record this turn created or updated.
type ChatResponse struct {
	SessionID string      `json:"session_id"`
	AIMessage string      `json:"ai_message"`
	Meals     []*Meal     `json:"meals"`
	Lists     []*Note     `json:"lists"`
	Reminders []*Reminder `json:"reminders"`
	Events    []*Event    `json:"events"`
	Recipes   []*Recipe   `json:"recipes"`
}

// NewChatResponse returns an envelope with empty, non-nil record slices so
// clients always see arrays.
func NewChatResponse(sessionID string) *ChatResponse {
	return &ChatResponse{
		SessionID: sessionID,
		Meals:     []*Meal{},
		Lists:     []*Note{},
		Reminders: []*Reminder{},
		Events:    []*Event{},
		Recipes:   []*Recipe{},
	}
}

// Attach files record under the matching kind. Unknown values are ignored.
func (r *ChatResponse) Attach(record any) {
	switch v := record.(type) {
	case *Meal:
		r.Meals = append(r.Meals, v)
	case *Note:
		r.Lists = append(r.Lists, v)
	case *Reminder:
		r.Reminders = append(r.Reminders, v)
	case *Event:
		r.Events = append(r.Events, v)
	case *Recipe:
		r.Recipes = append(r.Recipes, v)
	}
}
