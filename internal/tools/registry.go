// Package tools declares the functions the model may call and routes its
// calls to their executors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	"github.com/samber/lo"
	"github.com/xeipuuv/gojsonschema"
)

// Handler executes one tool call with arguments that already passed schema
// validation. A returned error becomes an error result.
type Handler func(ctx context.Context, args json.RawMessage) (*Result, error)

// Definition is one row of the tool table.
type Definition struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object. additionalProperties should be false.
	Parameters map[string]any
	Strict     bool
	// Kind is the collection the tool writes to, empty for read-only tools.
	Kind    domain.RecordKind
	Handler Handler
}

// Result is the payload handed to the summary call.
type Result struct {
	Status  domain.Status `json:"status"`
	Message string        `json:"message,omitempty"`
	// Record is the created, updated or removed record.
	Record  any               `json:"record,omitempty"`
	Events  []*domain.Event   `json:"events,omitempty"`
	Count   int               `json:"count,omitempty"`
	Error   string            `json:"error,omitempty"`
	Kind    domain.RecordKind `json:"-"`
	Removed bool              `json:"-"`
	Err     error             `json:"-"`
}

// JSON renders the result for the model. It never fails.
func (r *Result) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf(`{"status":%q,"error":%q}`, domain.StatusError, err.Error())
	}
	return string(data)
}

func errorResult(err error) *Result {
	return &Result{Status: domain.StatusError, Error: err.Error(), Err: err}
}

type entry struct {
	def    Definition
	schema *gojsonschema.Schema
}

// Registry is an immutable, ordered tool table. Only and Without derive new
// registries from already compiled entries.
type Registry struct {
	entries []*entry
	byName  map[string]*entry
}

// NewRegistry compiles every definition's schema. A schema that does not
// compile, a missing handler or a repeated name is an error.
func NewRegistry(defs ...Definition) (*Registry, error) {
	entries := make([]*entry, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tool definition without a name")
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", def.Name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.Parameters))
		if err != nil {
			return nil, fmt.Errorf("tool %s: invalid parameter schema: %w", def.Name, err)
		}
		entries = append(entries, &entry{def: def, schema: schema})
	}
	return newRegistry(entries)
}

func newRegistry(entries []*entry) (*Registry, error) {
	r := &Registry{entries: entries, byName: make(map[string]*entry, len(entries))}
	for _, e := range entries {
		if _, dup := r.byName[e.def.Name]; dup {
			return nil, fmt.Errorf("tool %s registered twice", e.def.Name)
		}
		r.byName[e.def.Name] = e
	}
	return r, nil
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Names() []string {
	return lo.Map(r.entries, func(e *entry, _ int) string { return e.def.Name })
}

func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Only keeps the named tools, in table order. Unknown names are ignored.
func (r *Registry) Only(names ...string) *Registry {
	return r.filter(func(e *entry) bool { return slices.Contains(names, e.def.Name) })
}

// Without drops the named tools.
func (r *Registry) Without(names ...string) *Registry {
	return r.filter(func(e *entry) bool { return !slices.Contains(names, e.def.Name) })
}

func (r *Registry) filter(keep func(*entry) bool) *Registry {
	// Entries are already unique, so this cannot fail.
	ret, _ := newRegistry(lo.Filter(r.entries, func(e *entry, _ int) bool { return keep(e) }))
	return ret
}

// Declarations advertises the table to a model.
func (r *Registry) Declarations() []ai.ToolDeclaration {
	return lo.Map(r.entries, func(e *entry, _ int) ai.ToolDeclaration {
		return ai.ToolDeclaration{
			Name:        e.def.Name,
			Description: e.def.Description,
			Parameters:  e.def.Parameters,
			Strict:      e.def.Strict,
		}
	})
}

// Validate checks args against the named tool's schema.
func (r *Registry) Validate(name string, args json.RawMessage) error {
	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrToolUnavailable, name)
	}
	return e.validate(args)
}

func (e *entry) validate(args json.RawMessage) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := e.schema.Validate(gojsonschema.NewBytesLoader(args))
	if err != nil {
		return &InvalidArgumentsError{Tool: e.def.Name, Problems: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	var missing, problems []string
	for _, desc := range result.Errors() {
		if desc.Type() == "required" {
			if property, ok := desc.Details()["property"].(string); ok {
				missing = append(missing, property)
				continue
			}
		}
		problems = append(problems, desc.String())
	}
	if len(missing) > 0 && len(problems) == 0 {
		return &IncompleteArgumentsError{Tool: e.def.Name, Missing: missing}
	}
	if len(missing) > 0 {
		problems = append(problems, (&IncompleteArgumentsError{Tool: e.def.Name, Missing: missing}).Error())
	}
	return &InvalidArgumentsError{Tool: e.def.Name, Problems: problems}
}

// Dispatch validates and runs a tool call. Every failure, including a
// panicking handler, comes back as an error result.
func (r *Registry) Dispatch(ctx context.Context, call *ai.ToolCall) (ret *Result) {
	e, ok := r.byName[call.Name]
	if !ok {
		return errorResult(fmt.Errorf("%w: %s", ErrToolUnavailable, call.Name))
	}
	if err := e.validate(call.Arguments); err != nil {
		debuglog.Debug(debuglog.Detailed, "tool %s rejected: %v\n", call.Name, err)
		return errorResult(err)
	}

	defer func() {
		if p := recover(); p != nil {
			debuglog.Log("tool %s panicked: %v\n", call.Name, p)
			ret = errorResult(fmt.Errorf("%s failed: %v", call.Name, p))
		}
	}()

	debuglog.Debug(debuglog.Detailed, "tool %s args=%s\n", call.Name, string(call.Arguments))
	result, err := e.def.Handler(ctx, call.Arguments)
	if err != nil {
		return errorResult(err)
	}
	if result == nil {
		return errorResult(fmt.Errorf("%s returned no result", call.Name))
	}
	if result.Kind == "" {
		result.Kind = e.def.Kind
	}
	return result
}
