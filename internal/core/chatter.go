package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	"github.com/Reyad02/chatting-voice-agent/internal/tools"
	"github.com/google/uuid"
)

const (
	PersonaAssistant = "assistant"
	PersonaCompanion = "companion"

	DefaultTimeout = 60 * time.Second
)

var ErrEmptyMessage = errors.New("message is required")

// SessionStore loads and saves the whole session map.
type SessionStore interface {
	Load(ctx context.Context) (domain.Sessions, error)
	Save(ctx context.Context, sessions domain.Sessions) error
}

// Chatter runs one exchange per chat message: a model call that may pick a
// tool, the tool itself, and a second tool-less call that phrases the result.
type Chatter struct {
	Vendor   ai.Vendor
	Registry *tools.Registry
	Sessions SessionStore
	Prompts  PromptSource

	// Persona selects the role prompt: assistant or companion.
	Persona string
	Options domain.ChatOptions
	// Timeout bounds each model call and the tool call separately.
	Timeout time.Duration

	Now   func() time.Time
	NewID func() string

	// mu serializes the session read-modify-write, not the model calls.
	mu sync.Mutex
}

// Send runs the exchange. The only error it returns is for an empty message
// or an unreadable session store; model and tool failures become replies.
func (o *Chatter) Send(ctx context.Context, request *domain.ChatRequest) (ret *domain.ChatResponse, err error) {
	message := strings.TrimSpace(request.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sessionID, history, err := o.resolveSession(ctx, request.SessionID)
	if err != nil {
		return nil, err
	}
	ret = domain.NewChatResponse(sessionID)

	registry := o.registry()
	data := NewPromptData(o.now(), registry.Names())

	var completion *ai.Completion
	if completion, err = o.call(ctx, &ai.Request{
		Instructions: RenderPrompt(o.rolePrompt(), data, o.Prompts),
		Input:        LinearizeHistory(history, message),
		Tools:        registry.Declarations(),
		Options:      o.chatOptions(),
	}); err != nil {
		debuglog.Log("%s first call failed for session %s: %v\n", o.Vendor.GetName(), sessionID, err)
		ret.AIMessage = i18n.T("chat_fallback_reply")
		return ret, nil
	}

	reply := strings.TrimSpace(completion.Text)
	if completion.HasToolCall() {
		result := o.runTool(ctx, registry, completion.ToolCall)
		if result.Record != nil && !result.Removed {
			ret.Attach(result.Record)
		}
		reply = JoinReply(reply, o.summarize(ctx, data, result))
	}
	ret.AIMessage = reply

	o.persist(ctx, sessionID, domain.Turn{UserMessage: message, AIMessage: reply})
	return ret, nil
}

func (o *Chatter) registry() *tools.Registry {
	if o.Registry == nil || o.Persona == PersonaCompanion {
		empty, _ := tools.NewRegistry()
		return empty
	}
	return o.Registry
}

func (o *Chatter) rolePrompt() string {
	if o.Persona == PersonaCompanion {
		return PromptCompanion
	}
	return PromptAssistant
}

func (o *Chatter) resolveSession(ctx context.Context, sessionID string) (string, []domain.Turn, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sessions, err := o.Sessions.Load(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("could not load sessions: %w", err)
	}
	if sessionID == "" {
		sessionID = o.newID()
	}
	return sessionID, sessions[sessionID], nil
}

// persist reloads the store so turns written by other requests since the
// first load are kept.
func (o *Chatter) persist(ctx context.Context, sessionID string, turn domain.Turn) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sessions, err := o.Sessions.Load(ctx)
	if err != nil {
		debuglog.Log("could not reload sessions, turn for %s not saved: %v\n", sessionID, err)
		return
	}
	if sessions == nil {
		sessions = domain.Sessions{}
	}
	sessions[sessionID] = append(sessions[sessionID], turn)
	if err = o.Sessions.Save(ctx, sessions); err != nil {
		debuglog.Log("could not save session %s: %v\n", sessionID, err)
	}
}

func (o *Chatter) call(ctx context.Context, request *ai.Request) (*ai.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()
	debuglog.Debug(debuglog.Trace, "system:\n%s\ninput:\n%s\n", request.Instructions, request.Input)
	return o.Vendor.Send(ctx, request)
}

func (o *Chatter) runTool(ctx context.Context, registry *tools.Registry, call *ai.ToolCall) *tools.Result {
	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()
	result := registry.Dispatch(ctx, call)
	debuglog.Debug(debuglog.Detailed, "tool %s -> %s\n", call.Name, result.JSON())
	return result
}

// summarize is the second, tool-less call. A failed or empty answer falls
// back to a fixed sentence for the result status.
func (o *Chatter) summarize(ctx context.Context, data PromptData, result *tools.Result) string {
	completion, err := o.call(ctx, &ai.Request{
		Instructions: RenderPrompt(PromptSummary, data, o.Prompts),
		Input:        "Action completed: " + result.JSON(),
		Options:      o.chatOptions(),
	})
	if err != nil {
		debuglog.Log("%s summary call failed: %v\n", o.Vendor.GetName(), err)
		return SummaryFallback(result)
	}
	if text := strings.TrimSpace(completion.Text); text != "" {
		return text
	}
	return SummaryFallback(result)
}

// SummaryFallback picks a localized sentence for a tool result.
func SummaryFallback(result *tools.Result) string {
	switch result.Status {
	case domain.StatusSuccess:
		return i18n.T("chat_summary_success")
	case domain.StatusConflict:
		return i18n.T("chat_summary_conflict")
	case domain.StatusNotFound:
		return i18n.T("chat_summary_not_found")
	}
	var incomplete *tools.IncompleteArgumentsError
	if errors.As(result.Err, &incomplete) {
		return i18n.T("chat_summary_incomplete")
	}
	return i18n.T("chat_summary_error")
}

func (o *Chatter) chatOptions() *domain.ChatOptions {
	opts := o.Options
	return &opts
}

func (o *Chatter) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

func (o *Chatter) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Chatter) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

// LinearizeHistory renders past turns as alternating User:/AI: lines and
// leaves an open AI: marker after the new message.
func LinearizeHistory(turns []domain.Turn, message string) string {
	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", turn.UserMessage, turn.AIMessage)
	}
	fmt.Fprintf(&b, "User: %s\nAI:", message)
	return b.String()
}

// JoinReply joins the first call's text and the summary with a newline,
// dropping whichever is empty.
func JoinReply(first, second string) string {
	switch {
	case first == "":
		return second
	case second == "":
		return first
	}
	return first + "\n" + second
}
