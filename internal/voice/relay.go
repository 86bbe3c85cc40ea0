// Package voice relays a browser audio socket to the OpenAI Realtime API and
// answers the model's function calls from the tool registry.
package voice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/core"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	"github.com/Reyad02/chatting-voice-agent/internal/tools"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

const (
	DefaultURL         = "wss://api.openai.com/v1/realtime"
	DefaultModel       = "gpt-4o-mini-realtime-preview"
	DefaultVoice       = "echo"
	DefaultTemperature = 0.8

	audioFormat = "pcm16"
)

type Config struct {
	APIKey      string
	URL         string
	Model       string
	Voice       string
	Temperature float64
	// ToolTimeout bounds each function call made on behalf of the model.
	ToolTimeout time.Duration
}

// Relay pairs each client socket with its own upstream realtime session.
type Relay struct {
	cfg      Config
	registry *tools.Registry
	prompts  core.PromptSource
	dialer   *websocket.Dialer

	Now func() time.Time
}

func NewRelay(cfg Config, registry *tools.Registry, prompts core.PromptSource) (*Relay, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("realtime API key is required")
	}
	cfg.URL = lo.CoalesceOrEmpty(cfg.URL, DefaultURL)
	cfg.Model = lo.CoalesceOrEmpty(cfg.Model, DefaultModel)
	cfg.Voice = lo.CoalesceOrEmpty(cfg.Voice, DefaultVoice)
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = core.DefaultTimeout
	}
	if registry == nil {
		registry, _ = tools.NewRegistry()
	}
	return &Relay{
		cfg:      cfg,
		registry: registry,
		prompts:  prompts,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 15 * time.Second,
			ReadBufferSize:   64 * 1024,
			WriteBufferSize:  64 * 1024,
		},
		Now: time.Now,
	}, nil
}

// Serve runs one voice conversation over client. It returns when either side
// closes; both sockets are closed on return.
func (r *Relay) Serve(ctx context.Context, client *websocket.Conn) error {
	upstream, err := r.dial(ctx)
	if err != nil {
		client.Close()
		return err
	}

	s := &session{
		relay:    r,
		client:   &socket{conn: client},
		upstream: &socket{conn: upstream},
	}
	defer s.close()

	if err = s.upstream.send(r.sessionUpdate()); err != nil {
		return fmt.Errorf("send session.update: %w", err)
	}

	done := make(chan error, 2)
	go func() { done <- s.fromClient() }()
	go func() { done <- s.fromUpstream(ctx) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	s.close()
	if isClosed(err) {
		return nil
	}
	return err
}

func (r *Relay) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse realtime URL: %w", err)
	}
	q := u.Query()
	q.Set("model", r.cfg.Model)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	header.Set("OpenAI-Beta", "realtime=v1")

	debuglog.Debug(debuglog.Basic, "connecting to realtime API %s\n", u.Redacted())
	conn, resp, err := r.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial realtime API: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial realtime API: %w", err)
	}
	return conn, nil
}

func (r *Relay) sessionUpdate() map[string]any {
	data := core.NewPromptData(r.Now(), r.registry.Names())
	return map[string]any{
		"type": "session.update",
		"session": map[string]any{
			"turn_detection":      map[string]any{"type": "server_vad"},
			"voice":               r.cfg.Voice,
			"instructions":        core.RenderPrompt(core.PromptVoice, data, r.prompts),
			"modalities":          []string{"audio", "text"},
			"temperature":         r.cfg.Temperature,
			"input_audio_format":  audioFormat,
			"output_audio_format": audioFormat,
			"tools":               lo.Map(r.registry.Declarations(), realtimeFunction),
			"tool_choice":         "auto",
		},
	}
}

func realtimeFunction(decl ai.ToolDeclaration, _ int) map[string]any {
	return map[string]any{
		"type":        "function",
		"name":        decl.Name,
		"description": decl.Description,
		"parameters":  decl.Parameters,
	}
}

// socket serializes writes; gorilla connections allow one concurrent writer.
type socket struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *socket) send(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func isClosed(err error) bool {
	return err == nil ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
		errors.Is(err, context.Canceled)
}

// decodeArgs is what a function_call_arguments.done event carries.
func decodeArgs(raw string) json.RawMessage {
	if raw == "" {
		return json.RawMessage("{}")
	}
	return json.RawMessage(raw)
}
