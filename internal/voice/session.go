package voice

import (
	"context"
	"encoding/json"
	"sync"

	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
)

// clientFrame is the browser side framing: media chunks keyed by "event".
type clientFrame struct {
	Event string `json:"event"`
	Media *struct {
		Timestamp json.Number `json:"timestamp"`
		Payload   string      `json:"payload"`
	} `json:"media,omitempty"`
	Start *struct {
		StreamSid string `json:"streamSid"`
	} `json:"start,omitempty"`
}

// serverEvent holds the realtime event fields the relay looks at.
type serverEvent struct {
	Type      string          `json:"type"`
	Delta     string          `json:"delta"`
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments string          `json:"arguments"`
	Error     json.RawMessage `json:"error"`
}

type session struct {
	relay    *Relay
	client   *socket
	upstream *socket

	mu        sync.Mutex
	streamSid string
	closeOnce sync.Once
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.client.conn.Close()
		s.upstream.conn.Close()
	})
}

func (s *session) setStreamSid(sid string) {
	s.mu.Lock()
	s.streamSid = sid
	s.mu.Unlock()
}

func (s *session) getStreamSid() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streamSid
}

func (s *session) fromClient() error {
	for {
		var frame clientFrame
		if err := s.client.conn.ReadJSON(&frame); err != nil {
			return err
		}
		switch frame.Event {
		case "media":
			if frame.Media == nil || frame.Media.Payload == "" {
				continue
			}
			if err := s.upstream.send(map[string]any{
				"type":  "input_audio_buffer.append",
				"audio": frame.Media.Payload,
			}); err != nil {
				return err
			}
		case "start":
			if frame.Start != nil {
				s.setStreamSid(frame.Start.StreamSid)
				debuglog.Debug(debuglog.Detailed, "voice stream started: %s\n", frame.Start.StreamSid)
			}
		default:
			debuglog.Debug(debuglog.Trace, "ignoring client event %q\n", frame.Event)
		}
	}
}

func (s *session) fromUpstream(ctx context.Context) error {
	for {
		_, data, err := s.upstream.conn.ReadMessage()
		if err != nil {
			return err
		}
		var ev serverEvent
		if err = json.Unmarshal(data, &ev); err != nil {
			debuglog.Debug(debuglog.Detailed, "unreadable realtime event: %v\n", err)
			continue
		}
		debuglog.Debug(debuglog.Wire, "realtime <- %s\n", data)

		switch ev.Type {
		case "response.audio.delta":
			err = s.client.send(map[string]any{
				"event":     "media",
				"streamSid": s.getStreamSid(),
				"media":     map[string]any{"payload": ev.Delta},
			})
		case "input_audio_buffer.speech_started":
			err = s.client.send(map[string]any{
				"event":     "clear",
				"streamSid": s.getStreamSid(),
			})
		case "response.function_call_arguments.done":
			err = s.callFunction(ctx, &ev)
		case "error":
			debuglog.Log("realtime API error: %s\n", ev.Error)
		}
		if err != nil {
			return err
		}
	}
}

// callFunction runs the tool on the reader goroutine and hands the result back
// so the model can speak it.
func (s *session) callFunction(ctx context.Context, ev *serverEvent) error {
	ctx, cancel := context.WithTimeout(ctx, s.relay.cfg.ToolTimeout)
	defer cancel()

	result := s.relay.registry.Dispatch(ctx, &ai.ToolCall{
		CallID:    ev.CallID,
		Name:      ev.Name,
		Arguments: decodeArgs(ev.Arguments),
	})
	debuglog.Debug(debuglog.Detailed, "voice tool %s -> %s\n", ev.Name, result.JSON())

	if err := s.upstream.send(map[string]any{
		"type": "conversation.item.create",
		"item": map[string]any{
			"type":    "function_call_output",
			"call_id": ev.CallID,
			"output":  result.JSON(),
		},
	}); err != nil {
		return err
	}
	return s.upstream.send(map[string]any{"type": "response.create"})
}
