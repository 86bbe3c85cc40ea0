package voice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/store"
	"github.com/Reyad02/chatting-voice-agent/internal/tools"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// fakeRealtime is an upstream that hands its socket to the test.
type fakeRealtime struct {
	srv     *httptest.Server
	conns   chan *websocket.Conn
	headers chan http.Header
	query   chan string
}

func newFakeRealtime(t *testing.T) *fakeRealtime {
	f := &fakeRealtime{
		conns:   make(chan *websocket.Conn, 1),
		headers: make(chan http.Header, 1),
		query:   make(chan string, 1),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.headers <- r.Header.Clone()
		f.query <- r.URL.Query().Get("model")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		f.conns <- conn
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeRealtime) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *fakeRealtime) accept(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-f.conns:
		t.Cleanup(func() { conn.Close() })
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("relay never dialed upstream")
		return nil
	}
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var ev map[string]any
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// startRelay serves the relay behind a test server and returns the browser
// side of the conversation.
func startRelay(t *testing.T, relay *Relay) *websocket.Conn {
	t.Helper()
	front := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = relay.Serve(context.Background(), conn)
	}))
	t.Cleanup(front.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(front.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestRelay(t *testing.T, upstreamURL string, mem store.Store) *Relay {
	t.Helper()
	registry, err := (&tools.Toolbox{Store: mem}).Registry(tools.PresetMinimal)
	require.NoError(t, err)
	relay, err := NewRelay(Config{APIKey: "sk-test", URL: upstreamURL}, registry, nil)
	require.NoError(t, err)
	relay.Now = func() time.Time { return time.Date(2026, 1, 17, 8, 0, 0, 0, time.UTC) }
	return relay
}

func TestNewRelayRequiresKey(t *testing.T) {
	_, err := NewRelay(Config{}, nil, nil)
	assert.Error(t, err)
}

func TestNewRelayDefaults(t *testing.T) {
	relay, err := NewRelay(Config{APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, relay.cfg.URL)
	assert.Equal(t, DefaultModel, relay.cfg.Model)
	assert.Equal(t, DefaultVoice, relay.cfg.Voice)
	assert.Equal(t, DefaultTemperature, relay.cfg.Temperature)
	assert.Equal(t, 0, relay.registry.Len())
}

func TestRelaySendsSessionUpdateOnConnect(t *testing.T) {
	upstream := newFakeRealtime(t)
	startRelay(t, newTestRelay(t, upstream.url(), store.NewMemory()))
	conn := upstream.accept(t)

	headers := <-upstream.headers
	assert.Equal(t, "Bearer sk-test", headers.Get("Authorization"))
	assert.Equal(t, "realtime=v1", headers.Get("OpenAI-Beta"))
	assert.Equal(t, DefaultModel, <-upstream.query)

	ev := readEvent(t, conn)
	assert.Equal(t, "session.update", ev["type"])
	session := ev["session"].(map[string]any)
	assert.Equal(t, "echo", session["voice"])
	assert.Equal(t, 0.8, session["temperature"])
	assert.Contains(t, session["instructions"], "2026-01-17 08:00")
	assert.Contains(t, session["instructions"], "save_list")

	fns := session["tools"].([]any)
	require.Len(t, fns, 2)
	first := fns[0].(map[string]any)
	assert.Equal(t, "function", first["type"])
	assert.Equal(t, tools.SaveList, first["name"])
}

func TestRelayTranslatesAudio(t *testing.T) {
	upstream := newFakeRealtime(t)
	client := startRelay(t, newTestRelay(t, upstream.url(), store.NewMemory()))
	conn := upstream.accept(t)
	readEvent(t, conn)

	require.NoError(t, client.WriteJSON(map[string]any{"event": "start", "start": map[string]any{"streamSid": "sid-1"}}))
	require.NoError(t, client.WriteJSON(map[string]any{"event": "media", "media": map[string]any{"timestamp": 10, "payload": "AAAA"}}))

	ev := readEvent(t, conn)
	assert.Equal(t, "input_audio_buffer.append", ev["type"])
	assert.Equal(t, "AAAA", ev["audio"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "response.audio.delta", "delta": "BBBB"}))
	out := readEvent(t, client)
	assert.Equal(t, "media", out["event"])
	assert.Equal(t, "sid-1", out["streamSid"])
	assert.Equal(t, "BBBB", out["media"].(map[string]any)["payload"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "input_audio_buffer.speech_started"}))
	out = readEvent(t, client)
	assert.Equal(t, "clear", out["event"])
}

func TestRelayAnswersFunctionCalls(t *testing.T) {
	mem := store.NewMemory()
	upstream := newFakeRealtime(t)
	startRelay(t, newTestRelay(t, upstream.url(), mem))
	conn := upstream.accept(t)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      "response.function_call_arguments.done",
		"call_id":   "call_9",
		"name":      tools.AddReminders,
		"arguments": `{"title":"call mom","time":"this week"}`,
	}))

	item := readEvent(t, conn)
	assert.Equal(t, "conversation.item.create", item["type"])
	body := item["item"].(map[string]any)
	assert.Equal(t, "function_call_output", body["type"])
	assert.Equal(t, "call_9", body["call_id"])
	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(body["output"].(string)), &result))
	assert.Equal(t, "success", result["status"])

	assert.Equal(t, "response.create", readEvent(t, conn)["type"])

	reminders, err := mem.Reminders(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, domain.ThisWeek, reminders[0].Time)
}

func TestRelayReportsUnknownFunction(t *testing.T) {
	upstream := newFakeRealtime(t)
	startRelay(t, newTestRelay(t, upstream.url(), store.NewMemory()))
	conn := upstream.accept(t)
	readEvent(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "response.function_call_arguments.done", "call_id": "c", "name": "launch_rockets", "arguments": "{}",
	}))
	item := readEvent(t, conn)
	assert.Contains(t, item["item"].(map[string]any)["output"], "tool is not available")
}

func TestRelayClosesClientWhenUpstreamCloses(t *testing.T) {
	upstream := newFakeRealtime(t)
	client := startRelay(t, newTestRelay(t, upstream.url(), store.NewMemory()))
	conn := upstream.accept(t)
	readEvent(t, conn)

	require.NoError(t, conn.Close())
	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := client.ReadMessage()
	assert.Error(t, err)
}
