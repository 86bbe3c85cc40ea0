package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealTool() ai.ToolDeclaration {
	return ai.ToolDeclaration{
		Name:        "add_meal",
		Description: "Add meal to the meal tracker.",
		Parameters: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{"title": map[string]any{"type": "string"}},
			"required":             []string{"title"},
			"additionalProperties": false,
		},
	}
}

func TestBuildResponseRequestWithMaxTokens(t *testing.T) {
	opts := &domain.ChatOptions{
		Model:       "gpt-4.1",
		Temperature: 0.8,
		TopP:        0.9,
		MaxTokens:   50,
	}

	client := NewClient("test-key")
	request := client.buildResponseParams(&ai.Request{Input: "User: hi\nAI:", Options: opts})
	assert.Equal(t, shared.ResponsesModel(opts.Model), request.Model)
	assert.Equal(t, openai.Float(opts.Temperature), request.Temperature)
	assert.Equal(t, openai.Float(opts.TopP), request.TopP)
	assert.Equal(t, openai.Int(int64(opts.MaxTokens)), request.MaxOutputTokens)
}

func TestBuildResponseRequestDefaults(t *testing.T) {
	client := NewClient("test-key")
	request := client.buildResponseParams(&ai.Request{Input: "User: hi\nAI:"})

	assert.Equal(t, shared.ResponsesModel(DefaultModel), request.Model)
	assert.False(t, request.MaxOutputTokens.Valid())
	assert.False(t, request.Temperature.Valid())
	assert.Nil(t, request.Tools, "Expected no tools for a plain completion")
	assert.Len(t, request.Input.OfInputItemList, 1, "Expected only the user turn without instructions")
}

func TestBuildResponseParams_WithInstructionsAndTools(t *testing.T) {
	client := NewClient("test-key")
	params := client.buildResponseParams(&ai.Request{
		Instructions: "You are a smart AI assistant.",
		Input:        "User: I had soup for lunch\nAI:",
		Tools:        []ai.ToolDeclaration{mealTool()},
	})

	require.Len(t, params.Input.OfInputItemList, 2)
	system := params.Input.OfInputItemList[0].OfMessage
	require.NotNil(t, system)
	assert.Equal(t, "system", string(system.Role))
	assert.Equal(t, "You are a smart AI assistant.", system.Content.OfString.Value)

	require.Len(t, params.Tools, 1)
	fn := params.Tools[0].OfFunction
	require.NotNil(t, fn, "Expected a function tool")
	assert.Equal(t, "add_meal", fn.Name)
	assert.Equal(t, "Add meal to the meal tracker.", fn.Description.Value)
	assert.False(t, fn.Strict.Value)
	assert.Equal(t, "object", fn.Parameters["type"])
}

const functionCallResponse = `{
  "id": "resp_123",
  "object": "response",
  "created_at": 1768550000,
  "model": "gpt-4.1-2025-04-14",
  "status": "completed",
  "output": [
    {
      "type": "message",
      "id": "msg_1",
      "role": "assistant",
      "status": "completed",
      "content": [{"type": "output_text", "text": "Sure.", "annotations": []}]
    },
    {
      "type": "function_call",
      "id": "fc_1",
      "call_id": "call_1",
      "name": "add_meal",
      "arguments": "{\"title\":\"grilled chicken\"}",
      "status": "completed"
    },
    {
      "type": "function_call",
      "id": "fc_2",
      "call_id": "call_2",
      "name": "add_recipe",
      "arguments": "{}",
      "status": "completed"
    }
  ]
}`

func TestSendKeepsFirstFunctionCall(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, functionCallResponse)
	}))
	defer server.Close()

	client := NewClient("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	completion, err := client.Send(context.Background(), &ai.Request{
		Instructions: "system",
		Input:        "User: hi\nAI:",
		Tools:        []ai.ToolDeclaration{mealTool()},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sure.", completion.Text)
	require.True(t, completion.HasToolCall())
	assert.Equal(t, "add_meal", completion.ToolCall.Name)
	assert.Equal(t, "call_1", completion.ToolCall.CallID)
	assert.JSONEq(t, `{"title":"grilled chicken"}`, string(completion.ToolCall.Arguments))

	assert.Equal(t, DefaultModel, body["model"])
	tools, _ := body["tools"].([]any)
	assert.Len(t, tools, 1)
}

func TestSendWrapsTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	_, err := client.Send(context.Background(), &ai.Request{Input: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI responses call failed")
}
