package dryrun

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
)

func TestListModels_ReturnsExpectedModel(t *testing.T) {
	client := NewClient()
	models, err := client.ListModels()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	expected := []string{"dry-run-model"}
	if !reflect.DeepEqual(models, expected) {
		t.Errorf("Expected %v, got %v", expected, models)
	}
}

func TestSend_EchoesRequestWithoutToolCall(t *testing.T) {
	client := NewClient()
	completion, err := client.Send(context.Background(), &ai.Request{
		Instructions: "You are a helpful assistant.",
		Input:        "User: hello",
		Tools:        []ai.ToolDeclaration{{Name: "add_meal"}, {Name: "find_events"}},
		Options:      &domain.ChatOptions{Model: "dry-run-model"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if completion.HasToolCall() {
		t.Errorf("Expected no tool call, got %+v", completion.ToolCall)
	}
	for _, want := range []string{"Model: dry-run-model", "Tools: add_meal, find_events", "You are a helpful assistant.", "User: hello"} {
		if !strings.Contains(completion.Text, want) {
			t.Errorf("Expected output to contain %q, got %q", want, completion.Text)
		}
	}
}

func TestSend_WithoutOptions(t *testing.T) {
	client := NewClient()
	completion, err := client.Send(context.Background(), &ai.Request{Input: "User: hi"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.Contains(completion.Text, "Model:") {
		t.Errorf("Expected no model line, got %q", completion.Text)
	}
}
