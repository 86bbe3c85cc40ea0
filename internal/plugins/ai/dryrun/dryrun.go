package dryrun

import (
	"context"
	"fmt"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
)

const DryRunModel = "dry-run-model"

var _ ai.Vendor = (*Client)(nil)

// Client never calls a model. It describes the request it was given and
// never asks for a tool, so the assistant can be exercised without keys.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) GetName() string {
	return "DryRun"
}

func (c *Client) ListModels() ([]string, error) {
	return []string{DryRunModel}, nil
}

func (c *Client) Send(_ context.Context, request *ai.Request) (*ai.Completion, error) {
	return &ai.Completion{Text: c.describe(request)}, nil
}

func (c *Client) describe(request *ai.Request) string {
	var b strings.Builder
	b.WriteString("Dry run:\n")
	if request.Options != nil {
		if request.Options.Model != "" {
			fmt.Fprintf(&b, "Model: %s\n", request.Options.Model)
		}
		if request.Options.Temperature != 0 {
			fmt.Fprintf(&b, "Temperature: %f\n", request.Options.Temperature)
		}
	}
	if len(request.Tools) > 0 {
		names := make([]string, 0, len(request.Tools))
		for _, tool := range request.Tools {
			names = append(names, tool.Name)
		}
		fmt.Fprintf(&b, "Tools: %s\n", strings.Join(names, ", "))
	}
	if request.Instructions != "" {
		fmt.Fprintf(&b, "\nSystem:\n%s\n", request.Instructions)
	}
	fmt.Fprintf(&b, "\nInput:\n%s\n", request.Input)
	return b.String()
}
