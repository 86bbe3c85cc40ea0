package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	vendorName       = "Anthropic"
	DefaultModel     = "claude-sonnet-4-5"
	defaultMaxTokens = 1024
)

var _ ai.Vendor = (*Client)(nil)

type Client struct {
	DefaultModel string
	ApiClient    *anthropic.Client
}

func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &Client{DefaultModel: DefaultModel, ApiClient: &client}
}

func (c *Client) GetName() string {
	return vendorName
}

func (c *Client) Send(ctx context.Context, request *ai.Request) (*ai.Completion, error) {
	params := c.buildMessageParams(request)
	debuglog.Debug(debuglog.Trace, "%s request: model=%s tools=%d\n", vendorName, params.Model, len(params.Tools))

	message, err := c.ApiClient.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s messages call failed: %w", vendorName, err)
	}
	return extractCompletion(message), nil
}

func (c *Client) buildMessageParams(request *ai.Request) (ret anthropic.MessageNewParams) {
	opts := request.Options
	if opts == nil {
		opts = &domain.ChatOptions{}
	}
	model := opts.Model
	if model == "" {
		model = c.DefaultModel
	}
	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	ret = anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Input)),
		},
	}
	if request.Instructions != "" {
		ret.System = []anthropic.TextBlockParam{{Text: request.Instructions}}
	}
	// The API rejects temperature and top_p together.
	if opts.Temperature != 0 {
		ret.Temperature = anthropic.Float(opts.Temperature)
	} else if opts.TopP != 0 {
		ret.TopP = anthropic.Float(opts.TopP)
	}
	for _, tool := range request.Tools {
		ret.Tools = append(ret.Tools, toolParam(tool))
	}
	return
}

func toolParam(tool ai.ToolDeclaration) anthropic.ToolUnionParam {
	schema := anthropic.ToolInputSchemaParam{Properties: tool.Parameters["properties"]}
	switch required := tool.Parameters["required"].(type) {
	case []string:
		schema.Required = required
	case []any:
		for _, name := range required {
			if s, ok := name.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
		Name:        tool.Name,
		Description: anthropic.String(tool.Description),
		InputSchema: schema,
	}}
}

// extractCompletion joins the text blocks and keeps the first tool_use block.
func extractCompletion(message *anthropic.Message) *ai.Completion {
	ret := &ai.Completion{}
	var textParts []string
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			textParts = append(textParts, variant.Text)
		case anthropic.ToolUseBlock:
			if ret.ToolCall == nil {
				ret.ToolCall = &ai.ToolCall{
					CallID:    variant.ID,
					Name:      variant.Name,
					Arguments: variant.Input,
				}
			}
		}
	}
	ret.Text = strings.Join(textParts, "")
	return ret
}
