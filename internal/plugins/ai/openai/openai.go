package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Reyad02/chatting-voice-agent/internal/domain"
	debuglog "github.com/Reyad02/chatting-voice-agent/internal/log"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	vendorName   = "OpenAI"
	DefaultModel = "gpt-4.1-2025-04-14"
)

var _ ai.Vendor = (*Client)(nil)

// Client talks to the OpenAI Responses API. Azure-flavoured vendors embed it
// and swap ApiClient for one built with their own auth and middleware.
type Client struct {
	Name         string
	DefaultModel string
	ApiClient    *openai.Client
}

// NewClient builds a client for api.openai.com. Extra request options (base
// URL, retries, HTTP client) are passed through to the SDK.
func NewClient(apiKey string, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	return NewClientCompatible(vendorName, &client)
}

// NewClientCompatible wraps an already configured SDK client under another
// vendor name.
func NewClientCompatible(name string, apiClient *openai.Client) *Client {
	return &Client{
		Name:         name,
		DefaultModel: DefaultModel,
		ApiClient:    apiClient,
	}
}

func (o *Client) GetName() string {
	return o.Name
}

// Send runs one Responses API call and keeps the first function call, if any.
func (o *Client) Send(ctx context.Context, request *ai.Request) (ret *ai.Completion, err error) {
	params := o.buildResponseParams(request)
	debuglog.Debug(debuglog.Trace, "%s request: model=%s tools=%d\n", o.Name, params.Model, len(params.Tools))

	var resp *responses.Response
	if resp, err = o.ApiClient.Responses.New(ctx, params); err != nil {
		return nil, fmt.Errorf("%s responses call failed: %w", o.Name, err)
	}
	ret = o.extractCompletion(resp)
	return
}

func (o *Client) buildResponseParams(request *ai.Request) (ret responses.ResponseNewParams) {
	opts := request.Options
	if opts == nil {
		opts = &domain.ChatOptions{}
	}
	model := opts.Model
	if model == "" {
		model = o.DefaultModel
	}

	var items responses.ResponseInputParam
	if request.Instructions != "" {
		items = append(items, inputMessage(responses.EasyInputMessageRoleSystem, request.Instructions))
	}
	items = append(items, inputMessage(responses.EasyInputMessageRoleUser, request.Input))

	ret = responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: items},
	}

	if opts.Temperature != 0 {
		ret.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP != 0 {
		ret.TopP = openai.Float(opts.TopP)
	}
	if opts.MaxTokens > 0 {
		ret.MaxOutputTokens = openai.Int(int64(opts.MaxTokens))
	}

	for _, tool := range request.Tools {
		ret.Tools = append(ret.Tools, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  tool.Parameters,
				Strict:      openai.Bool(tool.Strict),
			},
		})
	}
	return
}

func (o *Client) extractCompletion(resp *responses.Response) *ai.Completion {
	ret := &ai.Completion{Text: resp.OutputText()}
	for _, item := range resp.Output {
		if item.Type != "function_call" {
			continue
		}
		ret.ToolCall = &ai.ToolCall{
			CallID:    item.CallID,
			Name:      item.Name,
			Arguments: json.RawMessage(item.Arguments),
		}
		break
	}
	return ret
}

func inputMessage(role responses.EasyInputMessageRole, content string) responses.ResponseInputItemUnionParam {
	return responses.ResponseInputItemUnionParam{
		OfMessage: &responses.EasyInputMessageParam{
			Role:    role,
			Content: responses.EasyInputMessageContentUnionParam{OfString: openai.String(content)},
		},
	}
}
