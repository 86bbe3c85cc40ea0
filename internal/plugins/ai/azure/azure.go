package azure

import (
	"errors"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/azurecommon"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/openai"
	openaiapi "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Config is read from AZURE_OPENAI_* environment variables by the CLI.
type Config struct {
	APIKey      string
	BaseURL     string
	Deployments string
	APIVersion  string
}

// Client is an Azure OpenAI deployment reached with an API key. Model names
// in requests are deployment names.
type Client struct {
	*openai.Client

	apiDeployments []string
}

func NewClient(cfg Config) (ret *Client, err error) {
	ret = &Client{}
	if ret.apiDeployments = azurecommon.ParseDeployments(cfg.Deployments); len(ret.apiDeployments) == 0 {
		return nil, errors.New(i18n.T("azure_deployments_required"))
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New(i18n.T("azure_api_key_required"))
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New(i18n.T("azure_base_url_required"))
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = azurecommon.DefaultAPIVersion
	}

	client := openaiapi.NewClient(
		azure.WithAPIKey(apiKey),
		option.WithBaseURL(azurecommon.BuildEndpoint(baseURL)),
		option.WithQueryAdd("api-version", apiVersion),
		option.WithMiddleware(azurecommon.AzureDeploymentMiddleware),
	)
	ret.Client = openai.NewClientCompatible("Azure", &client)
	ret.DefaultModel = ret.apiDeployments[0]
	return ret, nil
}

// ListModels returns the configured deployments.
func (oi *Client) ListModels() ([]string, error) {
	return oi.apiDeployments, nil
}
