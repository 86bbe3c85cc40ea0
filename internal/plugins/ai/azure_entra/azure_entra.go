package azure_entra

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/azurecommon"
	"github.com/Reyad02/chatting-voice-agent/internal/plugins/ai/openai"
	openaiapi "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Config mirrors azure.Config without the API key; auth comes from the
// ambient Entra ID credential chain.
type Config struct {
	BaseURL     string
	Deployments string
	APIVersion  string
}

type Client struct {
	*openai.Client // ApiClient is built with an Entra token credential

	apiDeployments []string
}

// NewClient builds the vendor with azidentity's default credential chain.
func NewClient(cfg Config) (*Client, error) {
	return newClient(cfg, func() (azcore.TokenCredential, error) {
		return azidentity.NewDefaultAzureCredential(nil)
	})
}

func newClient(cfg Config, credentialFn func() (azcore.TokenCredential, error)) (*Client, error) {
	c := &Client{}
	if c.apiDeployments = azurecommon.ParseDeployments(cfg.Deployments); len(c.apiDeployments) == 0 {
		return nil, fmt.Errorf("%s", i18n.T("azure_deployments_required"))
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("%s", i18n.T("azure_base_url_required"))
	}

	apiVersion := strings.TrimSpace(cfg.APIVersion)
	if apiVersion == "" {
		apiVersion = azurecommon.DefaultAPIVersion
	}

	credential, err := credentialFn()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", i18n.T("azure_credential_failure"), err)
	}

	client := openaiapi.NewClient(
		azure.WithTokenCredential(credential),
		option.WithBaseURL(azurecommon.BuildEndpoint(baseURL)),
		option.WithQueryAdd("api-version", apiVersion),
		option.WithMiddleware(azurecommon.AzureDeploymentMiddleware),
	)
	c.Client = openai.NewClientCompatible("AzureEntra", &client)
	c.DefaultModel = c.apiDeployments[0]
	return c, nil
}

func (c *Client) ListModels() ([]string, error) {
	return c.apiDeployments, nil
}
