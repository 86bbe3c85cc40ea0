// Package azurecommon holds the request plumbing shared by the Azure OpenAI
// vendors: endpoint building and deployment-path rewriting.
package azurecommon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Reyad02/chatting-voice-agent/internal/i18n"
	"github.com/openai/openai-go/option"
)

// DefaultAPIVersion is the Azure OpenAI API version used when none is configured.
const DefaultAPIVersion = "2025-04-01-preview"

// deploymentRoutes are the SDK paths that Azure serves under
// /openai/deployments/{deployment}. Only the Responses API is called here.
var deploymentRoutes = map[string]bool{
	"/responses": true,
}

// ParseDeployments splits a comma-separated deployment string, trimming
// whitespace and dropping empty entries.
func ParseDeployments(value string) []string {
	var deployments []string
	for _, part := range strings.Split(value, ",") {
		if deployment := strings.TrimSpace(part); deployment != "" {
			deployments = append(deployments, deployment)
		}
	}
	return deployments
}

// BuildEndpoint appends the /openai/ suffix to the resource base URL.
func BuildEndpoint(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/openai/"
}

// AzureDeploymentMiddleware rewrites /openai/responses into
// /openai/deployments/{model}/responses, taking the deployment name from the
// request body's model field.
func AzureDeploymentMiddleware(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
	trimmedPath := strings.TrimPrefix(req.URL.Path, "/openai")
	if !strings.HasPrefix(trimmedPath, "/") {
		trimmedPath = "/" + trimmedPath
	}

	if deploymentRoutes[trimmedPath] {
		deploymentName, err := ExtractDeploymentFromBody(req)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", i18n.T("azure_failed_extract_deployment"), err)
		}
		req.URL.Path = "/openai/deployments/" + url.PathEscape(deploymentName) + trimmedPath
		req.URL.RawPath = ""
	}

	return next(req)
}

// ExtractDeploymentFromBody reads the model field from the JSON body and
// restores the body for the next reader.
func ExtractDeploymentFromBody(req *http.Request) (string, error) {
	if req.Body == nil {
		return "", fmt.Errorf("%s", i18n.T("azure_request_body_nil"))
	}

	bodyBytes, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var payload struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return "", err
	}
	if payload.Model == "" {
		return "", fmt.Errorf("%s", i18n.T("azure_model_field_empty"))
	}
	return payload.Model, nil
}
