package azure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientUsesFirstDeploymentAsDefaultModel(t *testing.T) {
	client, err := NewClient(Config{
		APIKey:      "key",
		BaseURL:     "https://example.openai.azure.com",
		Deployments: "breya-gpt-4.1, breya-mini",
	})
	require.NoError(t, err)

	assert.Equal(t, "Azure", client.GetName())
	assert.Equal(t, "breya-gpt-4.1", client.DefaultModel)

	models, err := client.ListModels()
	require.NoError(t, err)
	assert.Equal(t, []string{"breya-gpt-4.1", "breya-mini"}, models)
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing deployments", Config{APIKey: "key", BaseURL: "https://example.openai.azure.com"}},
		{"missing key", Config{BaseURL: "https://example.openai.azure.com", Deployments: "d"}},
		{"missing base url", Config{APIKey: "key", Deployments: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			assert.Error(t, err)
		})
	}
}
