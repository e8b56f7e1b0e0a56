package processing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

// Models-list endpoints per provider, used for cheap key validation.
// Variables so tests can point them at a local server.
var (
	MistralModelsEndpoint   = "https://api.mistral.ai/v1/models"
	OpenAIModelsEndpoint    = "https://api.openai.com/v1/models"
	AnthropicModelsEndpoint = "https://api.anthropic.com/v1/models"
)

var verifyClient = &http.Client{Timeout: 15 * time.Second}

// VerifyAPIKey checks a provider API key against the provider's models
// endpoint. Unknown providers are invalid.
func VerifyAPIKey(ctx context.Context, provider, apiKey string) (bool, string) {
	var (
		endpoint string
		header   string
		value    string
	)

	switch strings.ToLower(provider) {
	case models.ProviderMistral:
		endpoint, header, value = MistralModelsEndpoint, "Authorization", "Bearer "+apiKey
	case models.ProviderOpenAI:
		endpoint, header, value = OpenAIModelsEndpoint, "Authorization", "Bearer "+apiKey
	case models.ProviderAnthropic:
		endpoint, header, value = AnthropicModelsEndpoint, "x-api-key", apiKey
	default:
		return false, fmt.Sprintf("Unsupported provider: %s", provider)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, "Error verifying API key"
	}
	req.Header.Set(header, value)

	resp, err := verifyClient.Do(req)
	if err != nil {
		platform.Logger().WithError(err).Error("Error verifying API key")
		return false, fmt.Sprintf("Invalid %s API key", provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("Invalid %s API key", provider)
	}
	return true, fmt.Sprintf("%s API key is valid", provider)
}
