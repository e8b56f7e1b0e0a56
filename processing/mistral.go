package processing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kyzerkul/youtube-monitor/models"
)

// MistralEndpoint is the chat completions URL; variable so tests can point
// the client at a local server.
var MistralEndpoint = "https://api.mistral.ai/v1/chat/completions"

var mistralClient = &http.Client{Timeout: 120 * time.Second}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type mistralResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generateWithMistral performs one synchronous chat completion call and
// parses the response into title and content.
func generateWithMistral(ctx context.Context, req GenerateRequest) (*GeneratedArticle, error) {
	apiKey := os.Getenv("MISTRAL_API_KEY")
	model := models.DefaultMistralModel
	if req.Settings != nil {
		if req.Settings.APIKey != nil && *req.Settings.APIKey != "" {
			apiKey = *req.Settings.APIKey
		}
		if req.Settings.ModelName != "" {
			model = req.Settings.ModelName
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("mistral API key is missing")
	}

	body, err := json.Marshal(mistralRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(req.Language)},
			{Role: "user", Content: userPrompt(req.Video, req.Transcript, req.Language)},
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal mistral request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, MistralEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := mistralClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mistral error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed mistralResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode mistral response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("no response from mistral")
	}

	content := parsed.Choices[0].Message.Content
	return &GeneratedArticle{
		Title:   ExtractTitle(content, req.Video.Title),
		Content: content,
	}, nil
}
