package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ArticleResponse is the structured JSON output requested from OpenAI.
type ArticleResponse struct {
	Title   string `json:"title" jsonschema_description:"A catchy article title of at most 100 characters"`
	Content string `json:"content" jsonschema_description:"The full article body as Gutenberg-compatible HTML"`
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// articleResponseSchema is the cached schema
var articleResponseSchema = GenerateSchema[ArticleResponse]()

// generateWithOpenAI calls the OpenAI chat completions API with JSON schema
// enforcement and returns the structured article.
func generateWithOpenAI(ctx context.Context, req GenerateRequest) (*GeneratedArticle, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := openai.ChatModelGPT4oMini
	if req.Settings != nil {
		if req.Settings.APIKey != nil && *req.Settings.APIKey != "" {
			apiKey = *req.Settings.APIKey
		}
		if req.Settings.ModelName != "" {
			model = req.Settings.ModelName
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is missing")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_article",
		Description: openai.String("An article generated from a video transcription"),
		Schema:      articleResponseSchema,
		Strict:      openai.Bool(true),
	}

	chatCompletion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(req.Language)),
			openai.UserMessage(userPrompt(req.Video, req.Transcript, req.Language)),
		},
		Model: model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	rawResponse := chatCompletion.Choices[0].Message.Content
	if rawResponse == "" {
		return nil, fmt.Errorf("OpenAI returned empty response. Finish reason: %s", chatCompletion.Choices[0].FinishReason)
	}

	var parsed ArticleResponse
	if err := json.Unmarshal([]byte(rawResponse), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" || len(title) > MaxTitleLength {
		title = req.Video.Title
	}

	return &GeneratedArticle{
		Title:   title,
		Content: parsed.Content,
	}, nil
}
