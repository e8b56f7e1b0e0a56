package processing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

// TranscriptLimit is the maximum transcript length sent to a provider.
const TranscriptLimit = 14000

// MaxTitleLength is the longest acceptable title extracted from a response;
// longer first lines fall back to the original video title.
const MaxTitleLength = 100

// ErrNotImplemented is returned by providers that are declared but not wired.
var ErrNotImplemented = errors.New("provider integration not yet implemented")

// GenerateRequest carries everything a provider needs to write an article.
type GenerateRequest struct {
	Video      models.Video
	Transcript string
	Settings   *models.LLMSettings
	Language   string
}

// GeneratedArticle is the parsed provider output.
type GeneratedArticle struct {
	Title   string
	Content string
}

// languageNames maps language codes to display names used in prompts.
var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"ru": "Russian",
	"ja": "Japanese",
	"zh": "Chinese",
}

// LanguageName returns the display name for a language code, defaulting to English.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

// GenerateArticle dispatches to the provider configured in the settings.
// Defaults to mistral when no settings exist.
func GenerateArticle(ctx context.Context, req GenerateRequest) (*GeneratedArticle, error) {
	provider := models.ProviderMistral
	if req.Settings != nil && req.Settings.Provider != "" {
		provider = strings.ToLower(req.Settings.Provider)
	}

	platform.Logger().WithFields(map[string]interface{}{
		"video":    req.Video.Title,
		"provider": provider,
		"language": req.Language,
	}).Info("Generating article")

	switch provider {
	case models.ProviderMistral:
		return generateWithMistral(ctx, req)
	case models.ProviderOpenAI:
		return generateWithOpenAI(ctx, req)
	case models.ProviderAnthropic:
		return nil, fmt.Errorf("anthropic: %w", ErrNotImplemented)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}

const lengthRules = `**************************************************
IMPORTANT: THE ARTICLE LENGTH MUST MATCH THE VIDEO DURATION:
- Video < 5 min  -> 700-900 words
- Video 5-10 min -> 1000-2000 words
- Video > 10 min -> 2500+ words
**************************************************`

const formattingRules = `- ONE single main title with an <h1> tag (never more than one h1)
- Subheadings with <h2> and <h3> tags only
- Paragraphs with <p> tags
- Bullet lists with <ul><li>Item</li></ul>
- Numbered lists with <ol><li>Item</li></ol>
- Bold words with <strong>word</strong> (never <b>)
- Quotes with <blockquote><p>Quote</p></blockquote>`

// systemPrompt builds the system message enforcing length bands and the
// strict HTML tag whitelist for WordPress Gutenberg.
func systemPrompt(language string) string {
	return fmt.Sprintf(`%s

You are an expert writer who transforms video transcriptions into high quality articles. Your role is to extract the key ideas, rewrite the content in a fluid and engaging style, and enrich the article with relevant editorial elements.

Goal: produce a structured, professional, easy to read article from a raw transcription.

STRICT HTML FORMATTING INSTRUCTIONS (MANDATORY):

1. The article MUST follow this exact HTML structure:
%s

2. ALWAYS end the article with an SEO meta description formatted as:
   <div class="meta-description" style="display:none">SEO description of at most 150 characters</div>

WORKFLOW:

- Analyze the transcription to identify the main topics, sub-themes, examples and arguments.
- Rewrite the content in a journalistic or editorial style suited to the subject and audience.
- Structure the article with a single catchy title (ONE h1 only), an introductory lede, and clear subheadings (h2, h3).
- Write short, dynamic paragraphs with rephrased quotes where relevant.
- Use bullet or numbered lists to break up information when appropriate.
- Enrich the content with data, definitions, analogies or additional context.

Fix repetitions, verbal tics and irrelevant elements from the transcription.

NEVER mention that the text comes from a transcription or a video.

IMPORTANT: All content must be in %s with precise HTML formatting compatible with WordPress Gutenberg as described above.`,
		lengthRules, formattingRules, LanguageName(language))
}

// userPrompt builds the user message with the truncated transcript.
func userPrompt(video models.Video, transcript, language string) string {
	description := video.Description
	if description == "" {
		description = "N/A"
	}

	return fmt.Sprintf(`%s

Here is a video transcription that you must turn into a quality article.

Original video title: %s
Description: %s

Transcription:
%s

REMINDER OF THE STRICT HTML FORMATTING RULES:
%s

ALWAYS finish the article with an SEO meta description in this exact form:
<div class="meta-description" style="display:none">SEO description of at most 150 characters</div>

Language: %s`,
		lengthRules, video.Title, description,
		TruncateTranscript(transcript), formattingRules, LanguageName(language))
}

// TruncateTranscript caps the transcript at TranscriptLimit characters.
func TruncateTranscript(transcript string) string {
	if len(transcript) > TranscriptLimit {
		return transcript[:TranscriptLimit]
	}
	return transcript
}

// ExtractTitle takes the first line of the response (minus any leading '#')
// as the title when it fits, otherwise falls back to the video title.
func ExtractTitle(content, fallback string) string {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	title := strings.TrimSpace(strings.TrimLeft(line, "# "))
	if title == "" || len(title) > MaxTitleLength {
		return fallback
	}
	return title
}
