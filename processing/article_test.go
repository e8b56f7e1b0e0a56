package processing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyzerkul/youtube-monitor/models"
)

func strPtr(s string) *string { return &s }

func TestExtractTitle(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		fallback string
		want     string
	}{
		{
			name:     "first line",
			content:  "A Fresh Look at Go Generics\n<p>Body</p>",
			fallback: "Video title",
			want:     "A Fresh Look at Go Generics",
		},
		{
			name:     "strips markdown heading",
			content:  "## A Fresh Look at Go Generics\nBody",
			fallback: "Video title",
			want:     "A Fresh Look at Go Generics",
		},
		{
			name:     "empty first line falls back",
			content:  "\nBody",
			fallback: "Video title",
			want:     "Video title",
		},
		{
			name:     "too long falls back",
			content:  strings.Repeat("x", 150) + "\nBody",
			fallback: "Video title",
			want:     "Video title",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractTitle(tc.content, tc.fallback))
		})
	}
}

func TestTruncateTranscript(t *testing.T) {
	short := "short transcript"
	assert.Equal(t, short, TruncateTranscript(short))

	long := strings.Repeat("a", TranscriptLimit+500)
	truncated := TruncateTranscript(long)
	assert.Len(t, truncated, TranscriptLimit)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr"))
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "English", LanguageName("xx"))
}

func TestGenerateArticleAnthropicNotImplemented(t *testing.T) {
	_, err := GenerateArticle(context.Background(), GenerateRequest{
		Video:    models.Video{Title: "Some video"},
		Settings: &models.LLMSettings{Provider: models.ProviderAnthropic, APIKey: strPtr("sk-test")},
		Language: "en",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestGenerateArticleUnknownProvider(t *testing.T) {
	_, err := GenerateArticle(context.Background(), GenerateRequest{
		Video:    models.Video{Title: "Some video"},
		Settings: &models.LLMSettings{Provider: "llama-at-home"},
		Language: "en",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown LLM provider")
}

func TestPromptsCarryVideoContext(t *testing.T) {
	video := models.Video{
		Title:       "Understanding io.Reader",
		Description: "Deep dive into streams",
	}

	sys := systemPrompt("fr")
	assert.Contains(t, sys, "French")
	assert.Contains(t, sys, "meta-description")

	user := userPrompt(video, "the transcript text", "fr")
	assert.Contains(t, user, "Understanding io.Reader")
	assert.Contains(t, user, "Deep dive into streams")
	assert.Contains(t, user, "the transcript text")
	assert.Contains(t, user, "French")
}
