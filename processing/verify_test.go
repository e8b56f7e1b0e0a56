package processing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kyzerkul/youtube-monitor/models"
)

func TestVerifyAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good-key" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	orig := MistralModelsEndpoint
	MistralModelsEndpoint = srv.URL
	defer func() { MistralModelsEndpoint = orig }()

	valid, _ := VerifyAPIKey(context.Background(), models.ProviderMistral, "good-key")
	assert.True(t, valid)

	valid, detail := VerifyAPIKey(context.Background(), models.ProviderMistral, "bad-key")
	assert.False(t, valid)
	assert.Contains(t, detail, "Invalid")
}

func TestVerifyAPIKeyAnthropicHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-ant-test", r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orig := AnthropicModelsEndpoint
	AnthropicModelsEndpoint = srv.URL
	defer func() { AnthropicModelsEndpoint = orig }()

	valid, _ := VerifyAPIKey(context.Background(), models.ProviderAnthropic, "sk-ant-test")
	assert.True(t, valid)
}

func TestVerifyAPIKeyUnknownProvider(t *testing.T) {
	valid, detail := VerifyAPIKey(context.Background(), "gemini", "key")
	assert.False(t, valid)
	assert.Contains(t, detail, "Unsupported provider")
}
