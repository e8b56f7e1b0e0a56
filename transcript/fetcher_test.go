package transcript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const timedTextXML = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">Hello everyone,</text>
  <text start="2.5" dur="3.1"> welcome back to the channel.</text>
  <text start="5.6" dur="1.0">   </text>
  <text start="6.6" dur="2.0">Today we&#39;re looking at Go.</text>
</transcript>`

func testFetcher(endpoint string) *Fetcher {
	return &Fetcher{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func TestFetchJoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("v"))
		assert.Equal(t, "fr", r.URL.Query().Get("lang"))
		fmt.Fprint(w, timedTextXML)
	}))
	defer srv.Close()

	text := testFetcher(srv.URL).Fetch(context.Background(), "abc123", "fr")
	assert.Equal(t, "Hello everyone, welcome back to the channel. Today we're looking at Go.", text)
}

func TestFetchDefaultsLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		fmt.Fprint(w, timedTextXML)
	}))
	defer srv.Close()

	text := testFetcher(srv.URL).Fetch(context.Background(), "abc123", "")
	assert.NotEmpty(t, text)
}

func TestFetchDegradesToEmpty(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"http error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no captions", http.StatusNotFound)
		},
		"invalid xml": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<not-a-transcript")
		},
		"empty transcript": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<transcript></transcript>`)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			text := testFetcher(srv.URL).Fetch(context.Background(), "abc123", "en")
			assert.Empty(t, text)
		})
	}
}

func TestFetchUnreachableServer(t *testing.T) {
	text := testFetcher("http://127.0.0.1:1").Fetch(context.Background(), "abc123", "en")
	assert.Empty(t, text)
}
