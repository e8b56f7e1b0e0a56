package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015"
      xmlns:media="http://search.yahoo.com/mrss/"
      xmlns="http://www.w3.org/2005/Atom">
  <title>Tech Channel</title>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <title>First upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <author><name>Tech Channel</name></author>
    <published>2026-08-29T10:00:00+00:00</published>
    <media:group>
      <media:title>First upload</media:title>
      <media:description>Hands-on overview of the new release.</media:description>
    </media:group>
  </entry>
  <entry>
    <id>yt:video:second00001</id>
    <title>Second upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=second00001"/>
    <author><name>Tech Channel</name></author>
    <published>2026-08-28T08:30:00+00:00</published>
  </entry>
</feed>`

func TestFetchChannelFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UCtest", r.URL.Query().Get("channel_id"))
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	fetcher := NewFetcherWithBase(srv.URL)
	entries, err := fetcher.FetchChannelFeed(context.Background(), "UCtest")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "dQw4w9WgXcQ", entries[0].VideoID)
	assert.Equal(t, "First upload", entries[0].Title)
	assert.Equal(t, "Hands-on overview of the new release.", entries[0].Description)
	assert.Equal(t, "Tech Channel", entries[0].Author)
	assert.Equal(t, 2026, entries[0].Published.Year())

	// No yt:videoId extension, falls back to the watch link
	assert.Equal(t, "second00001", entries[1].VideoID)
}

func TestFetchChannelFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	fetcher := NewFetcherWithBase(srv.URL)
	_, err := fetcher.FetchChannelFeed(context.Background(), "UCmissing")
	assert.Error(t, err)
}
