package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

// Entry is one video entry parsed from a channel's RSS feed.
type Entry struct {
	VideoID     string
	Title       string
	Description string
	Author      string
	Published   time.Time
}

// Fetcher retrieves and parses YouTube channel RSS feeds.
type Fetcher struct {
	parser *gofeed.Parser
	// Overridable in tests; defaults to models.FeedURL
	feedURL func(channelID string) string
}

// NewFetcher creates a feed fetcher with a 30 second HTTP timeout.
func NewFetcher() *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	return &Fetcher{
		parser:  parser,
		feedURL: models.FeedURL,
	}
}

// NewFetcherWithBase creates a fetcher whose feed URLs are rooted at base.
// Used by tests to point at a local server.
func NewFetcherWithBase(base string) *Fetcher {
	f := NewFetcher()
	f.feedURL = func(channelID string) string {
		return fmt.Sprintf("%s/feeds/videos.xml?channel_id=%s", base, channelID)
	}
	return f
}

// FetchChannelFeed retrieves the RSS feed for an external channel ID and
// parses its entries. Network and parse errors propagate to the caller.
func (f *Fetcher) FetchChannelFeed(ctx context.Context, channelID string) ([]Entry, error) {
	feedURL := f.feedURL(channelID)
	platform.Logger().WithField("channel_id", channelID).Info("Fetching RSS feed")

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed for channel %s: %w", channelID, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entry := Entry{
			VideoID:     extractVideoID(item),
			Title:       item.Title,
			Description: extractDescription(item),
		}
		if item.Author != nil {
			entry.Author = item.Author.Name
		}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.Published = *item.UpdatedParsed
		}

		if entry.VideoID == "" {
			continue
		}
		entries = append(entries, entry)
	}

	platform.Logger().WithFields(map[string]interface{}{
		"channel_id": channelID,
		"count":      len(entries),
	}).Info("Parsed videos from feed")

	return entries, nil
}

// extractVideoID reads the yt:videoId extension, falling back to the
// watch?v= query parameter of the entry link.
func extractVideoID(item *gofeed.Item) string {
	if ext, ok := item.Extensions["yt"]; ok {
		if ids, ok := ext["videoId"]; ok && len(ids) > 0 {
			return ids[0].Value
		}
	}
	if item.Link != "" {
		if u, err := url.Parse(item.Link); err == nil {
			if v := u.Query().Get("v"); v != "" {
				return v
			}
		}
	}
	return ""
}

// extractDescription prefers the media:group description over the
// entry-level description.
func extractDescription(item *gofeed.Item) string {
	if ext, ok := item.Extensions["media"]; ok {
		if groups, ok := ext["group"]; ok && len(groups) > 0 {
			if descs, ok := groups[0].Children["description"]; ok && len(descs) > 0 {
				return descs[0].Value
			}
		}
	}
	return item.Description
}
