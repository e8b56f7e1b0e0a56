package transcript

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
)

const defaultEndpoint = "https://www.youtube.com/api/timedtext"

// timedText mirrors YouTube's caption XML payload.
type timedText struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Fetcher retrieves caption text for YouTube videos.
type Fetcher struct {
	Endpoint string
	Client   *http.Client
}

// NewFetcher builds a fetcher with the timeout from
// TRANSCRIPT_TIMEOUT_SECONDS (default 60).
func NewFetcher() *Fetcher {
	timeout := 60
	if v, err := strconv.Atoi(os.Getenv("TRANSCRIPT_TIMEOUT_SECONDS")); err == nil && v > 0 {
		timeout = v
	}
	return &Fetcher{
		Endpoint: defaultEndpoint,
		Client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
	}
}

// Fetch returns the concatenated caption text for an external video ID in the
// given language. On any failure (no captions, timeout, network) it returns
// an empty string so callers proceed with a degraded prompt.
func (f *Fetcher) Fetch(ctx context.Context, videoID, lang string) string {
	log := platform.Logger().WithFields(map[string]interface{}{
		"video_id": videoID,
		"lang":     lang,
	})
	log.Info("Fetching transcript")

	text, err := f.fetch(ctx, videoID, lang)
	if err != nil {
		log.WithError(err).Error("Error fetching transcript")
		return ""
	}
	if text == "" {
		log.Warn("No transcript available")
		return ""
	}

	log.WithField("chars", len(text)).Info("Successfully fetched transcript")
	return text
}

func (f *Fetcher) fetch(ctx context.Context, videoID, lang string) (string, error) {
	if lang == "" {
		lang = "en"
	}

	url := fmt.Sprintf("%s?lang=%s&v=%s", f.Endpoint, lang, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("timedtext returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext: %w", err)
	}

	segments := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		s := strings.TrimSpace(html.UnescapeString(t.Value))
		if s != "" {
			segments = append(segments, s)
		}
	}

	return strings.Join(segments, " "), nil
}
