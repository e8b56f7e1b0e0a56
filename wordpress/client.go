package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to one WordPress site's REST API using Basic auth with an
// application password.
type Client struct {
	BaseURL    string
	auth       string
	httpClient *http.Client
}

// NewClient builds a client for a site. The application password is combined
// with the username into a Basic auth header.
func NewClient(siteURL, username, applicationPassword string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(siteURL, "/"),
		auth:       base64.StdEncoding.EncodeToString([]byte(username + ":" + applicationPassword)),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Post is the subset of the WordPress post resource the publisher needs.
type Post struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Media is the subset of the WordPress media resource the publisher needs.
type Media struct {
	ID int `json:"id"`
}

type createPostRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Status        string `json:"status"`
	Categories    []int  `json:"categories"`
	Tags          []int  `json:"tags"`
	FeaturedMedia int    `json:"featured_media"`
	CommentStatus string `json:"comment_status"`
}

// VerifyCredentials checks the stored credentials by fetching the
// authenticated user.
func (c *Client) VerifyCredentials(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/wp-json/wp/v2/users/me", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Basic "+c.auth)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// CreateDraftPost creates a post with status draft and comments open.
func (c *Client) CreateDraftPost(ctx context.Context, title, content string) (*Post, error) {
	body, err := json.Marshal(createPostRequest{
		Title:         title,
		Content:       content,
		Status:        "draft",
		Categories:    []int{},
		Tags:          []int{},
		FeaturedMedia: 0,
		CommentStatus: "open",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/wp-json/wp/v2/posts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+c.auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("create post failed %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decode post response: %w", err)
	}
	return &post, nil
}

// UploadMedia uploads image bytes as a media attachment.
func (c *Client) UploadMedia(ctx context.Context, filename string, data []byte) (*Media, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/wp-json/wp/v2/media", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+c.auth)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("upload media failed %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var media Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}
	return &media, nil
}

// SetFeaturedMedia attaches an uploaded media item to a post as its
// featured image.
func (c *Client) SetFeaturedMedia(ctx context.Context, postID, mediaID int) error {
	body, err := json.Marshal(map[string]int{"featured_media": mediaID})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/wp-json/wp/v2/posts/%d", c.BaseURL, postID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+c.auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("set featured media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("set featured media failed: %s", resp.Status)
	}
	return nil
}
