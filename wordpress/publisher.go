package wordpress

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

// Publisher publishes stored articles to the WordPress site of the owning
// project.
type Publisher struct {
	DB *gorm.DB
	// Overridable in tests; defaults to models.ThumbnailURL
	ThumbnailURL func(videoID string) string

	httpClient *http.Client
}

func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{
		DB:           db,
		ThumbnailURL: models.ThumbnailURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// PublishResult describes a successful publication.
type PublishResult struct {
	ArticleID       uint   `json:"article_id"`
	WordPressPostID int    `json:"wordpress_post_id"`
	PostURL         string `json:"post_url"`
}

// PublishArticle creates a draft post for the article on the project's
// WordPress site, uploads the video thumbnail as featured image (best effort)
// and persists wordpress_post_id + published=true. Thumbnail failures are
// logged and swallowed; post creation failures abort.
func (p *Publisher) PublishArticle(ctx context.Context, articleID uint) (*PublishResult, error) {
	var article models.Article
	err := p.DB.Preload("Video").Preload("Video.Channel").First(&article, articleID).Error
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}

	// Take the first site of the project; one site per project is assumed.
	var site models.WordPressSite
	err = p.DB.Where("project_id = ?", article.Video.Channel.ProjectID).First(&site).Error
	if err != nil {
		return nil, fmt.Errorf("no WordPress site found for this project")
	}

	client := NewClient(site.URL, site.Username, site.ApplicationPassword)

	content := FormatForGutenberg(article.Content)
	post, err := client.CreateDraftPost(ctx, article.Title, content)
	if err != nil {
		return nil, err
	}

	log := platform.Logger().WithFields(map[string]interface{}{
		"article_id": articleID,
		"post_id":    post.ID,
	})

	p.attachThumbnail(ctx, client, post.ID, article.Video.VideoID, log)

	updates := map[string]interface{}{
		"wordpress_post_id": post.ID,
		"published":         true,
	}
	if err := p.DB.Model(&article).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("persist publish state: %w", err)
	}

	log.WithField("title", article.Title).Info("Successfully published article to WordPress")

	return &PublishResult{
		ArticleID:       articleID,
		WordPressPostID: post.ID,
		PostURL:         post.Link,
	}, nil
}

// attachThumbnail downloads the video thumbnail, uploads it as media and sets
// it as the post's featured image. Any failure is logged and ignored.
func (p *Publisher) attachThumbnail(ctx context.Context, client *Client, postID int, videoID string, log interface{ Errorf(string, ...interface{}) }) {
	data, err := p.downloadThumbnail(ctx, videoID)
	if err != nil {
		log.Errorf("Error downloading thumbnail: %v", err)
		return
	}

	media, err := client.UploadMedia(ctx, fmt.Sprintf("thumbnail-%s.jpg", videoID), data)
	if err != nil {
		log.Errorf("Error uploading featured image: %v", err)
		return
	}

	if err := client.SetFeaturedMedia(ctx, postID, media.ID); err != nil {
		log.Errorf("Error setting featured media: %v", err)
	}
}

func (p *Publisher) downloadThumbnail(ctx context.Context, videoID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.ThumbnailURL(videoID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thumbnail fetch returned %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}
