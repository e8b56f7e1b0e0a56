package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kyzerkul/youtube-monitor/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func seedArticle(t *testing.T, db *gorm.DB, siteURL string) models.Article {
	t.Helper()

	project := models.Project{Name: "Blog project", Language: "en"}
	require.NoError(t, db.Create(&project).Error)

	channel := models.Channel{ProjectID: project.ID, ChannelID: "UCtest", ChannelName: "Tech"}
	require.NoError(t, db.Create(&channel).Error)

	video := models.Video{
		ChannelID:   channel.ID,
		VideoID:     "abc123",
		Title:       "Original video",
		PublishedAt: time.Now(),
	}
	require.NoError(t, db.Create(&video).Error)

	article := models.Article{
		VideoID:  video.ID,
		Title:    "Generated article",
		Content:  "<h1>Generated article</h1><p>Body text.</p>",
		Language: "en",
	}
	require.NoError(t, db.Create(&article).Error)

	if siteURL != "" {
		site := models.WordPressSite{
			ProjectID:           project.ID,
			URL:                 siteURL,
			Username:            "admin",
			ApplicationPassword: "app pass",
		}
		require.NoError(t, db.Create(&site).Error)
	}

	return article
}

func TestPublishArticle(t *testing.T) {
	var postedContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/posts":
			var req createPostRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			postedContent = req.Content
			fmt.Fprint(w, `{"id":42,"link":"https://blog.example.com/?p=42"}`)
		case "/wp-json/wp/v2/media":
			fmt.Fprint(w, `{"id":7}`)
		case "/wp-json/wp/v2/posts/42":
			fmt.Fprint(w, `{"id":42}`)
		case "/thumb.jpg":
			w.Write([]byte("jpegdata"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	db := testDB(t)
	article := seedArticle(t, db, srv.URL)

	pub := NewPublisher(db)
	pub.ThumbnailURL = func(videoID string) string { return srv.URL + "/thumb.jpg" }

	result, err := pub.PublishArticle(context.Background(), article.ID)
	require.NoError(t, err)

	assert.Equal(t, 42, result.WordPressPostID)
	assert.Equal(t, "https://blog.example.com/?p=42", result.PostURL)

	// The post title renders its own h1
	assert.NotContains(t, postedContent, "<h1>")
	assert.Contains(t, postedContent, "<p>Body text.</p>")

	var saved models.Article
	require.NoError(t, db.First(&saved, article.ID).Error)
	assert.True(t, saved.Published)
	require.NotNil(t, saved.WordPressPostID)
	assert.Equal(t, 42, *saved.WordPressPostID)
}

func TestPublishArticleThumbnailFailureStillPublishes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/wp-json/wp/v2/posts":
			fmt.Fprint(w, `{"id":9,"link":"https://blog.example.com/?p=9"}`)
		case "/thumb.jpg":
			http.Error(w, "gone", http.StatusNotFound)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	db := testDB(t)
	article := seedArticle(t, db, srv.URL)

	pub := NewPublisher(db)
	pub.ThumbnailURL = func(videoID string) string { return srv.URL + "/thumb.jpg" }

	result, err := pub.PublishArticle(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, result.WordPressPostID)

	var saved models.Article
	require.NoError(t, db.First(&saved, article.ID).Error)
	assert.True(t, saved.Published)
}

func TestPublishArticleNoSite(t *testing.T) {
	db := testDB(t)
	article := seedArticle(t, db, "")

	_, err := NewPublisher(db).PublishArticle(context.Background(), article.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no WordPress site")
}
