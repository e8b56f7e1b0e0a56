package articles

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/monitor"
	"github.com/kyzerkul/youtube-monitor/wordpress"
)

type Handler struct {
	DB        *gorm.DB
	Pipeline  *monitor.Pipeline
	Publisher *wordpress.Publisher
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:        db,
		Pipeline:  monitor.NewPipeline(db),
		Publisher: wordpress.NewPublisher(db),
	}
}

type UpdateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type RegenerateRequest struct {
	Language string `json:"language"`
}

// ListProjectArticles returns the articles generated for a project,
// newest first.
func (h *Handler) ListProjectArticles(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var articles []models.Article
	err = h.DB.
		Joins("JOIN videos ON videos.id = articles.video_id").
		Joins("JOIN youtube_channels ON youtube_channels.id = videos.channel_id").
		Where("youtube_channels.project_id = ?", projectID).
		Preload("Video").
		Order("articles.created_at DESC").
		Find(&articles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching articles"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetArticle returns one article with its video.
func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var article models.Article
	err = h.DB.Preload("Video").First(&article, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching article"})
		}
		return
	}
	c.JSON(http.StatusOK, article)
}

// UpdateArticle edits an article's title and content.
func (h *Handler) UpdateArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" && req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	var article models.Article
	if err := h.DB.First(&article, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating article"})
		}
		return
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Content != "" {
		article.Content = req.Content
	}
	if err := h.DB.Save(&article).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating article"})
		return
	}
	c.JSON(http.StatusOK, article)
}

// RegenerateArticle re-runs generation for a video from its stored
// transcript, updating the (video, language) article in place. The path
// carries the video ID; an optional body language overrides the
// project's.
func (h *Handler) RegenerateArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	var req RegenerateRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)

	var video models.Video
	err = h.DB.Preload("Channel").Preload("Channel.Project").First(&video, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching video"})
		}
		return
	}

	language := req.Language
	if language == "" {
		language = video.Channel.Project.Language
	}

	regenerated, err := h.Pipeline.RegenerateArticle(c.Request.Context(), video.ID, language)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regenerated)
}

// PublishArticle pushes an article to the project's WordPress site as a
// draft post.
func (h *Handler) PublishArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	result, err := h.Publisher.PublishArticle(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Article published to WordPress",
		"wordpress_post_id": result.WordPressPostID,
		"post_url":          result.PostURL,
	})
}

// DeleteArticle removes an article.
func (h *Handler) DeleteArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	if err := h.DB.Delete(&models.Article{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting article"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted successfully"})
}
