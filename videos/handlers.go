package videos

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/monitor"
	"github.com/kyzerkul/youtube-monitor/tasks"
)

type Handler struct {
	DB       *gorm.DB
	RDB      *redis.Client
	Pipeline *monitor.Pipeline
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{
		DB:       db,
		RDB:      rdb,
		Pipeline: monitor.NewPipeline(db),
	}
}

type AddVideoRequest struct {
	ChannelID uint   `json:"channel_id" binding:"required"`
	VideoID   string `json:"video_id" binding:"required"`
	Title     string `json:"title"`
}

// ListProjectVideos returns the videos of every channel in a project,
// newest first, with their generated articles.
func (h *Handler) ListProjectVideos(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var videos []models.Video
	err = h.DB.
		Joins("JOIN youtube_channels ON youtube_channels.id = videos.channel_id").
		Where("youtube_channels.project_id = ?", projectID).
		Preload("Articles").
		Order("videos.published_at DESC").
		Find(&videos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// ListChannelVideos returns the videos of one channel, newest first.
func (h *Handler) ListChannelVideos(c *gin.Context) {
	channelID, err := strconv.ParseUint(c.Param("channelId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return
	}

	var videos []models.Video
	err = h.DB.
		Where("channel_id = ?", channelID).
		Preload("Articles").
		Order("published_at DESC").
		Find(&videos).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// GetVideo returns one video with its channel and articles.
func (h *Handler) GetVideo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	var video models.Video
	err = h.DB.Preload("Articles").Preload("Channel").First(&video, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching video"})
		}
		return
	}
	c.JSON(http.StatusOK, video)
}

// AddVideo stores a video manually, outside the RSS flow, and queues it
// for processing. The recency window does not apply here.
func (h *Handler) AddVideo(c *gin.Context) {
	var req AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id and video_id are required"})
		return
	}

	var channel models.Channel
	if err := h.DB.First(&channel, req.ChannelID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		return
	}

	var existing models.Video
	err := h.DB.Where("video_id = ?", req.VideoID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Video already in database"})
		return
	}

	title := req.Title
	if title == "" {
		title = req.VideoID
	}
	video := models.Video{
		ChannelID:   channel.ID,
		VideoID:     req.VideoID,
		Title:       title,
		PublishedAt: time.Now(),
		Processed:   false,
	}
	if err := h.DB.Create(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding video"})
		return
	}

	if payload, err := tasks.Marshal(tasks.VideoProcessPayload{VideoID: video.ID}); err == nil {
		if err := h.RDB.LPush(c.Request.Context(), tasks.QueueVideoProcess, payload).Err(); err != nil {
			platform.Logger().WithError(err).WithField("video_id", video.ID).Error("Error queueing video task")
		}
	}

	c.JSON(http.StatusCreated, video)
}

// ProcessVideo runs transcript fetch and article generation for one
// video synchronously and returns the generated article.
func (h *Handler) ProcessVideo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	article, err := h.Pipeline.ProcessVideo(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, article)
}

// FetchTranscript returns the stored transcript, fetching and persisting
// it first when the video has none yet.
func (h *Handler) FetchTranscript(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

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

	if video.Transcript != nil {
		c.JSON(http.StatusOK, gin.H{"video_id": video.VideoID, "transcript": *video.Transcript})
		return
	}

	language := "en"
	if video.Channel.Project.Language != "" {
		language = video.Channel.Project.Language
	}
	text := h.Pipeline.Transcripts.Fetch(c.Request.Context(), video.VideoID, language)
	if err := h.DB.Model(&video).Update("transcript", text).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving transcript"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"video_id": video.VideoID, "transcript": text})
}

// DeleteVideo removes a video and its articles.
func (h *Handler) DeleteVideo(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("videoId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video ID"})
		return
	}

	if err := h.DB.Where("video_id = ?", id).Delete(&models.Article{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting video articles"})
		return
	}
	if err := h.DB.Delete(&models.Video{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting video"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
