package channels

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/feeds"
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

type ValidateRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

type AddChannelRequest struct {
	ChannelID string `json:"channel_id" binding:"required"`
}

// resolveChannelID accepts either a bare channel ID or a channel URL
// like https://www.youtube.com/channel/UCxxxx and returns the ID.
func resolveChannelID(input string) string {
	input = strings.TrimSpace(input)
	if idx := strings.Index(input, "/channel/"); idx >= 0 {
		rest := input[idx+len("/channel/"):]
		if end := strings.IndexAny(rest, "/?&"); end >= 0 {
			rest = rest[:end]
		}
		return rest
	}
	return input
}

// channelNameFromEntries pulls the channel name from the feed's author
// field. YouTube sets the same author on every entry.
func channelNameFromEntries(entries []feeds.Entry, fallback string) string {
	for _, entry := range entries {
		if entry.Author != "" {
			return entry.Author
		}
	}
	return fallback
}

// ValidateChannel checks that a channel ID resolves to a fetchable RSS
// feed and reports its name and entry count without storing anything.
func (h *Handler) ValidateChannel(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	channelID := resolveChannelID(req.ChannelID)
	entries, err := h.Pipeline.Fetcher.FetchChannelFeed(c.Request.Context(), channelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not fetch RSS feed for this channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":        true,
		"channel_id":   channelID,
		"channel_name": channelNameFromEntries(entries, channelID),
		"video_count":  len(entries),
		"rss_url":      models.FeedURL(channelID),
	})
}

// ListChannels returns the channels attached to a project.
func (h *Handler) ListChannels(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var channels []models.Channel
	if err := h.DB.Where("project_id = ?", projectID).Order("created_at DESC").Find(&channels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching channels"})
		return
	}
	c.JSON(http.StatusOK, channels)
}

// AddChannel validates a channel against its RSS feed and attaches it
// to a project.
func (h *Handler) AddChannel(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req AddChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel_id is required"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	channelID := resolveChannelID(req.ChannelID)

	var existing models.Channel
	err = h.DB.Where("project_id = ? AND channel_id = ?", projectID, channelID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Channel already added to this project"})
		return
	}

	entries, err := h.Pipeline.Fetcher.FetchChannelFeed(c.Request.Context(), channelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not fetch RSS feed for this channel"})
		return
	}

	channel := models.Channel{
		ProjectID:   uint(projectID),
		ChannelID:   channelID,
		ChannelName: channelNameFromEntries(entries, channelID),
		RssURL:      models.FeedURL(channelID),
	}
	if err := h.DB.Create(&channel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding channel"})
		return
	}

	c.JSON(http.StatusCreated, channel)
}

// DeleteChannel removes a channel from its project.
func (h *Handler) DeleteChannel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("channelId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return
	}

	// Remove the channel's videos and their articles too, or the
	// monitoring sweep keeps reprocessing the orphans.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		videoIDs := tx.Model(&models.Video{}).Select("id").Where("channel_id = ?", id)

		if err := tx.Where("video_id IN (?)", videoIDs).Delete(&models.Article{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id = ?", id).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Channel{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting channel"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}

// CheckChannel fetches one channel's feed immediately, stores any new
// videos and queues each of them for processing.
func (h *Handler) CheckChannel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("channelId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return
	}

	var channel models.Channel
	if err := h.DB.First(&channel, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Channel not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching channel"})
		}
		return
	}

	newIDs, err := h.Pipeline.IngestChannel(c.Request.Context(), channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking channel"})
		return
	}

	queued := h.enqueueVideos(c, newIDs)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Channel checked",
		"channel_id":   channel.ChannelID,
		"new_videos":   len(newIDs),
		"queued_tasks": queued,
	})
}

// CheckAllChannels sweeps every stored channel for new videos and
// queues the new ones for processing. Feed fetches happen inline;
// transcript and article work is left to the worker.
func (h *Handler) CheckAllChannels(c *gin.Context) {
	var channels []models.Channel
	if err := h.DB.Find(&channels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching channels"})
		return
	}

	var newIDs []uint
	for _, channel := range channels {
		ids, err := h.Pipeline.IngestChannel(c.Request.Context(), channel)
		if err != nil {
			platform.Logger().WithError(err).WithField("channel_id", channel.ChannelID).Error("Error checking channel")
			continue
		}
		newIDs = append(newIDs, ids...)
	}

	queued := h.enqueueVideos(c, newIDs)

	c.JSON(http.StatusOK, gin.H{
		"message":      "All channels checked",
		"new_videos":   len(newIDs),
		"queued_tasks": queued,
	})
}

func (h *Handler) enqueueVideos(c *gin.Context, ids []uint) int {
	queued := 0
	for _, videoID := range ids {
		payload, err := tasks.Marshal(tasks.VideoProcessPayload{VideoID: videoID})
		if err != nil {
			continue
		}
		if err := h.RDB.LPush(c.Request.Context(), tasks.QueueVideoProcess, payload).Err(); err != nil {
			platform.Logger().WithError(err).WithField("video_id", videoID).Error("Error queueing video task")
			continue
		}
		queued++
	}
	return queued
}
