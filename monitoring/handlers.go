package monitoring

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/tasks"
)

type Handler struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{DB: db, RDB: rdb}
}

// TriggerRun queues a full monitoring run for the worker and returns
// immediately. The single worker consumer keeps runs from overlapping.
func (h *Handler) TriggerRun(c *gin.Context) {
	payload, err := tasks.Marshal(tasks.MonitorRunPayload{Trigger: "manual"})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error queueing monitoring run"})
		return
	}
	if err := h.RDB.LPush(c.Request.Context(), tasks.QueueMonitorRun, payload).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error queueing monitoring run"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Monitoring run queued"})
}

// ListRuns returns the most recent monitoring runs, newest first.
func (h *Handler) ListRuns(c *gin.Context) {
	var runs []models.MonitoringRun
	if err := h.DB.Order("started_at DESC").Limit(20).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching monitoring runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}
