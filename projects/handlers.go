package projects

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/models"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type ProjectRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	Language       string `json:"language"`
	AutoMonitoring *bool  `json:"auto_monitoring"`
}

// ListProjects returns all projects, newest first.
func (h *Handler) ListProjects(c *gin.Context) {
	var projects []models.Project
	if err := h.DB.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject returns a project with its sites, channels and LLM settings.
func (h *Handler) GetProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching project"})
		}
		return
	}

	var sites []models.WordPressSite
	h.DB.Where("project_id = ?", id).Find(&sites)
	maskedSites := make([]models.WordPressSite, 0, len(sites))
	for _, site := range sites {
		maskedSites = append(maskedSites, site.Masked())
	}

	var channels []models.Channel
	h.DB.Where("project_id = ?", id).Find(&channels)

	var settings []models.LLMSettings
	h.DB.Where("project_id = ?", id).Find(&settings)
	maskedSettings := make([]models.LLMSettings, 0, len(settings))
	for _, s := range settings {
		maskedSettings = append(maskedSettings, s.Masked())
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              project.ID,
		"name":            project.Name,
		"description":     project.Description,
		"language":        project.Language,
		"auto_monitoring": project.AutoMonitoring,
		"created_at":      project.CreatedAt,
		"updated_at":      project.UpdatedAt,
		"wordpressSites":  maskedSites,
		"youtubeChannels": channels,
		"llmSettings":     maskedSettings,
	})
}

// CreateProject creates a new project.
func (h *Handler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	project := models.Project{
		Name:           req.Name,
		Description:    req.Description,
		Language:       req.Language,
		AutoMonitoring: true,
	}
	if project.Language == "" {
		project.Language = "en"
	}
	if req.AutoMonitoring != nil {
		project.AutoMonitoring = *req.AutoMonitoring
	}

	if err := h.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating project"})
		return
	}

	c.JSON(http.StatusCreated, project)
}

// UpdateProject updates name, description, language and monitoring flag.
func (h *Handler) UpdateProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project name is required"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating project"})
		}
		return
	}

	project.Name = req.Name
	project.Description = req.Description
	if req.Language != "" {
		project.Language = req.Language
	}
	if req.AutoMonitoring != nil {
		project.AutoMonitoring = *req.AutoMonitoring
	}

	if err := h.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project.
func (h *Handler) DeleteProject(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	// Postgres has no cascade set up for these, so remove children
	// explicitly. Orphaned unprocessed videos would otherwise be picked
	// up by every monitoring sweep.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		channelIDs := tx.Model(&models.Channel{}).Select("id").Where("project_id = ?", id)
		videoIDs := tx.Model(&models.Video{}).Select("id").Where("channel_id IN (?)", channelIDs)

		if err := tx.Where("video_id IN (?)", videoIDs).Delete(&models.Article{}).Error; err != nil {
			return err
		}
		if err := tx.Where("channel_id IN (?)", channelIDs).Delete(&models.Video{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Channel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.WordPressSite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.LLMSettings{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
