package llmsettings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/processing"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type SettingsRequest struct {
	Provider  string `json:"provider" binding:"required"`
	ModelName string `json:"model_name"`
	APIKey    string `json:"api_key"`
}

type VerifyRequest struct {
	Provider string `json:"provider" binding:"required"`
	APIKey   string `json:"api_key" binding:"required"`
}

func validProvider(p string) bool {
	switch p {
	case models.ProviderMistral, models.ProviderOpenAI, models.ProviderAnthropic:
		return true
	}
	return false
}

// GetSettings returns a project's LLM settings with the API key masked.
// A project without stored settings gets the Mistral defaults.
func (h *Handler) GetSettings(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var settings models.LLMSettings
	err = h.DB.Where("project_id = ?", projectID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{
			"project_id": projectID,
			"provider":   models.ProviderMistral,
			"model_name": models.DefaultMistralModel,
			"api_key":    nil,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching LLM settings"})
		return
	}
	c.JSON(http.StatusOK, settings.Masked())
}

// UpsertSettings creates or updates a project's LLM settings. An empty
// api_key keeps the stored key.
func (h *Handler) UpsertSettings(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider is required"})
		return
	}
	if !validProvider(req.Provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	var settings models.LLMSettings
	err = h.DB.Where("project_id = ?", projectID).First(&settings).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving LLM settings"})
		return
	}

	settings.ProjectID = uint(projectID)
	settings.Provider = req.Provider
	settings.ModelName = req.ModelName
	if req.APIKey != "" {
		settings.APIKey = &req.APIKey
	}

	if err := h.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving LLM settings"})
		return
	}
	c.JSON(http.StatusOK, settings.Masked())
}

// VerifyKey checks an API key against the provider's models endpoint.
func (h *Handler) VerifyKey(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and api_key are required"})
		return
	}
	if !validProvider(req.Provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
		return
	}

	valid, detail := processing.VerifyAPIKey(c.Request.Context(), req.Provider, req.APIKey)
	resp := gin.H{"valid": valid}
	if detail != "" {
		if valid {
			resp["message"] = detail
		} else {
			resp["error"] = detail
		}
	}
	c.JSON(http.StatusOK, resp)
}
