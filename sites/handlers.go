package sites

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/wordpress"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type SiteRequest struct {
	URL                 string `json:"url" binding:"required"`
	Username            string `json:"username" binding:"required"`
	ApplicationPassword string `json:"application_password"`
}

type VerifyRequest struct {
	URL                 string `json:"url" binding:"required"`
	Username            string `json:"username" binding:"required"`
	ApplicationPassword string `json:"application_password" binding:"required"`
}

// ListSites returns a project's WordPress sites with passwords masked.
func (h *Handler) ListSites(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var sites []models.WordPressSite
	if err := h.DB.Where("project_id = ?", projectID).Find(&sites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sites"})
		return
	}

	masked := make([]models.WordPressSite, 0, len(sites))
	for _, site := range sites {
		masked = append(masked, site.Masked())
	}
	c.JSON(http.StatusOK, masked)
}

// VerifyCredentials checks a site's REST credentials without storing
// anything.
func (h *Handler) VerifyCredentials(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url, username and application_password are required"})
		return
	}

	client := wordpress.NewClient(normalizeURL(req.URL), req.Username, req.ApplicationPassword)
	if !client.VerifyCredentials(c.Request.Context()) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Could not authenticate against the WordPress REST API"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// AddSite verifies the credentials and attaches the site to a project.
func (h *Handler) AddSite(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ApplicationPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url, username and application_password are required"})
		return
	}

	var project models.Project
	if err := h.DB.First(&project, projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	siteURL := normalizeURL(req.URL)
	client := wordpress.NewClient(siteURL, req.Username, req.ApplicationPassword)
	if !client.VerifyCredentials(c.Request.Context()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not authenticate against the WordPress REST API"})
		return
	}

	site := models.WordPressSite{
		ProjectID:           uint(projectID),
		URL:                 siteURL,
		Username:            req.Username,
		ApplicationPassword: req.ApplicationPassword,
	}
	if err := h.DB.Create(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding site"})
		return
	}
	c.JSON(http.StatusCreated, site.Masked())
}

// UpdateSite edits a site. An empty application_password keeps the
// stored one.
func (h *Handler) UpdateSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("siteId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url and username are required"})
		return
	}

	var site models.WordPressSite
	if err := h.DB.First(&site, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating site"})
		}
		return
	}

	site.URL = normalizeURL(req.URL)
	site.Username = req.Username
	if req.ApplicationPassword != "" {
		site.ApplicationPassword = req.ApplicationPassword
	}

	client := wordpress.NewClient(site.URL, site.Username, site.ApplicationPassword)
	if !client.VerifyCredentials(c.Request.Context()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not authenticate against the WordPress REST API"})
		return
	}

	if err := h.DB.Save(&site).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating site"})
		return
	}
	c.JSON(http.StatusOK, site.Masked())
}

// DeleteSite removes a site.
func (h *Handler) DeleteSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("siteId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid site ID"})
		return
	}

	if err := h.DB.Delete(&models.WordPressSite{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting site"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Site deleted successfully"})
}

func normalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
