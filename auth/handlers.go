package auth

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/models"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new user and returns a JWT
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email and password are required"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	} else if err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking if user exists"})
		return
	}

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		platform.Logger().WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user account"})
		return
	}

	token, err := GenerateJWT(user.ID, user.Email, user.Name, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates an existing user and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	var user models.User
	err := h.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err == gorm.ErrRecordNotFound || (err == nil && !user.CheckPassword(req.Password)) {
		platform.Logger().WithField("email", req.Email).Info("Login failed: invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred during authentication"})
		return
	}

	now := time.Now()
	user.LastLoginAt = &now
	h.DB.Save(&user)

	token, err := GenerateJWT(user.ID, user.Email, user.Name, user.IsAdmin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful",
		"token":   token,
		"user":    user,
	})
}

// DevLogin issues an admin token without credentials. Development only.
func (h *Handler) DevLogin(c *gin.Context) {
	if os.Getenv("APP_ENV") != "development" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	token, err := GenerateJWT(0, "admin@example.com", "Admin User", true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Development login successful",
		"token":   token,
		"user": gin.H{
			"name":     "Admin User",
			"email":    "admin@example.com",
			"is_admin": true,
		},
	})
}

// GetCurrentUser returns the claims of the authenticated user
func (h *Handler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":       c.GetUint("user_id"),
		"name":     c.GetString("name"),
		"email":    c.GetString("email"),
		"is_admin": c.GetBool("is_admin"),
	})
}
