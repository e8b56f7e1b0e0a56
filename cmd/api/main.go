package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/kyzerkul/youtube-monitor/articles"
	"github.com/kyzerkul/youtube-monitor/auth"
	"github.com/kyzerkul/youtube-monitor/channels"
	"github.com/kyzerkul/youtube-monitor/internal/platform"
	"github.com/kyzerkul/youtube-monitor/llmsettings"
	"github.com/kyzerkul/youtube-monitor/models"
	"github.com/kyzerkul/youtube-monitor/monitoring"
	"github.com/kyzerkul/youtube-monitor/projects"
	"github.com/kyzerkul/youtube-monitor/sites"
	"github.com/kyzerkul/youtube-monitor/videos"
)

type Server struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	router := gin.Default()

	// CORS for the frontend
	router.Use(func(c *gin.Context) {
		origin := os.Getenv("FRONTEND_URL")
		if origin == "" {
			origin = "http://localhost:5173"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:     db,
		Redis:  rdb,
		Router: router,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "YouTube Monitor API v1"})
	})

	authHandler := auth.NewHandler(s.DB)
	projectHandler := projects.NewHandler(s.DB)
	channelHandler := channels.NewHandler(s.DB, s.Redis)
	videoHandler := videos.NewHandler(s.DB, s.Redis)
	articleHandler := articles.NewHandler(s.DB)
	siteHandler := sites.NewHandler(s.DB)
	llmHandler := llmsettings.NewHandler(s.DB)
	monitoringHandler := monitoring.NewHandler(s.DB, s.Redis)

	api := s.Router.Group("/api")

	// Auth routes (public, except /me)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/dev-login", authHandler.DevLogin)
		authRoutes.GET("/me", auth.AuthMiddleware(), authHandler.GetCurrentUser)
	}

	// Everything else requires authentication
	protected := api.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		projectRoutes := protected.Group("/projects")
		{
			projectRoutes.GET("", projectHandler.ListProjects)
			projectRoutes.POST("", projectHandler.CreateProject)
			projectRoutes.GET("/:projectId", projectHandler.GetProject)
			projectRoutes.PUT("/:projectId", projectHandler.UpdateProject)
			projectRoutes.DELETE("/:projectId", projectHandler.DeleteProject)
		}

		youtubeRoutes := protected.Group("/youtube")
		{
			youtubeRoutes.POST("/validate", channelHandler.ValidateChannel)
			youtubeRoutes.GET("/project/:projectId", channelHandler.ListChannels)
			youtubeRoutes.POST("/project/:projectId", channelHandler.AddChannel)
			youtubeRoutes.DELETE("/:channelId", channelHandler.DeleteChannel)
			youtubeRoutes.POST("/:channelId/check", channelHandler.CheckChannel)
			youtubeRoutes.POST("/check-all-channels", channelHandler.CheckAllChannels)
		}

		videoRoutes := protected.Group("/videos")
		{
			videoRoutes.GET("/project/:projectId", videoHandler.ListProjectVideos)
			videoRoutes.GET("/channel/:channelId", videoHandler.ListChannelVideos)
			videoRoutes.POST("", videoHandler.AddVideo)
			videoRoutes.GET("/:videoId", videoHandler.GetVideo)
			videoRoutes.POST("/:videoId/process", videoHandler.ProcessVideo)
			videoRoutes.POST("/:videoId/transcript", videoHandler.FetchTranscript)
			videoRoutes.DELETE("/:videoId", videoHandler.DeleteVideo)
		}

		articleRoutes := protected.Group("/articles")
		{
			articleRoutes.GET("/project/:projectId", articleHandler.ListProjectArticles)
			articleRoutes.GET("/:id", articleHandler.GetArticle)
			articleRoutes.PUT("/:id", articleHandler.UpdateArticle)
			// :id is a video ID here; regeneration targets the video's
			// (video, language) article
			articleRoutes.POST("/:id/regenerate", articleHandler.RegenerateArticle)
			articleRoutes.POST("/:id/publish", articleHandler.PublishArticle)
			articleRoutes.DELETE("/:id", articleHandler.DeleteArticle)
		}

		wordpressRoutes := protected.Group("/wordpress")
		{
			wordpressRoutes.POST("/verify", siteHandler.VerifyCredentials)
			wordpressRoutes.GET("/project/:projectId", siteHandler.ListSites)
			wordpressRoutes.POST("/project/:projectId", siteHandler.AddSite)
			wordpressRoutes.PUT("/:siteId", siteHandler.UpdateSite)
			wordpressRoutes.DELETE("/:siteId", siteHandler.DeleteSite)
		}

		llmRoutes := protected.Group("/llm")
		{
			llmRoutes.GET("/project/:projectId", llmHandler.GetSettings)
			llmRoutes.PUT("/project/:projectId", llmHandler.UpsertSettings)
			llmRoutes.POST("/verify", llmHandler.VerifyKey)
		}

		monitoringRoutes := protected.Group("/monitoring")
		{
			monitoringRoutes.POST("/trigger", monitoringHandler.TriggerRun)
			monitoringRoutes.GET("/logs", monitoringHandler.ListRuns)
		}
	}
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	platform.Logger().WithField("port", port).Info("Server starting")
	return s.Router.Run(":" + port)
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	server, err := NewServer()
	if err != nil {
		platform.Logger().WithError(err).Fatal("Failed to create server")
	}

	if err := server.Run(); err != nil {
		platform.Logger().WithError(err).Fatal("Failed to run server")
	}
}
