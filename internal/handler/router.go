package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mytube/video-gallery-api/internal/metrics"
	"github.com/mytube/video-gallery-api/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Videos      *VideoHandler
	Engagements *EngagementHandler
	Auth        *AuthHandler
	Users       *service.UserService
	Pool        *pgxpool.Pool
}

// NewRouter assembles the gin engine with CORS, request logging, metrics and
// all API routes.
func NewRouter(h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheck(h.Pool))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	api.Use(Authenticate(h.Users))

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", RequireUser(), h.Auth.Logout)

	api.GET("/videos", h.Videos.List)
	api.GET("/videos/:id", h.Videos.Watch)
	api.POST("/videos/:id/like", h.Engagements.Like)
	api.POST("/videos/:id/comments", h.Engagements.PostComment)
	api.GET("/playlists/:id", h.Videos.PlaylistItems)
	api.GET("/history", RequireUser(), h.Engagements.History)

	admin := api.Group("/admin", RequireAdmin())
	admin.GET("/videos", h.Videos.AdminList)
	admin.POST("/videos", h.Videos.Create)
	admin.PUT("/videos/:id", h.Videos.Update)
	admin.DELETE("/videos/:id", h.Videos.Delete)
	admin.GET("/users", h.Auth.ListUsers)
	admin.PUT("/users/:id", h.Auth.EditUser)

	return router
}

// healthCheck reports process liveness and database reachability.
func healthCheck(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK

		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				status = "unhealthy"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status": status,
			"time":   time.Now(),
		})
	}
}
