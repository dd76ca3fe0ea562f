package api

import (
	"context"
	"net/http"
	"time"

	"github.com/forum-api/internal/auth"
	"github.com/forum-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, verifier *auth.Verifier, health HealthChecker, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(authenticate(verifier, log))

	// Handlers
	topicHandler := NewTopicHandler(services, log)
	commentHandler := NewCommentHandler(services, log)

	// Health check
	router.GET("/health", healthCheck(health))
	router.GET("/metrics", metricsHandler(services, log))

	api := router.Group("/api")
	{
		topics := api.Group("/topics")
		{
			topics.GET("", topicHandler.List)
			topics.GET("/latest", topicHandler.ListLatest)
			topics.GET("/user/:userId", topicHandler.ListByUser)
			topics.GET("/:id", topicHandler.Get)
			topics.POST("", requireAuth(), topicHandler.Create)
			topics.PUT("/:id", requireAuth(), topicHandler.Update)
			topics.DELETE("/:id", requireAuth(), topicHandler.Delete)
			topics.PUT("/:id/ban", requireAuth(), topicHandler.Ban)
		}

		comments := api.Group("/comments")
		{
			comments.GET("/topic/:topicId", commentHandler.ListByTopic)
			comments.GET("/user/:userId", commentHandler.ListByUser)
			comments.GET("/:id", commentHandler.Get)
			comments.POST("", requireAuth(), commentHandler.Create)
			comments.PUT("/:id", requireAuth(), commentHandler.Update)
			comments.DELETE("/:id", requireAuth(), commentHandler.Delete)
			comments.PUT("/:id/ban", requireAuth(), commentHandler.Ban)
		}
	}

	return router
}

// healthCheck reports service health including a database ping
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		database := "up"
		if err := health.HealthCheck(ctx); err != nil {
			status, code = "unhealthy", http.StatusServiceUnavailable
			database = "down"
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "forum-api",
		})
	}
}

// metricsHandler returns active content counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		topics, err := services.Topic.CountActive(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to count topics")
		}
		comments, err := services.Comment.CountActive(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to count comments")
		}

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"active_topics":   topics,
				"active_comments": comments,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware tags each request with an id and logs it on completion
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
