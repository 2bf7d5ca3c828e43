// Package server exposes one practice session over HTTP.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request correlation ID.
const RequestIDHeader = "X-Request-ID"

func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowHeaders = append(config.AllowHeaders, RequestIDHeader, "Content-Type")
	config.ExposeHeaders = append(config.ExposeHeaders, RequestIDHeader)
	r.Use(cors.New(config))
	r.Use(requestID(h.logger))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "UP"})
		})
		apiV1.GET("/options", h.Options)

		s := apiV1.Group("/session")
		s.GET("", h.Get)
		s.POST("/generate", h.Generate)
		s.POST("/start", h.Start)
		s.PUT("/cells", h.SetCells)
		s.POST("/navigate", h.Navigate)
		s.POST("/submit", h.Submit)
		s.GET("/result", h.Result)
		s.GET("/export.tsv", h.ExportTSV)
		s.GET("/report", h.Report)
		s.POST("/reset", h.Reset)
	}

	return r
}

// requestID tags each request with an ID, reusing the caller's if sent.
func requestID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()

		if len(c.Errors) > 0 {
			logger.Warn("request failed",
				zap.String("request_id", id),
				zap.String("path", c.FullPath()),
				zap.Int("status", c.Writer.Status()),
				zap.String("error", c.Errors.String()))
		}
	}
}
