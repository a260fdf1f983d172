package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leadworks/lsabudget/industry"
	"github.com/leadworks/lsabudget/models"
)

// SessionStats reports how many browser sessions are currently open.
type SessionStats interface {
	Stats() int
}

// Health returns the handler for GET /health.
func Health(stats SessionStats, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := 0
		if stats != nil {
			active = stats.Stats()
		}
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:         "ok",
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			Environment:    environment,
			Version:        "1.0.0",
			ActiveSessions: active,
		})
	}
}

// Industries returns the handler for GET /industries. The client form uses
// this to populate its select with the exact labels validation accepts.
func Industries() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.IndustriesResponse{
			Industries: industry.All(),
			Total:      industry.Count(),
		})
	}
}
