package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/maestro-api/internal/database"
	"github.com/Conceptual-Machines/maestro-api/internal/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	storageConnected = "connected"
	storageMemory    = "memory"
	storageError     = "error"
)

type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler reports on db, or in-memory storage when db is nil
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	state := h.storageState()

	status, code := "healthy", http.StatusOK
	if state == storageError {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status": status,
		"database": gin.H{
			"status": state,
		},
	})
}

func (h *HealthHandler) storageState() string {
	if h.db == nil {
		return storageMemory
	}
	if err := database.Ping(h.db); err != nil {
		logger.Warn("Database ping failed", logger.Fields{"error": err.Error()})
		return storageError
	}
	return storageConnected
}
