package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apimiddleware "github.com/Conceptual-Machines/maestro-api/internal/api/middleware"
	"github.com/Conceptual-Machines/maestro-api/internal/logger"
	"github.com/Conceptual-Machines/maestro-api/internal/models"
	"github.com/Conceptual-Machines/maestro-api/internal/services"
	"github.com/gin-gonic/gin"
)

type PresetHandler struct {
	service *services.PresetService
}

func NewPresetHandler(service *services.PresetService) *PresetHandler {
	return &PresetHandler{service: service}
}

type PresetRequest struct {
	Name string `json:"name" binding:"required"`
	models.JamSettings
}

// Create saves a new preset for the current user
func (h *PresetHandler) Create(c *gin.Context) {
	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	preset, err := h.service.Create(apimiddleware.UserID(c), req.Name, req.JamSettings)
	if err != nil {
		h.fail(c, "Failed to create preset", err)
		return
	}

	c.JSON(http.StatusCreated, preset)
}

// List returns the current user's presets
func (h *PresetHandler) List(c *gin.Context) {
	presets, err := h.service.List(apimiddleware.UserID(c))
	if err != nil {
		h.fail(c, "Failed to list presets", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"presets": presets,
		"count":   len(presets),
	})
}

// Get returns a single preset
func (h *PresetHandler) Get(c *gin.Context) {
	id, ok := presetID(c)
	if !ok {
		return
	}

	preset, err := h.service.Get(apimiddleware.UserID(c), id)
	if err != nil {
		h.fail(c, "Failed to load preset", err)
		return
	}

	c.JSON(http.StatusOK, preset)
}

// Update replaces a preset's name and settings
func (h *PresetHandler) Update(c *gin.Context) {
	id, ok := presetID(c)
	if !ok {
		return
	}

	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request", err)
		return
	}

	preset, err := h.service.Update(apimiddleware.UserID(c), id, req.Name, req.JamSettings)
	if err != nil {
		h.fail(c, "Failed to update preset", err)
		return
	}

	c.JSON(http.StatusOK, preset)
}

// Delete removes a preset
func (h *PresetHandler) Delete(c *gin.Context) {
	id, ok := presetID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(apimiddleware.UserID(c), id); err != nil {
		h.fail(c, "Failed to delete preset", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preset deleted"})
}

func presetID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid preset ID", nil)
		return 0, false
	}
	return uint(id), true
}

func (h *PresetHandler) fail(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPreset):
		badRequest(c, "Invalid preset", err)
	case errors.Is(err, services.ErrPresetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Preset not found"})
	default:
		logger.Error(message, err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
