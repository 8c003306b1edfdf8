package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/osgrid"
)

// EnrichHandler handles ad-hoc point enrichment requests
type EnrichHandler struct {
	service EnrichService
}

// Service interface for dependency injection
type EnrichService interface {
	EnrichPoint(context.Context, float64, float64) (*models.PointEnrichment, error)
}

// NewEnrichHandler creates a new enrich handler
func NewEnrichHandler(svc EnrichService) *EnrichHandler {
	return &EnrichHandler{service: svc}
}

// EnrichPoint handles GET /enrich-point requests
func (h *EnrichHandler) EnrichPoint(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	result, err := h.service.EnrichPoint(c.Request.Context(), lon, lat)
	if err != nil {
		if errors.Is(err, osgrid.ErrOutOfBounds) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coordinate outside National Grid coverage"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}
