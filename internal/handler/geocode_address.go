package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Fraser-Greenlee/SpatialDataIncidentResponse/internal/models"
)

// AddressHandler handles address geocoding requests
type AddressHandler struct {
	service AddressService
}

// Service interface for dependency injection
type AddressService interface {
	Geocode(context.Context, string) (models.ApproximateLocation, error)
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(svc AddressService) *AddressHandler {
	return &AddressHandler{service: svc}
}

// Geocode handles GET /geocode-address requests
func (h *AddressHandler) Geocode(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	location, err := h.service.Geocode(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !location.Resolved {
		c.JSON(http.StatusNotFound, location)
		return
	}
	c.JSON(http.StatusOK, location)
}
