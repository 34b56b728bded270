package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/KnowYourRightsCard/kyrcard-go/internal/domain/rights"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/geocoding"
	"github.com/KnowYourRightsCard/kyrcard-go/internal/infrastructure/observability/logging"
)

// LocationHandlers contains the location resolution HTTP handlers
type LocationHandlers struct {
	geocoder *geocoding.NominatimClient
	logger   *logging.ChanneledLogger
}

// NewLocationHandlers creates location handlers with injected dependencies
func NewLocationHandlers(geocoder *geocoding.NominatimClient, logger *logging.ChanneledLogger) *LocationHandlers {
	return &LocationHandlers{
		geocoder: geocoder,
		logger:   logger,
	}
}

// GetResolve handles GET /api/v1/location/resolve?lat=..&lng=.. - reverse
// geocodes a coordinate pair and attaches the resolved state's legal info.
func (h *LocationHandlers) GetResolve(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}

	place := h.geocoder.ResolvePlace(c.Request.Context(), lat, lng)

	response := gin.H{
		"city":  place.City,
		"state": place.State,
	}
	if place.State != "" {
		response["stateInfo"] = rights.InfoForState(place.State)
	}
	c.JSON(http.StatusOK, response)
}
