package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kle310/EV-ChargeMate/internal/models"
)

// ListStations returns all stations, optionally filtered to a region for the
// map view.
func (h *Handler) ListStations(c *gin.Context) {
	var (
		stations []*models.Station
		err      error
	)
	if region := c.Query("region"); region != "" {
		stations, err = h.stationRepo.ListForMap(c.Request.Context(), region)
	} else {
		stations, err = h.stationRepo.List(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list stations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stations})
}

// GetStation returns one station's metadata.
func (h *Handler) GetStation(c *gin.Context) {
	station, err := h.stationRepo.GetByStationID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": station})
}

// GetStationStatus returns the station's live status: current status plus how
// many minutes it has persisted. status_signed keeps the old scalar encoding
// (positive free, negative in use) for legacy consumers.
func (h *Handler) GetStationStatus(c *gin.Context) {
	stationID := c.Param("id")

	live, err := h.stationService.GetLiveStatus(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Error("Failed to compute live status", zap.Error(err), zap.String("station_id", stationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute live status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"station_id":     stationID,
			"status":         live.Status,
			"streak_minutes": live.StreakMinutes,
			"status_signed":  live.Signed(),
		},
	})
}

// GetStationHistory returns the station's compressed status sessions, newest
// first. days bounds the lookback; min_duration drops short sessions (the
// most recent one is always kept).
func (h *Handler) GetStationHistory(c *gin.Context) {
	stationID := c.Param("id")

	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))
	if days < 0 {
		days = 0
	}
	// -1 = use the configured default; min_duration=0 disables the filter
	minDuration, err := strconv.Atoi(c.Query("min_duration"))
	if err != nil || minDuration < 0 {
		minDuration = -1
	}

	sessions, err := h.stationService.GetHistory(c.Request.Context(), stationID, days, minDuration)
	if err != nil {
		h.logger.Error("Failed to build history", zap.Error(err), zap.String("station_id", stationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

// GetStationAvailability returns the weekly availability heatmap: per weekday,
// 1440 minute cells with 1 where the plug is typically free.
func (h *Handler) GetStationAvailability(c *gin.Context) {
	stationID := c.Param("id")

	grid, err := h.stationService.GetHeatmap(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Error("Failed to build availability heatmap", zap.Error(err), zap.String("station_id", stationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build availability heatmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": grid.ByDayName()})
}

// GetStationInsights returns the trailing week's usage statistics.
func (h *Handler) GetStationInsights(c *gin.Context) {
	stationID := c.Param("id")

	insight, err := h.stationService.GetInsights(c.Request.Context(), stationID)
	if err != nil {
		h.logger.Error("Failed to aggregate insights", zap.Error(err), zap.String("station_id", stationID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate insights"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": insight})
}

// GetCityStatus returns the newest sample per station for a city.
func (h *Handler) GetCityStatus(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing city parameter"})
		return
	}

	records, err := h.stationService.GetCityStatus(c.Request.Context(), city)
	if err != nil {
		h.logger.Error("Failed to load city status", zap.Error(err), zap.String("city", city))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load city status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
