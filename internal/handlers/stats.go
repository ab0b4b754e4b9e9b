package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/db"
	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
)

type SeverityCount struct {
	Severity string `json:"severity"`
	Count    int64  `json:"count"`
}

type CameraAccidentCount struct {
	City      string  `json:"city"`
	IPAddress string  `json:"ip_address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int64   `json:"accident_count"`
}

type StatsResponse struct {
	Total      int64                 `json:"total"`
	Handled    int64                 `json:"handled"`
	Unhandled  int64                 `json:"unhandled"`
	BySeverity []SeverityCount       `json:"by_severity"`
	TopCameras []CameraAccidentCount `json:"top_cameras"`
}

// GetStats aggregates accident counts for the dashboard.
func (h *Handler) GetStats(ctx *gin.Context) {
	var total, handled int64

	if err := db.DB.Model(&models.Accident{}).Count(&total).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	if err := db.DB.Model(&models.Accident{}).Where("is_handled = ?", true).Count(&handled).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	severities := []string{types.SeverityFatal, types.SeveritySerious, types.SeverityNormal}
	bySeverity := make([]SeverityCount, 0, len(severities))

	for _, severity := range severities {
		var count int64

		if err := db.DB.Model(&models.Accident{}).Where("severity = ?", severity).Count(&count).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
			return
		}

		bySeverity = append(bySeverity, SeverityCount{Severity: severity, Count: count})
	}

	var topCameras []CameraAccidentCount

	err := db.DB.Model(&models.Accident{}).
		Select("cameras.city, cameras.ip_address, cameras.latitude, cameras.longitude, COUNT(accidents.id) as count").
		Joins("JOIN cameras ON cameras.id = accidents.camera_id").
		Group("cameras.id, cameras.city, cameras.ip_address, cameras.latitude, cameras.longitude").
		Order("count DESC").
		Limit(10).
		Scan(&topCameras).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	ctx.JSON(http.StatusOK, StatsResponse{
		Total:      total,
		Handled:    handled,
		Unhandled:  total - handled,
		BySeverity: bySeverity,
		TopCameras: topCameras,
	})
}
