package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/db"
	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"gorm.io/gorm"
)

type CreateCameraRequest struct {
	Name      string  `json:"name" binding:"required"`
	IPAddress string  `json:"ip_address" binding:"required"`
	StreamURL string  `json:"stream_url"`
	City      string  `json:"city" binding:"required"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

func (h *Handler) GetCameras(ctx *gin.Context) {
	var cameras []models.Camera

	if err := db.DB.Order("created_at ASC").Find(&cameras).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cameras"})
		return
	}

	summaries := make([]CameraSummary, 0, len(cameras))

	for _, camera := range cameras {
		summaries = append(summaries, CameraSummary{
			ID:        camera.ID,
			Name:      camera.Name,
			IPAddress: camera.IPAddress,
			City:      camera.City,
			Latitude:  camera.Latitude,
			Longitude: camera.Longitude,
			Status:    camera.Status,
		})
	}

	ctx.JSON(http.StatusOK, summaries)
}

func (h *Handler) CreateCamera(ctx *gin.Context) {
	var req CreateCameraRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Camera

	err := db.DB.Where("ip_address = ?", req.IPAddress).First(&existing).Error

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Camera with this IP address already exists"})
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing camera"})
		return
	}

	camera := models.Camera{
		Name:      req.Name,
		IPAddress: req.IPAddress,
		StreamURL: req.StreamURL,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    types.CameraOnline,
	}

	if err := db.DB.Create(&camera).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create camera"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Camera created successfully", "camera_id": camera.ID})
}
