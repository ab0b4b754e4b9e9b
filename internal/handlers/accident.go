package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/db"
	"github.com/sentra-dev/sentra/internal/models"
	"github.com/sentra-dev/sentra/internal/types"
	"github.com/sentra-dev/sentra/internal/utils"
	"gorm.io/gorm"
)

// CreateAccidentRequest is the payload the detection pipeline posts when a
// camera observes an accident.
type CreateAccidentRequest struct {
	IPAddress   string  `json:"ip_address" binding:"required"`
	Photos      string  `json:"photos" binding:"required"`
	Severity    string  `json:"severity"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

type CameraSummary struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	IPAddress string  `json:"ip_address"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status"`
}

type AccidentResponse struct {
	ID          uint           `json:"id"`
	Severity    string         `json:"severity"`
	Photo       string         `json:"photo"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	IsHandled   bool           `json:"is_handled"`
	HandledBy   *string        `json:"handled_by"`
	HandledAt   *time.Time     `json:"handled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	Camera      *CameraSummary `json:"camera"`
}

func buildAccidentResponse(accident models.Accident) AccidentResponse {
	response := AccidentResponse{
		ID:          accident.ID,
		Severity:    accident.Severity,
		Photo:       accident.Photo,
		Description: accident.Description,
		Confidence:  accident.Confidence,
		IsHandled:   accident.IsHandled,
		HandledBy:   accident.HandledBy,
		HandledAt:   accident.HandledAt,
		CreatedAt:   accident.CreatedAt,
	}

	if accident.Camera.ID != 0 {
		response.Camera = &CameraSummary{
			ID:        accident.Camera.ID,
			Name:      accident.Camera.Name,
			IPAddress: accident.Camera.IPAddress,
			City:      accident.Camera.City,
			Latitude:  accident.Camera.Latitude,
			Longitude: accident.Camera.Longitude,
			Status:    accident.Camera.Status,
		}
	}

	return response
}

// CreateAccident ingests a detection event, persists the accident and kicks
// off the alert fan-out. The fan-out runs on its own goroutine: the creation
// response never waits on gateway I/O.
func (h *Handler) CreateAccident(ctx *gin.Context) {
	var req CreateAccidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var camera models.Camera

	if err := db.DB.Where("ip_address = ?", req.IPAddress).First(&camera).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve camera"})
		}
		return
	}

	description := req.Description
	if description == "" {
		description = "Accident detected automatically"
	}

	confidence := req.Confidence
	if confidence == 0 {
		confidence = 0.8
	}

	accident := models.Accident{
		CameraID:    camera.ID,
		Severity:    types.NormalizeSeverity(req.Severity),
		Photo:       req.Photos,
		Description: description,
		Confidence:  confidence,
	}

	if err := db.DB.Create(&accident).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create accident"})
		return
	}

	accident.Camera = camera

	response := buildAccidentResponse(accident)

	if h.Hub != nil {
		h.Hub.BroadcastAccident(response)
	}

	go func(accident models.Accident, camera models.Camera) {
		outcomes, err := h.Dispatcher.FanOut(context.Background(), &accident, &camera)

		if err != nil {
			log.Printf("Fan-out for accident %d failed: %v", accident.ID, err)
			return
		}

		sent := 0
		for _, outcome := range outcomes {
			if outcome.Success {
				sent++
			}
		}

		log.Printf("Alerts for accident %d dispatched: %d/%d sent", accident.ID, sent, len(outcomes))
	}(accident, camera)

	ctx.JSON(http.StatusCreated, response)
}

func (h *Handler) GetAccidents(ctx *gin.Context) {
	var accidents []models.Accident

	if err := db.DB.Preload("Camera").Order("created_at DESC").Find(&accidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accidents"})
		return
	}

	responses := make([]AccidentResponse, 0, len(accidents))

	for _, accident := range accidents {
		responses = append(responses, buildAccidentResponse(accident))
	}

	ctx.JSON(http.StatusOK, responses)
}

func (h *Handler) GetAccident(ctx *gin.Context) {
	accidentID, err := utils.GetAccidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var accident models.Accident

	if err := db.DB.Preload("Camera").First(&accident, accidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Accident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accident"})
		}
		return
	}

	ctx.JSON(http.StatusOK, buildAccidentResponse(accident))
}

// GetAccidentNotifications exposes the audit trail for one accident.
func (h *Handler) GetAccidentNotifications(ctx *gin.Context) {
	accidentID, err := utils.GetAccidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var accident models.Accident

	if err := db.DB.First(&accident, accidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Accident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve accident"})
		}
		return
	}

	records, err := h.Audit.ListByAccident(uint(accidentID))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}

	ctx.JSON(http.StatusOK, records)
}
