package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/internal/notifier"
	"github.com/sentra-dev/sentra/internal/types"
	"github.com/sentra-dev/sentra/internal/utils"
)

type AddContactRequest struct {
	Address string `json:"address" binding:"required"`
	Name    string `json:"name"`
}

func validChannel(channel string) bool {
	for _, known := range types.Channels {
		if channel == known {
			return true
		}
	}
	return false
}

// ListContacts returns the active contacts of a camera for one channel.
func (h *Handler) ListContacts(ctx *gin.Context) {
	cameraID, err := utils.GetCameraID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := ctx.Param("channel")

	if !validChannel(channel) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel"})
		return
	}

	contacts, err := h.Registry.List(cameraID, channel)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contacts"})
		return
	}

	ctx.JSON(http.StatusOK, contacts)
}

// AddContact registers a recipient address for a camera's channel.
// Re-adding a removed address reactivates it.
func (h *Handler) AddContact(ctx *gin.Context) {
	cameraID, err := utils.GetCameraID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel := ctx.Param("channel")

	if !validChannel(channel) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown channel"})
		return
	}

	var req AddContactRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.Registry.Add(cameraID, channel, req.Address, req.Name)

	if err != nil {
		switch {
		case errors.Is(err, notifier.ErrEmptyAddress):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, notifier.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Camera not found"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add contact"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, contact)
}

// RemoveContact deactivates a contact, keeping the row for audit linkage.
func (h *Handler) RemoveContact(ctx *gin.Context) {
	contactID, err := utils.GetContactID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Registry.Remove(contactID); err != nil {
		if errors.Is(err, notifier.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove contact"})
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}
