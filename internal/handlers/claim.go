package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/internal/notifier"
	"github.com/sentra-dev/sentra/internal/utils"
)

// ClaimRequest identifies the actor attempting to claim or reject an
// accident. The address is a contact address (chat ID or phone number);
// holders of one are implicitly trusted, there is no authentication here.
type ClaimRequest struct {
	Address string `json:"address" binding:"required"`
}

// ClaimAccident arbitrates a claim. Exactly one actor can win per accident;
// losers get 409 with the winner's address.
func (h *Handler) ClaimAccident(ctx *gin.Context) {
	accidentID, err := utils.GetAccidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ClaimRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accident, err := h.Resolver.Claim(ctx.Request.Context(), accidentID, req.Address)

	if err != nil {
		var alreadyHandled *notifier.AlreadyHandledError

		switch {
		case errors.Is(err, notifier.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Accident not found"})
		case errors.Is(err, notifier.ErrEmptyAddress):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &alreadyHandled):
			ctx.JSON(http.StatusConflict, gin.H{
				"error":      "Accident already handled",
				"handled_by": alreadyHandled.Handler,
			})
		default:
			log.Printf("Claim on accident %d failed: %v", accidentID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim accident"})
		}
		return
	}

	ctx.JSON(http.StatusOK, buildAccidentResponse(*accident))
}

// RejectAccident acknowledges a decline. No state changes.
func (h *Handler) RejectAccident(ctx *gin.Context) {
	accidentID, err := utils.GetAccidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ClaimRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Resolver.Reject(ctx.Request.Context(), accidentID, req.Address); err != nil {
		if errors.Is(err, notifier.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Accident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject accident"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Rejection acknowledged"})
}

// TelegramUpdate is the subset of a Telegram webhook update we care about:
// button presses on the alert keyboard.
type TelegramUpdate struct {
	CallbackQuery *struct {
		ID   string `json:"id"`
		From struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Data string `json:"data"`
	} `json:"callback_query"`
}

// TelegramWebhook receives Bot API updates and routes handle_/reject_
// callbacks into the resolver. Telegram expects 200 for any processed
// update, so resolver outcomes are reported through answerCallbackQuery
// popups rather than HTTP status codes.
func (h *Handler) TelegramWebhook(ctx *gin.Context) {
	var update TelegramUpdate

	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	if update.CallbackQuery == nil {
		ctx.JSON(http.StatusOK, gin.H{"message": "Ignored"})
		return
	}

	callback := update.CallbackQuery
	actor := strconv.FormatInt(callback.From.ID, 10)

	action, accidentID, err := notifier.ParseCallbackData(callback.Data)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	answer := func(text string) {
		if err := h.Telegram.AnswerCallback(ctx.Request.Context(), callback.ID, text); err != nil {
			log.Printf("Failed to answer callback %s: %v", callback.ID, err)
		}
	}

	switch action {
	case notifier.ActionHandle:
		_, err := h.Resolver.Claim(ctx.Request.Context(), accidentID, actor)

		var alreadyHandled *notifier.AlreadyHandledError

		switch {
		case err == nil:
			answer("✅ You have taken this accident!")
		case errors.As(err, &alreadyHandled):
			answer("⚠️ Already taken by another responder")
		case errors.Is(err, notifier.ErrNotFound):
			answer("❌ Accident not found")
		default:
			log.Printf("Claim via Telegram on accident %d failed: %v", accidentID, err)
			answer("❌ Something went wrong")
		}
	case notifier.ActionReject:
		if _, err := h.Resolver.Reject(ctx.Request.Context(), accidentID, actor); err != nil {
			log.Printf("Reject via Telegram on accident %d failed: %v", accidentID, err)
		}
		answer("❌ You rejected this accident")
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Processed"})
}
