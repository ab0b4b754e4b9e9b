package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func getUintParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(label + " not found")
	}

	value, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label)
	}

	return uint(value), nil
}

func GetCameraID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "camera_id", "Camera ID")
}

func GetAccidentID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "accident_id", "Accident ID")
}

func GetContactID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "contact_id", "Contact ID")
}
