package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamecompare/internal/apperr"
	"gamecompare/internal/client/storefront"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var transport *storefront.TransportError
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case errors.As(err, &transport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if logger != nil && status >= http.StatusInternalServerError {
		logger.Warn(msg, zap.String("path", c.FullPath()), zap.Error(err))
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	Error(c, status, message, nil)
}
