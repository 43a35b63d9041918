package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tourpad/scheduler/internal/core/domain"
)

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidRange, domain.CodeInvalidRequest, domain.CodeInvalidDuration:
		return http.StatusBadRequest
	case domain.CodeNotAuthorized:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeDuplicateID, domain.CodeInvalidTransition, domain.CodeHoldActive, domain.CodeConcurrentModification:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes domain errors with their code and hides everything
// else behind a 500.
func (h *BookingHandler) respondError(c *gin.Context, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		c.JSON(statusFor(derr.Code), gin.H{"error": derr.Message, "code": derr.Code})
		return
	}

	h.logger.Error("Request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": domain.CodeInvalidRequest})
}
