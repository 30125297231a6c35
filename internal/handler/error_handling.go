package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

// handleServiceError преобразует ошибки сервисного слоя в HTTP-ответы.
func handleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeValidation, Message: err.Error()}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	case errors.Is(err, models.ErrStoryConcluded):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeStoryConcluded, Message: "Story has reached its ending"}
	case errors.Is(err, models.ErrGenerationInProgress):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeGenerationInProgress, Message: "A chapter is already being generated for this story"}
	case errors.Is(err, models.ErrGeneration):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeGenerationFailed, Message: "Narrative generation failed, please try again"}
	case errors.Is(err, models.ErrExternalService):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeExternalService, Message: "Upstream service request failed"}
	default:
		logger.Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    models.ErrCodeValidation,
		Message: message,
	})
}
