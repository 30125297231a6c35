package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

type createProfileRequest struct {
	Name            string   `json:"name" binding:"required"`
	Age             int      `json:"age" binding:"required"`
	ReadingLevel    int      `json:"readingLevel" binding:"required"`
	PreferredThemes []string `json:"preferredThemes"`
	Voice           string   `json:"voice"`
}

type updateProfileRequest struct {
	Name            *string   `json:"name"`
	Age             *int      `json:"age"`
	ReadingLevel    *int      `json:"readingLevel"`
	PreferredThemes *[]string `json:"preferredThemes"`
	Voice           *string   `json:"voice"`
}

func (h *APIHandler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.ListProfiles(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *APIHandler) getProfile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *APIHandler) createProfile(c *gin.Context) {
	var req createProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for createProfile", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profiles.CreateProfile(c.Request.Context(), models.CreateProfileParams{
		Name:            req.Name,
		Age:             req.Age,
		ReadingLevel:    req.ReadingLevel,
		PreferredThemes: req.PreferredThemes,
		Voice:           req.Voice,
	})
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *APIHandler) updateProfile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for updateProfile", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), id, models.UpdateProfileParams{
		Name:            req.Name,
		Age:             req.Age,
		ReadingLevel:    req.ReadingLevel,
		PreferredThemes: req.PreferredThemes,
		Voice:           req.Voice,
	})
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	if profile == nil {
		// Update of a missing profile is a silent no-op.
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *APIHandler) deleteProfile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.profiles.DeleteProfile(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseIDParam извлекает и валидирует UUID из параметра пути :id.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		badRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
