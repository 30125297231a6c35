package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

type createStoryRequest struct {
	Hero         string `json:"hero" binding:"required"`
	Setting      string `json:"setting" binding:"required"`
	Theme        string `json:"theme"`
	Age          int    `json:"age"`
	ReadingLevel int    `json:"readingLevel"`
	Voice        string `json:"voice"`
	ProfileID    string `json:"profileId"`
}

type advanceStoryRequest struct {
	Choice string `json:"choice"`
}

func (h *APIHandler) listStories(c *gin.Context) {
	stories, err := h.stories.ListStories(c.Request.Context())
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (h *APIHandler) getStory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	story, err := h.stories.GetStory(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *APIHandler) createStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for createStory", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	params := models.CreateStoryParams{
		Hero:         req.Hero,
		Setting:      req.Setting,
		Theme:        req.Theme,
		Age:          req.Age,
		ReadingLevel: req.ReadingLevel,
		Voice:        req.Voice,
	}
	if req.ProfileID != "" {
		profileID, err := uuid.Parse(req.ProfileID)
		if err != nil {
			badRequest(c, "Invalid profileId format")
			return
		}
		params.ProfileID = &profileID
	}

	story, err := h.stories.CreateStory(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, story)
}

func (h *APIHandler) advanceStory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req advanceStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for advanceStory", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	story, err := h.stories.AdvanceStory(c.Request.Context(), id, req.Choice)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (h *APIHandler) deleteStory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.stories.DeleteStory(c.Request.Context(), id); err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
