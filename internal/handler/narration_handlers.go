package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/models"
)

type defineWordRequest struct {
	Word    string `json:"word" binding:"required"`
	Context string `json:"context"`
	Age     int    `json:"age"`
}

type narrateRequest struct {
	Text  string `json:"text" binding:"required"`
	Voice string `json:"voice"`
}

// getCatalog returns the selectable narration voices and theme tags so the
// client never hardcodes the vocabularies.
func (h *APIHandler) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"voices":       models.VoiceNames(),
		"defaultVoice": models.DefaultVoice,
		"themes":       models.ThemeNames(),
	})
}

// defineWord returns a child-friendly definition and phonetic pronunciation
// for a single word tapped in a chapter.
func (h *APIHandler) defineWord(c *gin.Context) {
	var req defineWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for defineWord", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	word := strings.TrimSpace(req.Word)
	if word == "" || strings.ContainsAny(word, " \t\n") {
		badRequest(c, "Word must be a single non-empty token")
		return
	}

	result, err := h.definitions.DefineWord(c.Request.Context(), ai.DefinitionRequest{
		Word:    word,
		Context: req.Context,
		Age:     req.Age,
	})
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, result)
}

// narrate synthesizes speech for a chapter text and returns the audio as a
// base64 data URI, ready for an <audio> element.
func (h *APIHandler) narrate(c *gin.Context) {
	var req narrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for narrate", zap.Error(err))
		badRequest(c, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		badRequest(c, "Text must not be empty")
		return
	}

	result, err := h.speech.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, result)
}
