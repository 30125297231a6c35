package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/service"
	"storyweaver-server/internal/tts"
)

// DefinitionGateway produces child-friendly word definitions.
type DefinitionGateway interface {
	DefineWord(ctx context.Context, req ai.DefinitionRequest) (*ai.DefinitionResult, error)
}

// SpeechSynthesizer turns chapter text into playable audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceName string) (*tts.SpeechResult, error)
}

// APIHandler объединяет все HTTP-обработчики сервера.
type APIHandler struct {
	profiles    service.ProfileService
	stories     service.StoryService
	definitions DefinitionGateway
	speech      SpeechSynthesizer
	logger      *zap.Logger
}

// NewAPIHandler создает новый экземпляр APIHandler.
func NewAPIHandler(
	profiles service.ProfileService,
	stories service.StoryService,
	definitions DefinitionGateway,
	speech SpeechSynthesizer,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		profiles:    profiles,
		stories:     stories,
		definitions: definitions,
		speech:      speech,
		logger:      logger.Named("APIHandler"),
	}
}

// RegisterRoutes регистрирует все маршруты API.
func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		profiles := api.Group("/profiles")
		{
			profiles.GET("", h.listProfiles)
			profiles.POST("", h.createProfile)
			profiles.GET("/:id", h.getProfile)
			profiles.PUT("/:id", h.updateProfile)
			profiles.DELETE("/:id", h.deleteProfile)
		}

		stories := api.Group("/stories")
		{
			stories.GET("", h.listStories)
			stories.POST("", h.createStory)
			stories.GET("/:id", h.getStory)
			stories.POST("/:id/advance", h.advanceStory)
			stories.DELETE("/:id", h.deleteStory)
		}

		api.GET("/catalog", h.getCatalog)
		api.POST("/definitions", h.defineWord)
		api.POST("/narration", h.narrate)
	}
}
