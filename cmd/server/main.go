package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"storyweaver-server/internal/ai"
	"storyweaver-server/internal/config"
	"storyweaver-server/internal/database"
	"storyweaver-server/internal/handler"
	"storyweaver-server/internal/logger"
	"storyweaver-server/internal/middleware"
	"storyweaver-server/internal/repository"
	"storyweaver-server/internal/service"
	"storyweaver-server/internal/tts"
	"storyweaver-server/pkg/storylock"
)

func main() {
	// --- Configuration ---
	// .env существует только при локальной разработке, его отсутствие не ошибка.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, database.Config{
		DSN:            cfg.GetDSN(),
		MaxConnections: cfg.DBMaxConns,
		MaxIdleMinutes: cfg.DBIdleMinutes,
	})
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()
	zap.L().Info("Connected to PostgreSQL")

	if err := database.ApplyMigrations(pool); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}
	zap.L().Info("Database migrations applied")

	// --- Dependency Injection ---
	profileRepo := repository.NewPgProfileRepository(pool, log)
	storyRepo := repository.NewPgStoryRepository(pool, log)

	aiClient := ai.NewClient(ai.Config{
		APIKey:         cfg.AIAPIKey,
		Model:          cfg.AIModel,
		BaseURL:        cfg.AIBaseURL,
		TimeoutSeconds: cfg.AITimeout,
	}, log)

	ttsClient := tts.New(tts.Config{
		APIKey:         cfg.TTSAPIKey,
		BaseURL:        cfg.TTSBaseURL,
		TimeoutSeconds: cfg.TTSTimeout,
	}, log)

	guard := storylock.New()

	profileSvc := service.NewProfileService(profileRepo, log)
	storySvc := service.NewStoryService(storyRepo, profileRepo, aiClient, guard, log)

	apiHandler := handler.NewAPIHandler(profileSvc, storySvc, aiClient, ttsClient, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	apiHandler.RegisterRoutes(router)

	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
