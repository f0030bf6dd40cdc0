// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/iyunix/go-chatview/internal/config"
	"github.com/iyunix/go-chatview/internal/domain"
	"github.com/iyunix/go-chatview/internal/handlers"
	"github.com/iyunix/go-chatview/internal/ratelimit"
	"github.com/iyunix/go-chatview/internal/repository/conversation"
	"github.com/iyunix/go-chatview/internal/repository/message"
	"github.com/iyunix/go-chatview/internal/services"
	"github.com/iyunix/go-chatview/internal/services/ai"
	"github.com/iyunix/go-chatview/web"
)

func main() {
	cfg := config.Load()
	logger := services.NewLoggerWithLevel("chat-server", cfg.Environment, cfg.LogLevel)
	if syncer, ok := logger.(interface{ Sync() error }); ok {
		defer syncer.Sync()
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Conversation{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	conversationRepo := conversation.NewConversationRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	conversationService, err := services.NewConversationService(conversationRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}
	messageService, err := services.NewMessageService(conversationRepo, messageRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Message Service: %v", err)
	}

	if cfg.ResponderEnabled() {
		aiConfig := ai.DefaultConfig()
		aiConfig.APIKey = cfg.OpenAIAPIKey
		aiConfig.BaseURL = cfg.OpenAIBaseURL
		aiConfig.Model = cfg.OpenAIModel
		aiConfig.HistoryLimit = cfg.ResponderHistory

		provider, err := ai.NewOpenAIProvider(aiConfig)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize responder: %v", err)
		}
		messageService.WithResponder(provider, cfg.ResponderHistory)
		logger.Info("assistant responder enabled", "model", aiConfig.Model)
	}

	templates, err := web.TemplateFS(cfg.TemplateDir)
	if err != nil {
		log.Fatalf("FATAL: Failed to open templates: %v", err)
	}

	writeLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.WriteConfig(cfg.RateLimitWrites))
	defer writeLimiter.Close()

	// --- Router Setup ---
	r := handlers.NewRouter(handlers.RouterDeps{
		Conversations: handlers.NewConversationHandler(conversationService, logger),
		Messages:      handlers.NewMessageHandler(messageService, logger),
		Pages:         handlers.NewPageHandler(templates, "Chat", logger),
		Logs:          handlers.NewLogHandler(logger),
		Logger:        logger,
		WriteLimiter:  writeLimiter,
	})

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:              port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting", "addr", port, "database", cfg.DatabasePath, "template_dir", cfg.TemplateDir)

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
