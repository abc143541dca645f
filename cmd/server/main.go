package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnwithai.app/learning-server/internal/api"
	"learnwithai.app/learning-server/internal/config"
	"learnwithai.app/learning-server/internal/core"
	"learnwithai.app/learning-server/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	dbStore := store.NewMemoryStore()

	// Transcripts come from Gemini when a key is configured, otherwise from the template.
	var writer core.TranscriptWriter
	if config.AppConfig.GeminiAPIKey != "" {
		llmService, err := core.NewLLMService(context.Background(), config.AppConfig.GeminiAPIKey)
		if err != nil {
			log.Printf("Failed to initialize LLM service, using template transcripts: %v", err)
		} else {
			defer llmService.Close()
			writer = llmService
		}
	}

	generator := core.NewGenerator(config.AppConfig.StepInterval, writer)

	// Initialize Chat service
	chatService := core.NewChatService(dbStore, generator, config.AppConfig.ReplyDelay, config.AppConfig.SeedDemoData)
	defer chatService.Close()

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService)
	limiter := api.NewRateLimiter(config.AppConfig.RateLimitRPS, config.AppConfig.RateLimitBurst)
	if limiter == nil {
		log.Println("RATE_LIMIT_RPS is not positive, rate limiting disabled")
	}
	router := api.NewRouter(apiHandler, limiter)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // Transcript generation can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	// chatService.Close() and llmService.Close() run via defers.
	log.Println("Server exiting gracefully")
}
