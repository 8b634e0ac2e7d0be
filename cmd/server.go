package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"energydash/internal/config"
	"energydash/internal/controller"
	"energydash/internal/repository"
	"energydash/internal/routes"
	"energydash/internal/service"

	"github.com/rs/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Initialize repository, service, and controller
	repo := repository.NewHomeAssistantRepository(cfg.HAURL, cfg.HAToken)
	cache := service.NewViewCache(cfg.CacheTTL)
	processor := service.NewDataProcessor(repo, cache, cfg)
	viewController := controller.NewViewController(processor, repo, cfg)

	// Probe the hub once at startup so a bad URL or token shows up in the
	// logs immediately. The server still starts; the hub may come up later.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := repo.CheckAPI(ctx); err != nil {
		log.Printf("Warning: hub connection check failed: %v", err)
	} else {
		log.Printf("Connected to hub at %s", cfg.HAURL)
	}
	cancel()

	// Set up routes
	router := routes.SetupRouter(viewController)

	// CORS setup
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	handler := c.Handler(router)

	// Start the server
	serverAddress := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Energy dashboard listening on %s", serverAddress)
	err = http.ListenAndServe(serverAddress, handler)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
