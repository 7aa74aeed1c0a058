package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/eventdesk/registration-api/internal/admission"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/eventdesk/registration-api/internal/catalog"
	"github.com/eventdesk/registration-api/internal/config"
	"github.com/eventdesk/registration-api/internal/database"
	"github.com/eventdesk/registration-api/internal/directory"
	"github.com/eventdesk/registration-api/internal/handlers"
	"github.com/eventdesk/registration-api/internal/notifier"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Collaborators
	eventCatalog := catalog.NewCatalog(db)
	participantDirectory := directory.NewDirectory(db)

	// Admission Engine
	engine := admission.NewEngine(db, eventCatalog, participantDirectory, cfg.AdmitLockTimeout)

	// Notifier
	discordNotifier, err := notifier.NewDiscordNotifier(cfg)
	if err != nil {
		log.Printf("Discord notifier not initialized: %v", err)
	}
	var n notifier.Notifier
	if discordNotifier != nil {
		n = discordNotifier
	}

	// Handlers
	authHandler := auth.NewAuthHandler(cfg, db, participantDirectory)
	eventHandler := handlers.NewEventHandler(eventCatalog, authHandler)
	categoryHandler := handlers.NewCategoryHandler(eventCatalog, authHandler)
	registrationHandler := handlers.NewRegistrationHandler(db, engine, n, authHandler)
	apiKeyHandler := handlers.NewAPIKeyHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, eventHandler, categoryHandler, registrationHandler, apiKeyHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
