package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/eventdesk/registration-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	eventHandler *EventHandler,
	categoryHandler *CategoryHandler,
	registrationHandler *RegistrationHandler,
	apiKeyHandler *APIKeyHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Event Registration API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
		"apiKey": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	huma.Post(api, "/auth/signup", authHandler.HandleSignup)
	huma.Post(api, "/auth/login", authHandler.HandleLogin)
	r.Get("/auth/oauth/login", authHandler.HandleOAuthLogin)
	r.Get("/auth/oauth/callback", authHandler.HandleOAuthCallback)

	// Catalog
	huma.Get(api, "/events", eventHandler.HandleList)
	huma.Get(api, "/events/{eventID}", eventHandler.HandleGet)
	huma.Post(api, "/events", eventHandler.HandleCreate, secured)
	huma.Put(api, "/events/{eventID}", eventHandler.HandleUpdate, secured)
	huma.Get(api, "/categories", categoryHandler.HandleList)
	huma.Post(api, "/categories", categoryHandler.HandleCreate, secured)

	// Registrations
	huma.Get(api, "/events/{eventID}/availability", registrationHandler.HandleAvailability)
	huma.Post(api, "/events/{eventID}/registrations", registrationHandler.HandleAdmit, secured)
	huma.Get(api, "/registrations", registrationHandler.HandleListMine, secured)
	huma.Delete(api, "/registrations/{reference}", registrationHandler.HandleCancel, secured)

	// API keys
	huma.Post(api, "/api-keys", apiKeyHandler.HandleCreate, secured)
	huma.Get(api, "/api-keys", apiKeyHandler.HandleList, secured)
	huma.Delete(api, "/api-keys/{id}", apiKeyHandler.HandleDelete, secured)
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKey": {}}}
}
