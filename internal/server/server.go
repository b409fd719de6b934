// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/rcampos/vendahub/internal/auth"
	"github.com/rcampos/vendahub/internal/catalog"
	"github.com/rcampos/vendahub/internal/content"
	"github.com/rcampos/vendahub/internal/db"
	"github.com/rcampos/vendahub/internal/log"
	"github.com/rcampos/vendahub/internal/meli"
	"github.com/rcampos/vendahub/internal/sales"
	"github.com/rcampos/vendahub/internal/settings"
)

type Server struct {
	db     *db.DB
	router *chi.Mux

	authService   *auth.Service
	catalogStore  *catalog.Store
	salesStore    *sales.Store
	contentStore  *content.Store
	settingsStore *settings.Store

	// Mercado Livre connection flow
	meliConfig      *meli.Config
	meliClient      *meli.Client
	stateStore      *meli.StateStore
	credentialStore *meli.CredentialStore

	// Content generation. The API key is resolved per request from
	// system_settings (with openaiKey from the environment as fallback),
	// so an admin can configure it without restarting the server.
	openaiKey        string
	contentModel     string
	chatClients      func(apiKey string) content.ChatCompleter
	contentGenerator *content.Generator

	// HTTP server for graceful shutdown
	httpServer *http.Server
}

// Config holds server configuration.
type Config struct {
	JWTSecret    string
	Meli         *meli.Config
	OpenAIKey    string
	ContentModel string
}

func New(database *db.DB, cfg Config) *Server {
	if cfg.Meli == nil {
		cfg.Meli = &meli.Config{}
	}

	s := &Server{
		db:              database,
		router:          chi.NewRouter(),
		authService:     auth.NewService(database, cfg.JWTSecret),
		catalogStore:    catalog.NewStore(database),
		salesStore:      sales.NewStore(database),
		contentStore:    content.NewStore(database),
		settingsStore:   settings.NewStore(database),
		meliConfig:      cfg.Meli,
		meliClient:      meli.NewClient(cfg.Meli),
		stateStore:      meli.NewStateStore(database.DB),
		credentialStore: meli.NewCredentialStore(database.DB),
		openaiKey:       cfg.OpenAIKey,
		contentModel:    cfg.ContentModel,
		chatClients: func(apiKey string) content.ChatCompleter {
			return openai.NewClient(apiKey)
		},
	}

	s.setupRoutes()
	return s
}

// SetContentGenerator pins a fixed generation backend, bypassing the
// per-request key lookup. Used by tests.
func (s *Server) SetContentGenerator(g *content.Generator) {
	s.contentGenerator = g
}

func (s *Server) setupRoutes() {
	// CORS middleware for the browser dashboard
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(log.RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))

	s.router.Get("/health", s.handleHealth)

	// Auth routes
	s.router.Route("/auth/v1", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/token", s.handleToken)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/user", s.handleGetUser)
			r.Post("/logout", s.handleLogout)
		})
	})

	// Marketplace integration routes. The callback is unauthenticated:
	// the provider redirect carries no session, identity comes from the
	// stored state row.
	s.router.Route("/integrations/v1", func(r chi.Router) {
		r.Get("/meli/callback", s.handleMeliCallback)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/meli/start", s.handleMeliStart)
			r.Post("/meli/refresh", s.handleMeliRefresh)
			r.Delete("/meli", s.handleMeliDisconnect)
			r.Get("/status", s.handleIntegrationStatus)
		})
	})

	// Dashboard API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/products", s.handleListProducts)
		r.Post("/products", s.handleCreateProduct)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		r.Get("/listings", s.handleListListings)
		r.Post("/listings", s.handleCreateListing)
		r.Put("/listings/{id}", s.handleUpdateListing)
		r.Delete("/listings/{id}", s.handleDeleteListing)

		r.Get("/sales", s.handleListSales)
		r.Post("/sales", s.handleCreateSale)
		r.Delete("/sales/{id}", s.handleDeleteSale)
		r.Get("/sales/summary", s.handleSalesSummary)

		r.Post("/content/generate", s.handleGenerateContent)
		r.Get("/content", s.handleListContent)

		r.Post("/pricing/quote", s.handlePricingQuote)
		r.Post("/pricing/suggest", s.handlePricingSuggest)
	})

	// Admin routes
	s.router.Route("/admin/v1", func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Use(s.adminOnly)

		r.Get("/settings", s.handleListSettings)
		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handleSetSetting)
	})
}

func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
