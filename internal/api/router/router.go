package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leadhook/leadhook/internal/channels/meta"
	httpmiddleware "github.com/leadhook/leadhook/internal/http/middleware"
	"github.com/leadhook/leadhook/internal/leads"
	"github.com/leadhook/leadhook/internal/pages"
	"github.com/leadhook/leadhook/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	MetaWebhook        *meta.WebhookHandler
	LeadsHandler       *leads.Handler
	PagesHandler       *pages.Handler
	MetricsHandler     http.Handler
	AuthJWTSecret      string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (webhooks, health checks)
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetaWebhook != nil {
			public.Route("/webhooks/meta", func(r chi.Router) {
				r.Get("/", cfg.MetaWebhook.HandleVerification)
				r.Post("/", cfg.MetaWebhook.HandleEvents)
			})
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Authenticated API (account JWT)
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.AccountJWT(cfg.AuthJWTSecret))
		if cfg.LeadsHandler != nil {
			api.Route("/leads", func(r chi.Router) {
				r.Get("/", cfg.LeadsHandler.ListLeads)
				r.Post("/", cfg.LeadsHandler.CreateLead)
			})
		}
		if cfg.PagesHandler != nil {
			api.Route("/social/facebook", func(r chi.Router) {
				r.Get("/pages", cfg.PagesHandler.ListPages)
				r.Post("/pages", cfg.PagesHandler.ChoosePages)
				r.Get("/status", cfg.PagesHandler.Status)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
