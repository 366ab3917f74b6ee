package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/ohc-assist/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/ohc-assist/internal/http/middleware"
	"github.com/wolfman30/ohc-assist/internal/leads"
	"github.com/wolfman30/ohc-assist/internal/webchat"
	"github.com/wolfman30/ohc-assist/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Site               *handlers.SiteHandler
	Chat               *handlers.ChatHandler
	Rebates            *handlers.RebateHandler
	Leads              *leads.Handler
	WebChat            *webchat.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Limiter throttles the public API per client IP. Nil disables it.
	Limiter httpmiddleware.Limiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(public chi.Router) {
		if cfg.Limiter != nil {
			public.Use(httpmiddleware.RateLimit(cfg.Limiter, cfg.Logger))
		}

		if cfg.WebChat != nil {
			public.Get("/ws/chat", cfg.WebChat.HandleWebSocket)
		}

		public.Route("/api", func(api chi.Router) {
			api.Use(middleware.Compress(5))

			if cfg.Site != nil {
				api.Get("/site", cfg.Site.GetSite)
			}
			if cfg.Chat != nil {
				api.Route("/chat/sessions", func(r chi.Router) {
					r.Post("/", cfg.Chat.StartSession)
					r.Get("/{id}", cfg.Chat.GetTranscript)
					r.Post("/{id}/messages", cfg.Chat.PostMessage)
				})
			}
			if cfg.Rebates != nil {
				api.Route("/rebates", func(r chi.Router) {
					r.Post("/sessions", cfg.Rebates.StartSession)
					r.Post("/estimate", cfg.Rebates.Estimate)
					r.Post("/compare", cfg.Rebates.Compare)
				})
			}
			if cfg.Leads != nil {
				api.Post("/bookings", cfg.Leads.CreateBooking)
				api.Post("/contact", cfg.Leads.CreateInquiry)
			}
		})
	})

	return r
}
