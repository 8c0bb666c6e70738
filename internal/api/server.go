package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mapleleafu/water/internal/api/handler"
	"github.com/mapleleafu/water/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control", "x-api-key", "Authorization"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// Open routes
	r.Post("/validate-app-secret", h.ValidateAppSecret)
	r.Get("/vapid-public-key", h.VAPIDPublicKey)

	// Subscriber routes (x-api-key)
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(cfg.AppSecret))

		r.Get("/users", h.ListUsers)
		r.Post("/users", h.CreateUser)
		r.Post("/subscribe", h.Subscribe)
		r.Post("/log-drink", h.LogDrink)
		r.Post("/mute", h.Mute)
		r.Post("/preferences", h.Preferences)
		r.Get("/stats/{userId}", h.GetStats)
		r.Get("/stats/{userId}/day/{date}", h.GetDayDetail)
	})

	// Operator routes (Authorization: Bearer)
	r.Group(func(r chi.Router) {
		r.Use(RequireBearer(cfg.CronSecret))

		r.Get("/trigger-reminders", h.TriggerReminders)
		r.Get("/force-reminders", h.ForceReminders)
	})

	return r
}
