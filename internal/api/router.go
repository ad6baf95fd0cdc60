package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/medicore/hospital-booking/internal/appointment"
	"github.com/medicore/hospital-booking/internal/auth"
	"github.com/medicore/hospital-booking/internal/catalog"
	"github.com/medicore/hospital-booking/internal/message"
	"github.com/medicore/hospital-booking/internal/user"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Catalog      *catalog.Manager
	Users        *user.Service
	Messages     *message.Service
	Tokens       *auth.Issuer

	PgPool *pgxpool.Pool
	Redis  *redis.Client

	Log     zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signupHandler(cfg.Users))
			r.Post("/login", loginHandler(cfg.Users))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", listAppointmentsHandler(cfg.Appointments))
			r.Post("/", createAppointmentHandler(cfg.Appointments))
			r.Post("/bulk", bulkTransitionHandler(cfg.Appointments))
			r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
			r.Delete("/{id}", deleteAppointmentHandler(cfg.Appointments))
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", listServicesHandler(cfg.Catalog))
			r.Post("/", createServiceHandler(cfg.Catalog))
			r.Put("/{id}", updateServiceHandler(cfg.Catalog))
			r.Delete("/{id}", deleteServiceHandler(cfg.Catalog))
		})

		// User management is admin-only.
		r.Route("/users", func(r chi.Router) {
			r.Use(RequireAdmin(cfg.Tokens))
			r.Get("/", listUsersHandler(cfg.Users))
			r.Post("/", createUserHandler(cfg.Users))
			r.Put("/{id}", updateUserHandler(cfg.Users))
			r.Delete("/{id}", deleteUserHandler(cfg.Users))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", listMessagesHandler(cfg.Messages))
			r.Post("/", createMessageHandler(cfg.Messages))
			r.Put("/{id}", updateMessageHandler(cfg.Messages))
			r.Delete("/{id}", deleteMessageHandler(cfg.Messages))
		})
	})

	return r
}
