package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"ticketdesk/internal/config"
	"ticketdesk/internal/handlers"
	"ticketdesk/internal/middleware"
	"ticketdesk/internal/models"
	"ticketdesk/internal/repository"
	"ticketdesk/internal/repository/postgres"
	"ticketdesk/internal/service"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	// Repos, services, handlers
	userRepo := postgres.NewUserRepo(db)
	ticketRepo := postgres.NewTicketRepo(db)
	scopes := repository.NewScopeBuilder(userRepo)

	authSvc := service.NewAuthService(userRepo, cfg.SessionSecret)
	statsSvc := service.NewStatsService(ticketRepo, userRepo, scopes)

	ah := handlers.NewAuthHTTP(authSvc, log)
	uh := handlers.NewUserHTTP(userRepo, ticketRepo, log)
	th := handlers.NewTicketHTTP(ticketRepo, userRepo, scopes, log)
	dh := handlers.NewDashboardHTTP(statsSvc, log)

	r.Get("/healthz", handlers.Health(db))

	r.Post("/auth/login", ah.Login())
	r.Post("/auth/register", ah.Register())

	// Everything below requires a verified credential.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.SessionSecret))

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/", uh.List())
			r.Route("/{id}", func(r chi.Router) {
				r.With(middleware.RequireSelfOrRoles(models.RoleAdmin)).Get("/", uh.Get())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Put("/", uh.Update())
				r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/", uh.Delete())
			})
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", th.List())
			r.Post("/", th.Create())
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", th.Update())
				r.Delete("/", th.Delete())
			})
		})

		r.Get("/dashboard/stats", dh.Stats())
	})

	return r
}
