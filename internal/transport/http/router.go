package http

import (
	"github.com/go-auth-dashboard/internal/application/account"
	"github.com/go-auth-dashboard/internal/application/session"
	"github.com/go-auth-dashboard/internal/ratelimit"
	"github.com/go-auth-dashboard/internal/transport/http/handler"
	"github.com/go-auth-dashboard/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles services and mounts all routes.
func NewRouter(deps Deps) *chi.Mux {
	limiter := ratelimit.New(deps.RateLimitRepo)

	accounts := account.NewService(account.ServiceDeps{
		UserRepo: deps.UserRepo,
		Limiter:  limiter,
		Mailer:   deps.Mailer,
		BaseURL:  deps.Config.BaseURL,
	})
	sessions := session.NewService(session.ServiceDeps{
		UserRepo: deps.UserRepo,
		Signer:   deps.JWTProvider,
		Limiter:  limiter,
	})

	userHandler := handler.NewUserHandler(accounts)
	sessionHandler := handler.NewSessionHandler(sessions)
	verifyHandler := handler.NewEmailVerifyHandler(accounts)
	resetHandler := handler.NewPasswordResetHandler(accounts)
	healthHandler := handler.NewHealthHandler()

	authMw := middleware.Auth(deps.JWTProvider)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/ping", healthHandler.Ping)

		r.Post("/users", userHandler.Register)
		r.Post("/sessions/login", sessionHandler.Login)
		r.Get("/verify-email", verifyHandler.Verify)
		r.Post("/password-reset/request", resetHandler.Request)
		r.Post("/password-reset", resetHandler.Reset)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Get("/sessions", sessionHandler.GetCurrent)
			r.Post("/sessions/refresh", sessionHandler.Refresh)
			r.Post("/verify-email/request", verifyHandler.Request)
		})
	})

	return r
}
