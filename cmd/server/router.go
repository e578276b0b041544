package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/phrazzld/fitlog-api/internal/api"
	apiMiddleware "github.com/phrazzld/fitlog-api/internal/api/middleware"
	"github.com/phrazzld/fitlog-api/internal/domain"
)

// setupRouter builds the HTTP routes from the application's services.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics(app.metrics))

	authHandler := api.NewAuthHandler(app.authService, app.config.Auth.SecureCookies, app.logger)
	exerciseHandler := api.NewExerciseHandler(app.exerciseService, app.logger)
	workoutHandler := api.NewWorkoutHandler(app.workoutService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// register and login share one per-IP budget
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(app.config.Server.AuthRateLimitPerMinute, time.Minute))

			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})
		r.Get("/auth/register_confirm", authHandler.Confirm)
		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/exercises", exerciseHandler.List)
		r.Get("/exercises/{id}", exerciseHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/change_email", authHandler.ChangeEmail)
			r.Post("/auth/change_password", authHandler.ChangePassword)

			r.With(apiMiddleware.RequireAction(domain.ActionExerciseCreate)).
				Post("/exercises", exerciseHandler.Create)
			r.With(apiMiddleware.RequireAction(domain.ActionExerciseUpdate)).
				Put("/exercises/{id}", exerciseHandler.Replace)
			r.With(apiMiddleware.RequireAction(domain.ActionExerciseUpdate)).
				Patch("/exercises/{id}", exerciseHandler.Patch)
			r.With(apiMiddleware.RequireAction(domain.ActionExerciseDelete)).
				Delete("/exercises/{id}", exerciseHandler.Delete)

			r.Get("/workouts", workoutHandler.List)
			r.Post("/workouts", workoutHandler.Create)
			r.Get("/workouts/{id}", workoutHandler.Get)
			r.Patch("/workouts/{id}", workoutHandler.Patch)
			r.Delete("/workouts/{id}", workoutHandler.Delete)
			r.Post("/workouts/{id}/exercises", workoutHandler.AddExercises)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", slog.String("error", err.Error()))
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
