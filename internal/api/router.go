package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlibekovAA/tada/internal/access"
	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
	todohttp "github.com/AlibekovAA/tada/internal/todo/http"
	todoservice "github.com/AlibekovAA/tada/internal/todo/service"
	userdomain "github.com/AlibekovAA/tada/internal/user/domain"
	userhttp "github.com/AlibekovAA/tada/internal/user/http"
	userservice "github.com/AlibekovAA/tada/internal/user/service"
	"github.com/AlibekovAA/tada/internal/weather"
)

type Deps struct {
	Log            *logger.Logger
	Accounts       *userservice.AccountService
	Todos          *todoservice.TodoService
	Weather        *weather.Service
	Gate           *access.Gate
	Limiters       *commonhttp.RateLimiters
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// NewRouter assembles the four surfaces: public, user, admin and weather.
// /metrics is served outside the tiers.
func NewRouter(deps Deps) http.Handler {
	auth := access.NewMiddleware(deps.Gate, deps.Log)
	users := userhttp.NewHandler(deps.Accounts, deps.Log)
	todos := todohttp.NewHandler(deps.Todos, deps.Log)
	weatherHandler := weather.NewHandler(deps.Weather, deps.Log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", commonhttp.TraceIDHeader},
		ExposedHeaders:   []string{commonhttp.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(commonhttp.TimeoutMiddleware(deps.RequestTimeout))

	r.NotFound(commonhttp.NotFoundHandler)
	r.MethodNotAllowed(commonhttp.MethodNotAllowedHandler)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.Limiters.GeneralMiddleware())

		r.Route("/public", func(r chi.Router) {
			r.Get("/health-check", commonhttp.HealthHandler(deps.Log))
			users.PublicRoutes(r, deps.Limiters.RegisterMiddleware())
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(auth.Authenticate)
			users.UserRoutes(r, deps.Limiters.PasswordMiddleware())
			r.Route("/todos", todos.Routes)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(auth.RequireRole(userdomain.RoleAdmin))
			users.AdminRoutes(r, deps.Limiters.PasswordMiddleware())
		})

		r.Route("/weather", func(r chi.Router) {
			r.Use(auth.Authenticate)
			weatherHandler.Routes(r)
		})
	})

	return commonhttp.BuildBaseHandler(deps.Log, r)
}
