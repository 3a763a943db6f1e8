package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/skycast/skycast-be/internal/api/handlers"
	"github.com/skycast/skycast-be/internal/auth"
	"github.com/skycast/skycast-be/internal/services"
	"github.com/skycast/skycast-be/internal/weather"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, tokens *auth.TokenService, weatherClient *weather.Client) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	weatherHandler := handlers.NewWeatherHandler(weatherClient)

	r.Get("/", handlers.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes: the middleware resolves the bearer token to a user
	// before any handler runs.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(tokens, userService))
		r.Get("/weather", weatherHandler.GetForecast)
	})

	return r
}
