package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/juliebook/juliebook-be/internal/api/handlers"
	"github.com/juliebook/juliebook-be/internal/auth"
	"github.com/juliebook/juliebook-be/internal/services"
	"github.com/juliebook/juliebook-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
//
// /signup and /signin are the only public endpoints; every other route goes
// through the bearer-token middleware and never runs without an
// authenticated user id in context.
func NewRouter(
	tokens *auth.TokenIssuer,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	cardService services.CardServiceProvider,
	eventService services.EventServiceProvider,
	corsOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the SPA frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, eventService, tokens)
	cardHandler := handlers.NewCardHandler(cardService, eventService, hub)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Public auth endpoints
	r.Post("/signup", userHandler.Register)
	r.Post("/signin", userHandler.Login)

	// Protected endpoints
	r.Group(func(r chi.Router) {
		r.Use(tokens.Middleware())

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.GetMe)
			r.Patch("/me", userHandler.UpdateProfile)
			r.Patch("/me/avatar", userHandler.UpdateAvatar)
			r.Get("/{id}", userHandler.Get)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.GetAll)
			r.Post("/", cardHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", cardHandler.Delete)
				r.Put("/likes", cardHandler.Like)
				r.Delete("/likes", cardHandler.Unlike)
			})
		})

		r.Get("/events", eventHandler.GetRecent)

		// Live feed activity stream
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
