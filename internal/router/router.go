package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"portfolio-backend/internal/handlers"
	"portfolio-backend/internal/middleware"
)

// Options carries the optional pieces of the chat route. A nil JWTAuth leaves
// the route open; a nil Limiter disables rate limiting.
type Options struct {
	JWTAuth     *middleware.JWTAuth
	Limiter     middleware.Limiter
	FrontendURL string
}

func New(chatHandler *handlers.ChatHandler, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware. CORS sits ahead of everything that can write a
	// response so error paths carry the headers too.
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(opts.FrontendURL))
	r.Use(middleware.Recover)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Health check
	r.Get("/health", handlers.Health)

	// ──── Chat Routes ────
	r.Group(func(r chi.Router) {
		// Auth first so the limiter can bucket by user.
		if opts.JWTAuth != nil {
			r.Use(opts.JWTAuth.Middleware)
		}
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter))
		}
		r.Post("/api/chat", chatHandler.Chat)
		r.Post("/api/v1/chat", chatHandler.Chat)
	})

	return r
}
