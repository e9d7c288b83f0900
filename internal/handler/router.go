package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/estatehub/estate-hub-api/internal/httputil"
	"github.com/estatehub/estate-hub-api/internal/middleware"
)

// NewRouter assembles the full HTTP surface. requireAuth is the bearer-token
// middleware gating protected routes; uploadDir is served at /uploads.
func NewRouter(
	authHandler *AuthHandler,
	propertyHandler *PropertyHandler,
	requireAuth func(http.Handler) http.Handler,
	logger *zerolog.Logger,
	uploadDir string,
) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password/{token}", authHandler.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/favorites/{propertyId}", authHandler.ToggleFavorite)
				r.Get("/favorites", authHandler.ListFavorites)
			})
		})

		r.Route("/property", func(r chi.Router) {
			r.Get("/", propertyHandler.List)
			r.Post("/contact", propertyHandler.Contact)
			r.Get("/{id}", propertyHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", propertyHandler.Create)
				r.Put("/{id}", propertyHandler.Update)
				r.Delete("/{id}", propertyHandler.Delete)
				r.Get("/user/{userId}", propertyHandler.ListByUser)
				r.Get("/stats/{userId}", propertyHandler.Stats)
			})
		})
	})

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}
