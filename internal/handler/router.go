package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carmarket/carmarket-go/internal/market"
	"github.com/carmarket/carmarket-go/internal/middleware"
	"github.com/carmarket/carmarket-go/internal/service"
)

// Deps are the services the HTTP surface is built on.
type Deps struct {
	Auth          *service.AuthService
	Reader        *market.Reader
	Coordinator   *market.Coordinator
	JWTSecret     string
	FeaturedLimit int
}

// NewRouter builds the API routes.
func NewRouter(d Deps) http.Handler {
	authHandler := NewAuthHandler(d.Auth)
	listingHandler := NewListingHandler(d.Reader, d.Coordinator, d.FeaturedLimit)
	profileHandler := NewProfileHandler(d.Reader, d.Coordinator)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/auth/register", authHandler.HandleRegister)
			r.Post("/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(d.JWTSecret))
			r.Get("/listings", listingHandler.HandleList)
			r.Get("/listings/featured", listingHandler.HandleFeatured)
			r.Get("/listings/locations", listingHandler.HandleLocations)
			r.Get("/listings/{id}", listingHandler.HandleGet)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(d.JWTSecret))
			r.Get("/auth/me", authHandler.HandleMe)

			r.Post("/listings", listingHandler.HandleCreate)
			r.Put("/listings/{id}", listingHandler.HandleUpdate)
			r.Delete("/listings/{id}", listingHandler.HandleDelete)

			r.Get("/me/listings", listingHandler.HandleMine)
			r.Get("/me/profile", profileHandler.HandleGet)
			r.Put("/me/profile", profileHandler.HandleUpdate)
		})
	})

	return r
}
