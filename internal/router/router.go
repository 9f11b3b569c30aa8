// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Public read endpoints, the auth endpoints and the
// editor-only write and admin endpoints share one middleware stack and
// differ only in their authorization guards.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"catalogcms/internal/handlers"
	"catalogcms/internal/middleware"
)

// Options configures the cross-cutting middleware. Nil authenticators
// disable the corresponding credential type.
type Options struct {
	CORSOrigins   []string
	SecureCookies bool

	Sessions middleware.SessionLoader
	Tokens   middleware.TokenParser
	Users    middleware.PasswordAuthenticator

	// Rate limiters for login and the contact form. Nil disables limiting.
	LoginLimiter   *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter
}

// Handlers bundles the handler groups served by the router.
type Handlers struct {
	Catalog *handlers.Catalog
	Blog    *handlers.Blog
	Contact *handlers.Contact
	Auth    *handlers.Auth
	Admin   *handlers.Admin
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	// Health check, outside authentication.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Sessions, opts.Tokens, opts.Users))
		r.Use(middleware.CSRF(opts.SecureCookies))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Catalog.ListProducts)
			r.Get("/categories/", h.Catalog.ListCategories)
			r.Get("/categories/{slug}/", h.Catalog.CategoryDetail)
			r.Get("/root-categories/", h.Catalog.ListRootCategories)
			r.With(middleware.RequireCatalogEditor).Post("/create/", h.Catalog.CreateProduct)
			r.Get("/{slug}/", h.Catalog.ProductDetail)
			r.Get("/{slug}/spec-table/", h.Catalog.SpecTable)
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", h.Blog.List)
			r.Get("/{slug}/", h.Blog.Detail)
		})

		r.With(limit(opts.ContactLimiter)).Post("/contact/", h.Contact.Create)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(opts.LoginLimiter)).Post("/login/", h.Auth.Login)
			r.Post("/logout/", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me/", h.Auth.Me)
				r.Post("/2fa/setup/", h.Auth.TwoFASetup)
				r.Post("/2fa/enable/", h.Auth.TwoFAEnable)
			})
		})

		// Admin registry and inbox, editors and admins only.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireCatalogEditor)
			r.Get("/models/", h.Admin.Models)
			r.Get("/contact-messages/", h.Admin.ContactMessages)
		})
	})

	return r
}

// limit applies rl when it is configured.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
