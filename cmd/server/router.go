package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bucketlist-api/internal/api"
	apiMiddleware "github.com/phrazzld/bucketlist-api/internal/api/middleware"
)

// setupRouter registers every route and middleware. Trailing slashes are
// optional on all paths.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if app.config.Server.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userService, app.logger)
	listHandler := api.NewBucketListHandler(app.bucketListService, app.logger)
	itemHandler := api.NewItemHandler(app.itemService, app.logger)

	r.Route("/auth", func(r chi.Router) {
		if app.config.Auth.LoginRatePerMinute > 0 {
			limiter := apiMiddleware.NewRateLimiter(app.config.Auth.LoginRatePerMinute, app.config.Auth.LoginBurst)
			r.Use(limiter.Middleware)
		}
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/bucketlists", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/", listHandler.List)
		r.Post("/", listHandler.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", listHandler.Get)
			r.Put("/", listHandler.Update)
			r.Delete("/", listHandler.Delete)

			r.Route("/items", func(r chi.Router) {
				r.Get("/", itemHandler.List)
				r.Post("/", itemHandler.Create)
				r.Get("/{item_id}", itemHandler.Get)
				r.Put("/{item_id}", itemHandler.Update)
				r.Delete("/{item_id}", itemHandler.Delete)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
