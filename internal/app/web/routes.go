// Package web собирает HTTP сервер страницы автобуса: маршруты, middleware и зависимости.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/ask"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/checkout"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/login"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/logout"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/page"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/portal"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/profile"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/bus/reading"
	"github.com/magabrotheeeer/bozo-bus/internal/http/handlers/health"
	"github.com/magabrotheeeer/bozo-bus/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bozo-bus/internal/http/response"
	"github.com/magabrotheeeer/bozo-bus/internal/services/events"
	"github.com/magabrotheeeer/bozo-bus/internal/session"
	"github.com/magabrotheeeer/bozo-bus/internal/state"
)

// Oracle — все вызовы удалённого API, которые нужны страницам.
type Oracle interface {
	ask.ReadingGetter
	state.StatusFetcher
	checkout.CheckoutCreator
	portal.PortalCreator
	profile.UserUpdater
}

// Deps — зависимости маршрутов.
type Deps struct {
	Log        *slog.Logger
	Oracle     Oracle
	Conditions page.ConditionsGetter
	Sessions   session.Store
	Events     events.Emitter
	Renderer   response.Renderer
	Limiter    *rate.Limiter
	Origin     profile.Coordinates

	CSRFKey            []byte
	CSRFSecure         bool
	CSRFTrustedOrigins []string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/healthz", health.New(d.Log).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// Страницы с формами
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.CSRF(d.Log, d.CSRFKey, d.CSRFSecure, d.CSRFTrustedOrigins))
		r.Use(middlewarectx.SessionMiddleware(d.Sessions))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/bus", http.StatusFound)
		})

		askHandler := ask.New(d.Log, d.Oracle, d.Renderer)
		router := state.NewRouter(d.Oracle)
		r.Get("/ask", askHandler.ServeHTTP)
		r.Get("/bus", page.New(d.Log, router, d.Conditions, d.Renderer).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Log, d.Limiter))
			r.Post("/ask", askHandler.ServeHTTP)
			r.Post("/bus/login", login.New(d.Log, d.Sessions, d.Events, d.Renderer).ServeHTTP)
			r.Post("/bus/logout", logout.New(d.Log, d.Sessions, d.Events).ServeHTTP)
			r.Post("/bus/checkout", checkout.New(d.Log, d.Oracle, d.Sessions, d.Events, d.Renderer).ServeHTTP)
			r.Post("/bus/portal", portal.New(d.Log, router, d.Oracle, d.Conditions, d.Events, d.Renderer).ServeHTTP)
			r.Post("/bus/profile", profile.New(d.Log, router, d.Oracle, d.Events, d.Renderer, d.Origin).ServeHTTP)
			r.Post("/bus/reading", reading.New(d.Log, router, d.Oracle, d.Renderer).ServeHTTP)
		})
	})
}
