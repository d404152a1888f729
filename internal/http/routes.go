package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zeroends/skinhub/internal/bridge"
	adminctrl "github.com/zeroends/skinhub/internal/http/controllers/admin"
	dashctrl "github.com/zeroends/skinhub/internal/http/controllers/dashboard"
	healthctrl "github.com/zeroends/skinhub/internal/http/controllers/health"
	sessionctrl "github.com/zeroends/skinhub/internal/http/controllers/session"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
)

// RouterDeps groups everything the router needs.
type RouterDeps struct {
	Login     *sessionctrl.LoginController
	Logout    *sessionctrl.LogoutController
	Dashboard *dashctrl.Controllers
	Admin     *adminctrl.Controllers
	Health    *healthctrl.Controller

	Bridge      *bridge.Manager
	AdminAPIKey string

	// Metrics is the /metrics handler, nil disables the endpoint.
	Metrics stdhttp.Handler
	// StaticDir serves the dashboard frontend when non-empty.
	StaticDir string
}

// NewRouter builds the full route table.
func NewRouter(deps RouterDeps) stdhttp.Handler {
	r := chi.NewRouter()

	r.Use(
		mw.WithRequestID(),
		mw.WithLogging(),
		WithMetrics,
	)

	r.Post("/api/login", deps.Login.Login)
	r.Post("/api/logout", deps.Logout.Logout)

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(mw.RequireSession(deps.Bridge))
		r.Get("/data", deps.Dashboard.Data.Data)
		r.Post("/upload", deps.Dashboard.Upload.Upload)
		r.Post("/apply", deps.Dashboard.Apply.Apply)
		r.Post("/delete", deps.Dashboard.Delete.Delete)
	})

	r.Route("/api/internal", func(r chi.Router) {
		r.Use(mw.RequireAdminKey(deps.AdminAPIKey))
		r.Post("/pin", deps.Admin.Pin.IssuePin)
		r.Post("/logout", deps.Admin.Revoke.Revoke)
	})

	r.Get("/healthz", deps.Health.Health)

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	if deps.StaticDir != "" {
		fs := stdhttp.FileServer(stdhttp.Dir(deps.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
