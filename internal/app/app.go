// Package app wires configuration, caches, the identity bridge, the skin
// pipeline and the HTTP surface into a runnable application.
package app

import (
	"fmt"
	stdhttp "net/http"

	"github.com/zeroends/skinhub/internal/bridge"
	"github.com/zeroends/skinhub/internal/cache/memory"
	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/config"
	httpx "github.com/zeroends/skinhub/internal/http"
	adminctrl "github.com/zeroends/skinhub/internal/http/controllers/admin"
	dashctrl "github.com/zeroends/skinhub/internal/http/controllers/dashboard"
	healthctrl "github.com/zeroends/skinhub/internal/http/controllers/health"
	sessionctrl "github.com/zeroends/skinhub/internal/http/controllers/session"
	sessiondto "github.com/zeroends/skinhub/internal/http/dto/session"
	adminsvc "github.com/zeroends/skinhub/internal/http/services/admin"
	dashsvc "github.com/zeroends/skinhub/internal/http/services/dashboard"
	sessionsvc "github.com/zeroends/skinhub/internal/http/services/session"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/mineskin"
	"github.com/zeroends/skinhub/internal/ratelimit"
	"github.com/zeroends/skinhub/internal/skin"
	"github.com/zeroends/skinhub/internal/storage"
	"github.com/zeroends/skinhub/internal/upload"
)

// Deps holds the pieces main builds before wiring.
type Deps struct {
	// FileStore persists collections; Load must already have happened so a
	// corrupt data file aborts startup before the listener opens.
	FileStore *storage.FileStore
	// Seed is the loaded collection state.
	Seed map[identity.ID]collection.Collection
	// Applier pushes an applied skin to the game side. Nil gets the no-op
	// applier.
	Applier skin.Applier
	// Generator overrides the MineSkin client, used by tests.
	Generator upload.Generator
	// StaticDir serves the dashboard frontend when non-empty.
	StaticDir string
}

// App is the wired application.
type App struct {
	Handler stdhttp.Handler
	Bridge  *bridge.Manager
	Store   *collection.Store
}

// New wires the application.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if deps.FileStore == nil {
		return nil, fmt.Errorf("app: file store is required")
	}

	// Caches. Each concern gets its own namespace with its own default TTL.
	pins := memory.New(cfg.PinTTL())
	sessions := memory.New(cfg.SessionTTL())
	handles := memory.New(cfg.PinTTL())
	cooldownMarks := memory.New(cfg.UploadCooldown())

	br := bridge.New(bridge.Config{
		PinTTL:     cfg.PinTTL(),
		SessionTTL: cfg.SessionTTL(),
	}, bridge.Deps{
		Pins:     pins,
		Sessions: sessions,
	})

	resolver := identity.NewCachedResolver(handles, cfg.PinTTL())
	cooldown := ratelimit.New(cooldownMarks, cfg.UploadCooldown())

	store := collection.NewStore(cfg.SkinManagement.MaxSkins)
	if deps.Seed != nil {
		store.Replace(deps.Seed)
	}

	applier := deps.Applier
	if applier == nil {
		applier = skin.NoopApplier()
	}

	generator := deps.Generator
	if generator == nil {
		generator = mineskin.New(mineskin.Config{
			BaseURL: cfg.MineSkin.BaseURL,
			APIKey:  cfg.MineSkin.APIKey,
			Timeout: cfg.MineSkinTimeout(),
		})
	}

	pipeline := upload.New(upload.Config{
		MaxFileSize:  cfg.MaxFileSizeBytes(),
		Require64x64: cfg.SkinManagement.Require64x64,
	}, cooldown, store, generator, deps.FileStore)

	skins := skin.NewService(store, applier, deps.FileStore)

	// HTTP services
	loginSvc := sessionsvc.NewLoginService(sessionsvc.LoginDeps{
		Bridge:   br,
		Resolver: resolver,
		Config: sessiondto.LoginConfig{
			CookieName: "skinhub_session",
			TTL:        cfg.SessionTTL(),
			Secure:     cfg.App.Env == "prod",
		},
	})
	logoutSvc := sessionsvc.NewLogoutService(br)
	dashboardSvc := dashsvc.New(dashsvc.Deps{Skins: skins, Pipeline: pipeline})
	adminSvc := adminsvc.New(adminsvc.Deps{
		Bridge:   br,
		Resolver: resolver,
		PinTTL:   cfg.PinTTL(),
	})

	// Metrics
	metricsHandler, err := httpx.RegisterMetrics(httpx.MetricsConfig{
		ActiveSessions: br.ActiveSessions,
	})
	if err != nil {
		return nil, fmt.Errorf("app: register metrics: %w", err)
	}

	// Controllers and router
	handler := httpx.NewRouter(httpx.RouterDeps{
		Login:  sessionctrl.NewLoginController(loginSvc, httpx.RecordLoginAttempt),
		Logout: sessionctrl.NewLogoutController(loginSvc, logoutSvc),
		Dashboard: dashctrl.NewControllers(dashboardSvc, dashctrl.UploadControllerDeps{
			MaxFileSize:   cfg.MaxFileSizeBytes(),
			RecordOutcome: httpx.RecordUploadOutcome,
		}),
		Admin:       adminctrl.NewControllers(adminSvc),
		Health:      healthctrl.NewController(),
		Bridge:      br,
		AdminAPIKey: cfg.Server.AdminAPIKey,
		Metrics:     metricsHandler,
		StaticDir:   deps.StaticDir,
	})

	return &App{
		Handler: handler,
		Bridge:  br,
		Store:   store,
	}, nil
}
