package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/zeroends/skinhub/internal/app"
	"github.com/zeroends/skinhub/internal/config"
	httpx "github.com/zeroends/skinhub/internal/http"
	"github.com/zeroends/skinhub/internal/observability/logger"
	"github.com/zeroends/skinhub/internal/storage"
)

func main() {
	// Load .env if present; system environment still wins inside config.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.Named("main")

	fileStore := storage.NewFileStore(cfg.Storage.DataFile)
	seed, err := fileStore.Load()
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			// Starting with an empty store would overwrite the corrupt file
			// and its backup on the first save. Bail out instead.
			lg.Fatal("skin data and backup are both unreadable, refusing to start",
				logger.String("file", cfg.Storage.DataFile),
			)
		}
		lg.Fatal("loading skin data failed", logger.Err(err))
	}

	application, err := app.New(cfg, app.Deps{
		FileStore: fileStore,
		Seed:      seed,
		StaticDir: staticDir(),
	})
	if err != nil {
		lg.Fatal("wiring failed", logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpx.NewServer(cfg.Server.Addr, application.Handler)
	if err := srv.Run(ctx); err != nil {
		lg.Error("server error", logger.Err(err))
	}

	// Sessions and PINs are in-memory only; drop them and flush the
	// collections one last time.
	application.Bridge.Flush()
	if err := fileStore.Save(application.Store.Snapshot()); err != nil {
		lg.Error("final save failed", logger.Err(err))
	}
	lg.Info("stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

func staticDir() string {
	if d := os.Getenv("WEB_DIR"); d != "" {
		return d
	}
	if st, err := os.Stat("web"); err == nil && st.IsDir() {
		return "web"
	}
	return ""
}
