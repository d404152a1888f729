// Package logger provides a singleton Zap logger with context-based scoping.
//
// Initialization (once, in main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" or "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// In controllers/services (with context):
//
//	log := logger.From(ctx)
//	log.Info("processing request", logger.Handle(handle))
//
// Without a context the singleton is returned:
//
//	logger.L().Info("service started")
package logger
