package logger

import (
	"context"

	"go.uber.org/zap"
)

// S returns the SugaredLogger of the singleton.
// Handy for quick printf-style logs.
//
//	logger.S().Infof("loaded %d collections", n)
func S() *zap.SugaredLogger {
	return L().Sugar()
}

// SFrom extracts the SugaredLogger from the context.
func SFrom(ctx context.Context) *zap.SugaredLogger {
	return From(ctx).Sugar()
}
