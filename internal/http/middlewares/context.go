package middlewares

import (
	"context"

	"github.com/zeroends/skinhub/internal/identity"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyPlayer
	ctxKeySessionToken
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID returns the request ID injected by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithPlayer stores the authenticated player in the context.
func WithPlayer(ctx context.Context, info identity.UserInfo) context.Context {
	return context.WithValue(ctx, ctxKeyPlayer, info)
}

// GetPlayer returns the authenticated player, if any.
func GetPlayer(ctx context.Context) (identity.UserInfo, bool) {
	v, ok := ctx.Value(ctxKeyPlayer).(identity.UserInfo)
	return v, ok
}

// MustGetPlayer returns the authenticated player. It must only be called
// behind RequireSession.
func MustGetPlayer(ctx context.Context) identity.UserInfo {
	v, _ := ctx.Value(ctxKeyPlayer).(identity.UserInfo)
	return v
}

func withSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKeySessionToken, token)
}

// GetSessionToken returns the raw session token of the current request.
func GetSessionToken(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySessionToken).(string); ok {
		return v
	}
	return ""
}
