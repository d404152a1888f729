// Package skin exposes the collection operations behind the dashboard:
// listing, applying and deleting skins.
package skin

import (
	"context"

	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// Applier pushes a skin to the external appearance service so the change
// becomes visible in game. The host supplies the real implementation.
type Applier interface {
	Apply(ctx context.Context, id identity.ID, handle string, asset collection.Asset) error
}

// ApplierFunc adapts a function to the Applier interface.
type ApplierFunc func(ctx context.Context, id identity.ID, handle string, asset collection.Asset) error

func (f ApplierFunc) Apply(ctx context.Context, id identity.ID, handle string, asset collection.Asset) error {
	return f(ctx, id, handle, asset)
}

// NoopApplier logs the apply and does nothing else. Used when the host has
// no appearance service wired.
func NoopApplier() Applier {
	log := logger.Named("skin.applier")
	return ApplierFunc(func(ctx context.Context, id identity.ID, handle string, asset collection.Asset) error {
		log.Info("skin apply requested (no applier configured)",
			logger.Identity(id.String()),
			logger.Handle(handle),
			logger.AssetID(asset.ID),
		)
		return nil
	})
}
