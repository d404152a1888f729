package skin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// Service errors.
var (
	ErrAssetNotFound = fmt.Errorf("skin not found")
	ErrApplyFailed   = fmt.Errorf("failed to apply skin")
)

// Persister triggers a non-blocking save of the collection snapshot.
type Persister interface {
	SaveAsync(data map[identity.ID]collection.Collection)
}

// Service wraps the collection store with apply/delete semantics.
type Service struct {
	store     *collection.Store
	applier   Applier
	persister Persister
	log       *zap.Logger
}

// NewService creates a Service.
func NewService(store *collection.Store, applier Applier, persister Persister) *Service {
	return &Service{
		store:     store,
		applier:   applier,
		persister: persister,
		log:       logger.Named("skin"),
	}
}

// List returns the identity's assets, the active asset id (0 when none) and
// the collection capacity.
func (s *Service) List(id identity.ID) (assets []collection.Asset, activeID int64, maxAssets int) {
	assets = s.store.Assets(id)
	if assets == nil {
		assets = []collection.Asset{}
	}
	activeID, _ = s.store.ActiveID(id)
	return assets, activeID, s.store.MaxSize()
}

// Apply pushes the asset to the appearance service and records it as active.
// A missing asset id fails without mutating anything.
func (s *Service) Apply(ctx context.Context, id identity.ID, handle string, assetID int64) error {
	asset, ok := s.store.ByID(id, assetID)
	if !ok {
		s.log.Debug("apply failed, unknown asset",
			logger.Identity(id.String()), logger.AssetID(assetID))
		return ErrAssetNotFound
	}

	if err := s.applier.Apply(ctx, id, handle, asset); err != nil {
		s.log.Warn("applier rejected skin", logger.Err(err),
			logger.Identity(id.String()), logger.AssetID(assetID))
		return ErrApplyFailed
	}

	if err := s.store.SetActive(id, assetID); err != nil {
		// The asset was deleted between the lookup and the mark; report
		// the same not-found outcome.
		return ErrAssetNotFound
	}
	s.persister.SaveAsync(s.store.Snapshot())
	s.log.Info("skin applied", logger.Identity(id.String()), logger.AssetID(assetID))
	return nil
}

// Delete removes the asset. A miss leaves the collection untouched.
func (s *Service) Delete(id identity.ID, assetID int64) error {
	if err := s.store.Remove(id, assetID); err != nil {
		return ErrAssetNotFound
	}
	s.persister.SaveAsync(s.store.Snapshot())
	s.log.Info("skin deleted", logger.Identity(id.String()), logger.AssetID(assetID))
	return nil
}
