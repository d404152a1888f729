// Package dashboard adapts the skin service and the upload pipeline to the
// dashboard API.
package dashboard

import (
	"context"
	"errors"

	dto "github.com/zeroends/skinhub/internal/http/dto/dashboard"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
	"github.com/zeroends/skinhub/internal/skin"
	"github.com/zeroends/skinhub/internal/upload"
)

// Service exposes the dashboard operations for an authenticated player.
type Service interface {
	Data(ctx context.Context, player identity.UserInfo) dto.DataResponse
	Upload(ctx context.Context, player identity.UserInfo, fileName string, data []byte) (dto.UploadResponse, upload.State)
	Apply(ctx context.Context, player identity.UserInfo, assetID int64) error
	Delete(ctx context.Context, player identity.UserInfo, assetID int64) error
}

// Service errors
var (
	ErrAssetNotFound = errors.New("skin not found")
	ErrApplyFailed   = errors.New("could not apply skin")
)

// Deps contains dependencies for the dashboard service.
type Deps struct {
	Skins    *skin.Service
	Pipeline *upload.Pipeline
}

type service struct {
	skins    *skin.Service
	pipeline *upload.Pipeline
}

// New creates the dashboard service.
func New(deps Deps) Service {
	return &service{
		skins:    deps.Skins,
		pipeline: deps.Pipeline,
	}
}

// Data returns the player's collection for rendering.
func (s *service) Data(ctx context.Context, player identity.UserInfo) dto.DataResponse {
	assets, activeID, maxAssets := s.skins.List(player.ID)

	resp := dto.DataResponse{
		Success:   true,
		Handle:    player.Handle,
		Assets:    assets,
		MaxAssets: maxAssets,
	}
	if activeID != 0 {
		resp.ActiveAssetID = &activeID
	}
	return resp
}

// Upload runs the pipeline and maps its result to the API envelope. The
// pipeline state is returned alongside so the controller can pick the HTTP
// status and record metrics.
func (s *service) Upload(ctx context.Context, player identity.UserInfo, fileName string, data []byte) (dto.UploadResponse, upload.State) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("dashboard"),
		logger.Op("Upload"),
	)

	result := s.pipeline.Process(ctx, player.ID, player.Handle, fileName, data)

	resp := dto.UploadResponse{
		Success: result.Accepted(),
		Message: result.Message,
	}
	if result.Accepted() {
		asset := *result.Asset
		resp.NewAsset = &asset
		log.Info("skin uploaded",
			logger.AssetID(asset.ID),
			logger.FileName(fileName),
		)
	} else {
		log.Debug("upload rejected",
			logger.String("state", string(result.State)),
			logger.FileName(fileName),
		)
	}
	return resp, result.State
}

// Apply marks an asset active and pushes it to the game side.
func (s *service) Apply(ctx context.Context, player identity.UserInfo, assetID int64) error {
	if err := s.skins.Apply(ctx, player.ID, player.Handle, assetID); err != nil {
		switch {
		case errors.Is(err, skin.ErrAssetNotFound):
			return ErrAssetNotFound
		case errors.Is(err, skin.ErrApplyFailed):
			return ErrApplyFailed
		default:
			return err
		}
	}
	return nil
}

// Delete removes an asset from the collection.
func (s *service) Delete(ctx context.Context, player identity.UserInfo, assetID int64) error {
	if err := s.skins.Delete(player.ID, assetID); err != nil {
		if errors.Is(err, skin.ErrAssetNotFound) {
			return ErrAssetNotFound
		}
		return err
	}
	return nil
}
