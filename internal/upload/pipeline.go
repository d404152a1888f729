// Package upload runs the skin upload pipeline: local validation gates, the
// cooldown mark, the external generation call, and the collection append.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/mineskin"
	"github.com/zeroends/skinhub/internal/observability/logger"
	"github.com/zeroends/skinhub/internal/ratelimit"
)

// State is the terminal state of one upload request.
type State string

const (
	StateAccepted            State = "accepted"
	StateRateLimited         State = "rate_limited"
	StateTooLarge            State = "too_large"
	StateCollectionFull      State = "collection_full"
	StateInvalidFormat       State = "invalid_format"
	StateConfigError         State = "config_error"
	StateNetworkError        State = "network_error"
	StateUpstreamRateLimited State = "upstream_rate_limited"
	StateUpstreamRejected    State = "upstream_rejected"
	StateUpstreamError       State = "upstream_error"
	StateMalformedResponse   State = "malformed_response"
	StateDuplicateOrFull     State = "duplicate_or_full"
)

// Result is what every upload resolves to: a terminal state, a message for
// the dashboard, and the new asset on acceptance.
type Result struct {
	State   State
	Message string
	Asset   *collection.Asset
}

// Accepted reports whether the upload went through.
func (r Result) Accepted() bool { return r.State == StateAccepted }

// Generator is the slice of the mineskin client the pipeline needs.
type Generator interface {
	Generate(ctx context.Context, name, fileName string, data []byte) (*mineskin.Skin, error)
}

// Persister triggers a non-blocking save of the collection snapshot.
type Persister interface {
	SaveAsync(data map[identity.ID]collection.Collection)
}

// Config holds the upload policy.
type Config struct {
	MaxFileSize  int64 // bytes
	Require64x64 bool
}

// Pipeline validates, rate limits and submits uploads.
type Pipeline struct {
	cfg       Config
	cooldown  *ratelimit.Cooldown
	store     *collection.Store
	generator Generator
	persister Persister
	log       *zap.Logger
}

// New creates a Pipeline.
func New(cfg Config, cooldown *ratelimit.Cooldown, store *collection.Store, generator Generator, persister Persister) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		cooldown:  cooldown,
		store:     store,
		generator: generator,
		persister: persister,
		log:       logger.Named("upload"),
	}
}

// Process runs one upload to a terminal state. The external call is the only
// blocking stage and is bounded by the generator's timeout; callers run
// Process from their own goroutine (the HTTP handler's, in practice).
//
// Gate order is load-bearing: every local rejection must happen before any
// external cost, and the cooldown mark is set eagerly so concurrent retries
// cannot ride through a slow upstream call.
func (p *Pipeline) Process(ctx context.Context, id identity.ID, handle, fileName string, data []byte) Result {
	log := p.log.With(logger.Identity(id.String()), logger.Handle(handle), logger.FileName(fileName))

	if p.cooldown.Blocked(id) {
		return p.rateLimited(id)
	}

	if int64(len(data)) > p.cfg.MaxFileSize {
		return Result{
			State:   StateTooLarge,
			Message: fmt.Sprintf("File size exceeds %d KB limit.", p.cfg.MaxFileSize/1024),
		}
	}

	if p.store.Size(id) >= p.store.MaxSize() {
		return Result{
			State:   StateCollectionFull,
			Message: fmt.Sprintf("Skin collection is full (max %d).", p.store.MaxSize()),
		}
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Result{State: StateInvalidFormat, Message: "Invalid skin file (must be a PNG)."}
	}
	if p.cfg.Require64x64 && (cfg.Width != 64 || cfg.Height != 64) {
		return Result{State: StateInvalidFormat, Message: "Invalid skin file (must be 64x64)."}
	}

	// Last local gate before incurring external cost.
	if !p.cooldown.CheckAndMark(id) {
		return p.rateLimited(id)
	}

	name := strings.TrimSuffix(fileName, ".png")
	skin, err := p.generator.Generate(ctx, name, fileName, data)
	if err != nil {
		return p.classify(log, err)
	}

	asset := collection.Asset{
		Name:      skin.Name,
		ID:        time.Now().UnixMilli(),
		Texture:   skin.Texture,
		Signature: skin.Signature,
	}

	if err := p.store.Add(id, asset); err != nil {
		// Duplicate texture, or the collection filled up while the
		// external call was in flight.
		return Result{State: StateDuplicateOrFull, Message: "Failed to add skin to collection (duplicate?)."}
	}

	p.persister.SaveAsync(p.store.Snapshot())
	log.Info("skin uploaded", logger.AssetID(asset.ID))
	return Result{State: StateAccepted, Message: "Skin uploaded successfully!", Asset: &asset}
}

func (p *Pipeline) rateLimited(id identity.ID) Result {
	wait := p.cooldown.Remaining(id).Round(time.Second)
	return Result{
		State:   StateRateLimited,
		Message: fmt.Sprintf("Please wait %s before uploading again.", wait),
	}
}

func (p *Pipeline) classify(log *zap.Logger, err error) Result {
	var serr *mineskin.UpstreamStatusError
	switch {
	case errors.Is(err, mineskin.ErrMissingAPIKey):
		log.Error("generation service key not configured")
		return Result{State: StateConfigError, Message: "Generation service API key is not configured."}
	case errors.Is(err, mineskin.ErrUpstreamRateLimited):
		return Result{State: StateUpstreamRateLimited, Message: "Rate limit hit. Please wait and try again."}
	case errors.Is(err, mineskin.ErrUpstreamRejected):
		return Result{State: StateUpstreamRejected, Message: "API rejected: invalid file format or missing API key."}
	case errors.Is(err, mineskin.ErrMalformedResponse):
		return Result{State: StateMalformedResponse, Message: "Failed to parse API response."}
	case errors.As(err, &serr):
		return Result{
			State:   StateUpstreamError,
			Message: fmt.Sprintf("API error (%d): %s", serr.Status, serr.Snippet),
		}
	default:
		log.Warn("generation request failed", logger.Err(err))
		return Result{State: StateNetworkError, Message: "Network error while contacting the generation service."}
	}
}
