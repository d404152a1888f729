package dashboard

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	httperrors "github.com/zeroends/skinhub/internal/http/errors"
	mw "github.com/zeroends/skinhub/internal/http/middlewares"
	svc "github.com/zeroends/skinhub/internal/http/services/dashboard"
	"github.com/zeroends/skinhub/internal/observability/logger"
	"github.com/zeroends/skinhub/internal/upload"
)

// UploadFieldName is the multipart form field carrying the skin file.
const UploadFieldName = "skinFile"

// UploadControllerDeps configures the upload controller.
type UploadControllerDeps struct {
	// MaxFileSize caps the accepted file, mirroring the pipeline's own check
	// so oversized bodies are rejected before buffering.
	MaxFileSize int64
	// RecordOutcome, when set, is called once per attempt for metrics.
	RecordOutcome func(outcome string, duration time.Duration)
}

// UploadController handles POST /api/dashboard/upload.
type UploadController struct {
	service svc.Service
	deps    UploadControllerDeps
}

// NewUploadController creates a new upload controller.
func NewUploadController(service svc.Service, deps UploadControllerDeps) *UploadController {
	if deps.MaxFileSize <= 0 {
		deps.MaxFileSize = 1 << 20
	}
	return &UploadController{service: service, deps: deps}
}

// Upload reads the multipart skin file and runs it through the pipeline.
// The multipart part must declare Content-Type image/png.
func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UploadController.Upload"))

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	// Multipart framing adds a little overhead on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, c.deps.MaxFileSize+(64<<10))
	if err := r.ParseMultipartForm(c.deps.MaxFileSize); err != nil {
		httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(UploadFieldName)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing skinFile field"))
		return
	}
	defer file.Close()

	if !isPNGPart(header) {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("skinFile must be image/png"))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, c.deps.MaxFileSize+1))
	if err != nil {
		log.Error("reading upload failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	player := mw.MustGetPlayer(ctx)
	start := time.Now()
	resp, state := c.service.Upload(ctx, player, header.Filename, data)
	if c.deps.RecordOutcome != nil {
		c.deps.RecordOutcome(string(state), time.Since(start))
	}

	httperrors.WriteJSON(w, uploadStatus(state), resp)
}

// isPNGPart checks the declared content type of the multipart part.
func isPNGPart(header *multipart.FileHeader) bool {
	ct := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	return ct == "image/png"
}

// uploadStatus maps a pipeline state to an HTTP status code. The body always
// carries the success flag, so the status is advisory for the frontend.
func uploadStatus(state upload.State) int {
	switch state {
	case upload.StateAccepted:
		return http.StatusOK
	case upload.StateRateLimited, upload.StateUpstreamRateLimited:
		return http.StatusTooManyRequests
	case upload.StateTooLarge:
		return http.StatusRequestEntityTooLarge
	case upload.StateCollectionFull, upload.StateDuplicateOrFull:
		return http.StatusConflict
	case upload.StateInvalidFormat:
		return http.StatusBadRequest
	case upload.StateUpstreamRejected:
		return http.StatusUnprocessableEntity
	case upload.StateConfigError:
		return http.StatusServiceUnavailable
	case upload.StateNetworkError, upload.StateUpstreamError, upload.StateMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
