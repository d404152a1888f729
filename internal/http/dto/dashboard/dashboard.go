// Package dashboard contains request/response types for the skin dashboard.
package dashboard

import "github.com/zeroends/skinhub/internal/collection"

// DataResponse is the body of GET /api/dashboard/data.
type DataResponse struct {
	Success       bool               `json:"success"`
	Handle        string             `json:"handle"`
	Assets        []collection.Asset `json:"assets"`
	ActiveAssetID *int64             `json:"activeSkinId,omitempty"`
	MaxAssets     int                `json:"maxAssets"`
}

// UploadResponse is the body returned by POST /api/dashboard/upload.
type UploadResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	NewAsset *collection.Asset `json:"newAsset,omitempty"`
}

// ApplyRequest is the body of POST /api/dashboard/apply.
type ApplyRequest struct {
	AssetID int64 `json:"assetId"`
}

// DeleteRequest is the body of POST /api/dashboard/delete.
type DeleteRequest struct {
	AssetID int64 `json:"assetId"`
}

// ActionResponse is the generic envelope for apply and delete.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
