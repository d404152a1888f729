package dashboard

import svc "github.com/zeroends/skinhub/internal/http/services/dashboard"

// Controllers groups the dashboard controllers.
type Controllers struct {
	Data   *DataController
	Upload *UploadController
	Apply  *ApplyController
	Delete *DeleteController
}

// NewControllers wires the dashboard controllers to the service.
func NewControllers(s svc.Service, uploadDeps UploadControllerDeps) *Controllers {
	return &Controllers{
		Data:   NewDataController(s),
		Upload: NewUploadController(s, uploadDeps),
		Apply:  NewApplyController(s),
		Delete: NewDeleteController(s),
	}
}
