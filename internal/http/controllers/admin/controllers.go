package admin

import svc "github.com/zeroends/skinhub/internal/http/services/admin"

// Controllers groups the internal API controllers.
type Controllers struct {
	Pin    *PinController
	Revoke *RevokeController
}

// NewControllers wires the internal API controllers to the service.
func NewControllers(s svc.Service) *Controllers {
	return &Controllers{
		Pin:    NewPinController(s),
		Revoke: NewRevokeController(s),
	}
}
