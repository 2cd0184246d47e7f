package sandbox

import (
	gpay "github.com/nooize/paysdk/google-pay"
	"go.uber.org/zap"
)

// Host resolves wallet interaction without UI and delivers the outcome
// through the dispatcher, the way an activity result would arrive
type Host struct {
	client     *Client
	dispatcher *gpay.Dispatcher
	approve    bool
	log        *zap.Logger
}

func NewHost(client *Client, dispatcher *gpay.Dispatcher, approve bool) *Host {
	return &Host{client: client, dispatcher: dispatcher, approve: approve, log: client.log}
}

func (h *Host) StartForResult(resolution gpay.Resolution, requestCode int) {
	go func() {
		resultCode, data, err := h.client.Resolve(resolution, h.approve)
		if err != nil {
			h.log.Warn("resolution failed", zap.Error(err))
			resultCode, data = gpay.ResultError, &gpay.ResultData{
				Status: &gpay.Status{Code: StatusDeveloperError, Message: err.Error()},
			}
		}
		handled, err := h.dispatcher.Dispatch(requestCode, resultCode, data)
		switch {
		case !handled:
			h.log.Warn("result not handled", zap.Int("requestCode", requestCode))
		case err != nil:
			h.log.Warn("result handler failed", zap.Error(err))
		}
	}()
}
