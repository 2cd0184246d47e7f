package gpay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nooize/paysdk"
)

// Request is the context of one tokenization, valid from StartTokenization
// until its result is handled or the integration is reset
type Request struct {
	Id                        string
	PaymentOptionId           int
	RecurringPaymentsPossible bool
	Charge                    paysdk.Amount
	StartedAt                 time.Time

	once   sync.Once
	done   chan struct{}
	result TokenizationResult
	err    error
}

func newRequest(paymentOptionId int, recurringPaymentsPossible bool, charge paysdk.Amount, now time.Time) *Request {
	return &Request{
		Id:                        uuid.NewString(),
		PaymentOptionId:           paymentOptionId,
		RecurringPaymentsPossible: recurringPaymentsPossible,
		Charge:                    charge,
		StartedAt:                 now,
		done:                      make(chan struct{}),
	}
}

func (r *Request) resolve(result TokenizationResult, err error) {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.result, r.err = result, err
		close(r.done)
	})
}

// Done is closed once the request got its outcome
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the request outcome is known or ctx is done
func (r *Request) Wait(ctx context.Context) (TokenizationResult, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
