package gpay

import (
	"context"
	"sync"
	"time"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Integration wraps the platform wallet client: availability check,
// tokenization of a loaded payment option and translation of host results.
// At most one tokenization is in flight.
type Integration struct {
	shopId              string
	gateway             string
	environment         Environment
	client              PaymentsClient
	loadedOptions       paysdk.LoadedPaymentOptionsGateway
	availabilityTimeout time.Duration
	log                 *zap.Logger
	metrics             *metrics
	now                 func() time.Time

	mu      sync.Mutex
	pending *Request
}

func (g *Integration) ShopId() string {
	return g.shopId
}

func (g *Integration) Environment() Environment {
	return g.environment
}

// CheckGooglePayAvailable blocks up to the availability timeout waiting for the wallet answer
func (g *Integration) CheckGooglePayAvailable() bool {
	return g.CheckAvailable(context.Background())
}

// CheckAvailable is CheckGooglePayAvailable bounded by ctx as well
func (g *Integration) CheckAvailable(ctx context.Context) bool {
	request := IsReadyToPayRequest{
		AllowedPaymentMethods: []PaymentMethod{Card, TokenizedCard},
	}
	result := make(chan bool, 1)
	g.client.IsReadyToPay(request, func(ready *bool, err error) {
		if err != nil {
			g.log.Debug("is ready to pay failed", zap.Error(err))
		}
		select {
		case result <- err == nil && ready != nil && *ready:
		default:
		}
	})

	timer := time.NewTimer(g.availabilityTimeout)
	defer timer.Stop()
	select {
	case ready := <-result:
		if ready {
			g.metrics.availabilityChecked("available")
		} else {
			g.metrics.availabilityChecked("unavailable")
		}
		return ready
	case <-timer.C:
		g.log.Warn("is ready to pay timed out", zap.Duration("timeout", g.availabilityTimeout))
		g.metrics.availabilityChecked("timeout")
		return false
	case <-ctx.Done():
		g.metrics.availabilityChecked("canceled")
		return false
	}
}

// Pending returns request awaiting its result, nil when idle
func (g *Integration) Pending() *Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// StartTokenization asks the wallet to tokenize the loaded payment option.
// While another request is pending the call does nothing and returns the pending request.
// When the wallet needs user interaction the host is asked to resolve it with RequestCode.
func (g *Integration) StartTokenization(host Host, paymentOptionId int, recurringPaymentsPossible bool) (*Request, error) {
	if host == nil {
		return nil, errors.New("host not defined")
	}

	g.mu.Lock()
	if g.pending != nil {
		pending := g.pending
		g.mu.Unlock()
		g.log.Debug("tokenization already in progress", zap.String("request", pending.Id))
		return pending, nil
	}
	option, ok := paysdk.FindPaymentOption(g.loadedOptions.LoadedPaymentOptions(), paymentOptionId)
	if !ok {
		g.mu.Unlock()
		return nil, errors.Wrapf(ErrPaymentOptionNotFound, "payment option %d", paymentOptionId)
	}
	request := newRequest(paymentOptionId, recurringPaymentsPossible, option.Charge, g.now())
	g.pending = request
	g.mu.Unlock()

	g.log.Debug("tokenization started",
		zap.String("request", request.Id),
		zap.Int("paymentOptionId", paymentOptionId),
		zap.Stringer("charge", option.Charge),
	)
	g.client.LoadPaymentData(g.paymentDataRequest(option), func(err error) {
		var resolvable *ResolvableError
		switch {
		case errors.As(err, &resolvable):
			host.StartForResult(resolvable.Resolution, RequestCode)
		case err != nil:
			g.log.Debug("load payment data failed", zap.String("request", request.Id), zap.Error(err))
		}
	})
	return request, nil
}

func (g *Integration) paymentDataRequest(option paysdk.PaymentOption) PaymentDataRequest {
	return PaymentDataRequest{
		TransactionInfo: TransactionInfo{
			TotalPriceStatus: TotalPriceStatusFinal,
			TotalPrice:       option.Charge.PlainValue(),
			CurrencyCode:     option.Charge.Currency,
		},
		AllowedPaymentMethods: []PaymentMethod{TokenizedCard},
		CardRequirements: CardRequirements{
			AllowedCardNetworks: []CardNetwork{
				CardNetworkAmex,
				CardNetworkDiscover,
				CardNetworkJcb,
				CardNetworkVisa,
				CardNetworkMastercard,
			},
			AllowPrepaidCards: false,
		},
		PaymentMethodTokenizationParameters: TokenizationParameters{
			TokenizationType: TokenizationTypePaymentGateway,
			Parameters: map[string]string{
				ParameterGateway:           g.gateway,
				ParameterGatewayMerchantId: g.shopId,
			},
		},
	}
}

// HandleTokenization translates host result into TokenizationResult.
// Results with a foreign request code are NotHandled and leave the state untouched.
// Broken success payloads and success without pending request are reported as errors.
func (g *Integration) HandleTokenization(requestCode int, resultCode int, data *ResultData) (TokenizationResult, error) {
	if requestCode != RequestCode {
		return NotHandled{}, nil
	}

	g.mu.Lock()
	request := g.pending
	g.pending = nil
	g.mu.Unlock()

	if resultCode != ResultOK {
		g.log.Debug("google pay result", zap.Int("resultCode", resultCode), zap.String("status", data.statusMessage()))
		result := TokenizationCanceled{}
		request.resolve(result, nil)
		g.metrics.tokenization("canceled")
		return result, nil
	}

	if request == nil {
		g.metrics.tokenization("failed")
		return nil, ErrNoPendingRequest
	}
	paymentData, err := extractPaymentData(data)
	if err != nil {
		request.resolve(nil, err)
		g.metrics.tokenization("failed")
		return nil, err
	}
	result := TokenizationSuccess{
		PaymentOptionId:           request.PaymentOptionId,
		RecurringPaymentsPossible: request.RecurringPaymentsPossible,
		PaymentOptionInfo: GooglePayInfo{
			PaymentMethodToken:  paymentData.PaymentMethodToken.Token,
			GoogleTransactionId: paymentData.GoogleTransactionId,
		},
	}
	request.resolve(result, nil)
	g.metrics.tokenization("success")
	return result, nil
}

func extractPaymentData(data *ResultData) (*PaymentData, error) {
	switch {
	case data == nil:
		return nil, ErrMissingResultData
	case data.PaymentData == nil:
		return nil, ErrMissingPaymentData
	case data.PaymentData.PaymentMethodToken == nil:
		return nil, ErrMissingPaymentToken
	}
	return data.PaymentData, nil
}

// Handler returns result handler to register in Dispatcher under RequestCode
func (g *Integration) Handler() ResultHandler {
	return func(resultCode int, data *ResultData) error {
		_, err := g.HandleTokenization(RequestCode, resultCode, data)
		return err
	}
}

// Reset forgets the pending request, e.g. when the host went away without result.
// The wallet request itself can not be canceled.
func (g *Integration) Reset() {
	g.mu.Lock()
	request := g.pending
	g.pending = nil
	g.mu.Unlock()
	request.resolve(nil, ErrRequestReset)
}
