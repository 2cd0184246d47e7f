//go:generate mockgen -destination=mock_gpay/mock_gpay.go -package=mock_gpay github.com/nooize/paysdk/google-pay PaymentsClient,Host

package gpay

import (
	"strings"
	"time"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// RequestCode correlates host results with tokenization started by Integration
	RequestCode = 0xAB1D

	ResultOK       = -1
	ResultCanceled = 0
	ResultError    = 1

	Card          PaymentMethod = "CARD"
	TokenizedCard PaymentMethod = "TOKENIZED_CARD"

	CardNetworkAmex       CardNetwork = "AMEX"
	CardNetworkDiscover   CardNetwork = "DISCOVER"
	CardNetworkJcb        CardNetwork = "JCB"
	CardNetworkVisa       CardNetwork = "VISA"
	CardNetworkMastercard CardNetwork = "MASTERCARD"

	EnvironmentProduction Environment = "PRODUCTION"
	EnvironmentTest       Environment = "TEST"

	TotalPriceStatusFinal TotalPriceStatus = "FINAL"

	TokenizationTypePaymentGateway TokenizationType = "PAYMENT_GATEWAY"

	ParameterGateway           = "gateway"
	ParameterGatewayMerchantId = "gatewayMerchantId"

	DefaultGateway             = "yandexcheckout"
	DefaultAvailabilityTimeout = 10 * time.Second
)

var (
	ErrPaymentOptionNotFound = errors.New("payment option not found in loaded options")
	ErrMissingResultData     = errors.New("result data is absent")
	ErrMissingPaymentData    = errors.New("payment data is absent")
	ErrMissingPaymentToken   = errors.New("payment method token is absent")
	ErrNoPendingRequest      = errors.New("no tokenization request is pending")
	ErrRequestReset          = errors.New("tokenization request was reset")
)

// PaymentsClient is the platform wallet client. Callbacks may be invoked on any goroutine.
type PaymentsClient interface {
	IsReadyToPay(request IsReadyToPayRequest, done func(ready *bool, err error))
	// LoadPaymentData completes with *ResolvableError when the host has to show wallet UI
	LoadPaymentData(request PaymentDataRequest, done func(err error))
}

// ClientProvider builds payments client for the wallet options
type ClientProvider func(WalletOptions) (PaymentsClient, error)

// Host is the UI surface able to resolve wallet interaction.
// The outcome comes back through HandleTokenization with the same request code.
type Host interface {
	StartForResult(resolution Resolution, requestCode int)
}

// HostFunc adapts a function to Host
type HostFunc func(resolution Resolution, requestCode int)

func (f HostFunc) StartForResult(resolution Resolution, requestCode int) {
	f(resolution, requestCode)
}

// IOption is the interface option functions used when create new integration instance
type IOption func(*Integration) error

// New creates Google Pay integration for the shop
func New(shopId string, provider ClientProvider, loadedOptions paysdk.LoadedPaymentOptionsGateway, options ...IOption) (*Integration, error) {
	g := &Integration{
		shopId:              strings.TrimSpace(shopId),
		gateway:             DefaultGateway,
		environment:         EnvironmentProduction,
		loadedOptions:       loadedOptions,
		availabilityTimeout: DefaultAvailabilityTimeout,
		log:                 zap.NewNop(),
		now:                 time.Now,
	}
	for _, option := range options {
		if err := option(g); err != nil {
			return nil, err
		}
	}
	switch {
	case len(g.shopId) == 0:
		return nil, errors.New("shop id not defined")
	case provider == nil:
		return nil, errors.New("payments client provider not defined")
	case loadedOptions == nil:
		return nil, errors.New("loaded payment options gateway not defined")
	case g.availabilityTimeout <= 0:
		return nil, errors.New("availability timeout should be positive")
	}
	if g.metrics == nil {
		g.metrics = newMetrics()
	}
	client, err := provider(WalletOptions{Environment: g.environment})
	if err != nil {
		return nil, errors.Wrap(err, "payments client")
	}
	if client == nil {
		return nil, errors.New("payments client provider returned nil client")
	}
	g.client = client
	return g, nil
}

// UseTestEnvironment option switches wallet to the test environment
func UseTestEnvironment(test bool) IOption {
	return func(g *Integration) error {
		if test {
			g.environment = EnvironmentTest
		} else {
			g.environment = EnvironmentProduction
		}
		return nil
	}
}

// Gateway option overrides payment gateway identifier
func Gateway(gateway string) IOption {
	return func(g *Integration) error {
		gateway = strings.TrimSpace(gateway)
		if len(gateway) == 0 {
			return errors.New("gateway is empty")
		}
		g.gateway = gateway
		return nil
	}
}

// AvailabilityTimeout option overrides time CheckGooglePayAvailable waits for the wallet
func AvailabilityTimeout(d time.Duration) IOption {
	return func(g *Integration) error {
		g.availabilityTimeout = d
		return nil
	}
}

// Logger option sets logger, nop logger is used by default
func Logger(log *zap.Logger) IOption {
	return func(g *Integration) error {
		if log == nil {
			return errors.New("logger is nil")
		}
		g.log = log.Named("gpay")
		return nil
	}
}

// Registerer option registers integration metrics
func Registerer(reg prometheus.Registerer) IOption {
	return func(g *Integration) error {
		m := newMetrics()
		if err := m.register(reg); err != nil {
			return errors.Wrap(err, "metrics register")
		}
		g.metrics = m
		return nil
	}
}

// Clock option replaces time source of request timestamps
func Clock(now func() time.Time) IOption {
	return func(g *Integration) error {
		g.now = now
		return nil
	}
}

var _ paysdk.CheckGooglePayAvailableGateway = (*Integration)(nil)
