// Package sandbox is an in-process Google Pay wallet for the test environment.
// It asks the host to resolve every payment data request and issues ECv2 tokens
// sealed for the payment gateway.
package sandbox

import (
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/google/uuid"
	gpay "github.com/nooize/paysdk/google-pay"
	"github.com/nooize/paysdk/google-pay/ecv2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	StatusResolutionRequired = 6
	StatusDeveloperError     = 10
	StatusCanceled           = 16

	DefaultMessageLifetime = time.Hour
)

var ErrUnknownResolution = errors.New("unknown or already resolved resolution")

// Resolution is handed to the host when user interaction is required
type Resolution struct {
	Id string
}

// Card is the test card put into issued tokens
type Card struct {
	Pan             string
	ExpirationMonth time.Month
	ExpirationYear  uint
	Cryptogram      string
	EciIndicator    string
}

var DefaultCard = Card{
	Pan:             "4111111111111111",
	ExpirationMonth: time.December,
	ExpirationYear:  2030,
	Cryptogram:      "AgAAAAAABk4DWZ4C28yUQAAAAAA=",
	EciIndicator:    "05",
}

type Client struct {
	sealer          *ecv2.Sealer
	gatewayKey      *ecdsa.PublicKey
	available       bool
	card            Card
	messageLifetime time.Duration
	log             *zap.Logger
	now             func() time.Time

	mu      sync.Mutex
	pending map[string]gpay.PaymentDataRequest
}

type Option func(*Client) error

// New creates sandbox wallet sealing tokens with sealer for the gateway public key
func New(sealer *ecv2.Sealer, gatewayKey *ecdsa.PublicKey, options ...Option) (*Client, error) {
	c := &Client{
		sealer:          sealer,
		gatewayKey:      gatewayKey,
		available:       true,
		card:            DefaultCard,
		messageLifetime: DefaultMessageLifetime,
		log:             zap.NewNop(),
		now:             time.Now,
		pending:         make(map[string]gpay.PaymentDataRequest),
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	switch {
	case c.sealer == nil:
		return nil, errors.New("sealer not defined")
	case c.gatewayKey == nil:
		return nil, errors.New("gateway public key not defined")
	}
	return c, nil
}

// Available option sets IsReadyToPay answer
func Available(available bool) Option {
	return func(c *Client) error {
		c.available = available
		return nil
	}
}

// WithCard option replaces the test card
func WithCard(card Card) Option {
	return func(c *Client) error {
		if len(card.Pan) == 0 {
			return errors.New("card pan is empty")
		}
		c.card = card
		return nil
	}
}

func Logger(log *zap.Logger) Option {
	return func(c *Client) error {
		if log == nil {
			return errors.New("logger is nil")
		}
		c.log = log.Named("sandbox")
		return nil
	}
}

// Provider returns gpay.ClientProvider refusing production environment
func (c *Client) Provider() gpay.ClientProvider {
	return func(options gpay.WalletOptions) (gpay.PaymentsClient, error) {
		if options.Environment != gpay.EnvironmentTest {
			return nil, errors.Errorf("sandbox wallet does not serve %s environment", options.Environment)
		}
		return c, nil
	}
}

func (c *Client) IsReadyToPay(request gpay.IsReadyToPayRequest, done func(*bool, error)) {
	ready := c.available && len(request.AllowedPaymentMethods) > 0
	go done(&ready, nil)
}

func (c *Client) LoadPaymentData(request gpay.PaymentDataRequest, done func(error)) {
	if err := validate(request); err != nil {
		c.log.Debug("payment data request rejected", zap.Error(err))
		go done(errors.Wrap(err, "developer error"))
		return
	}
	id := uuid.NewString()
	c.mu.Lock()
	c.pending[id] = request
	c.mu.Unlock()
	go done(&gpay.ResolvableError{
		Resolution: Resolution{Id: id},
		Status:     gpay.Status{Code: StatusResolutionRequired, Message: "RESOLUTION_REQUIRED"},
	})
}

func validate(request gpay.PaymentDataRequest) error {
	params := request.PaymentMethodTokenizationParameters
	switch {
	case len(request.AllowedPaymentMethods) == 0:
		return errors.New("no allowed payment methods")
	case len(request.CardRequirements.AllowedCardNetworks) == 0:
		return errors.New("no allowed card networks")
	case params.TokenizationType != gpay.TokenizationTypePaymentGateway:
		return errors.Errorf("tokenization type %s not supported", params.TokenizationType)
	case len(params.Gateway()) == 0:
		return errors.New("gateway not defined")
	case len(params.GatewayMerchantId()) == 0:
		return errors.New("gateway merchant id not defined")
	case len(request.TransactionInfo.CurrencyCode) != 3:
		return errors.Errorf("invalid currency code %q", request.TransactionInfo.CurrencyCode)
	}
	price, err := decimal.NewFromString(request.TransactionInfo.TotalPrice)
	if err != nil {
		return errors.Wrap(err, "invalid total price")
	}
	if price.IsNegative() {
		return errors.New("total price is negative")
	}
	return nil
}

// Resolve plays the wallet UI for the resolution and returns what the host
// delivers to its result handler
func (c *Client) Resolve(resolution gpay.Resolution, approve bool) (int, *gpay.ResultData, error) {
	r, ok := resolution.(Resolution)
	if !ok {
		return 0, nil, errors.Errorf("foreign resolution %T", resolution)
	}
	c.mu.Lock()
	request, ok := c.pending[r.Id]
	delete(c.pending, r.Id)
	c.mu.Unlock()
	if !ok {
		return 0, nil, ErrUnknownResolution
	}

	if !approve {
		return gpay.ResultCanceled, &gpay.ResultData{
			Status: &gpay.Status{Code: StatusCanceled, Message: "CANCELED"},
		}, nil
	}

	params := request.PaymentMethodTokenizationParameters
	token := &ecv2.PaymentMethodToken{
		MessageId:         uuid.NewString(),
		MessageExpiration: ecv2.Timestamp{Time: c.now().Add(c.messageLifetime)},
		PaymentMethod:     gpay.Card,
		GatewayMerchantId: params.GatewayMerchantId(),
	}
	token.PaymentMethodDetails = ecv2.PaymentMethodDetails{
		AuthMethod:      ecv2.Cryptogram3ds,
		Pan:             c.card.Pan,
		ExpirationMonth: c.card.ExpirationMonth,
		ExpirationYear:  c.card.ExpirationYear,
		Cryptogram:      c.card.Cryptogram,
		EciIndicator:    c.card.EciIndicator,
	}
	sealed, err := c.sealer.SealToken(ecv2.GatewayRecipientId(params.Gateway()), c.gatewayKey, token)
	if err != nil {
		return gpay.ResultError, &gpay.ResultData{
			Status: &gpay.Status{Code: StatusDeveloperError, Message: err.Error()},
		}, nil
	}
	return gpay.ResultOK, &gpay.ResultData{
		PaymentData: &gpay.PaymentData{
			PaymentMethodToken: &gpay.PaymentMethodToken{
				TokenizationType: gpay.TokenizationTypePaymentGateway,
				Token:            string(sealed),
			},
			GoogleTransactionId: uuid.NewString(),
		},
	}, nil
}
