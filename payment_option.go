package paysdk

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Amount is a charge value in a currency
type Amount struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// NewAmount parses decimal value and upper cased ISO 4217 currency code
func NewAmount(value string, currency string) (Amount, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}, errors.Wrap(err, "invalid amount value")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return Amount{}, fmt.Errorf("invalid currency code %q", currency)
	}
	return Amount{Value: v, Currency: currency}, nil
}

// PlainValue renders the value without exponent, e.g. "10.50"
func (a Amount) PlainValue() string {
	return a.Value.String()
}

func (a Amount) String() string {
	return a.PlainValue() + " " + a.Currency
}

// PaymentOption is one of the options loaded for the current payment
type PaymentOption struct {
	ID     int    `json:"id"`
	Charge Amount `json:"charge"`
}

// LoadedPaymentOptionsGateway gives access to payment options loaded earlier in the payment flow
type LoadedPaymentOptionsGateway interface {
	LoadedPaymentOptions() []PaymentOption
}

// CheckGooglePayAvailableGateway is used by the option list loader to decide
// whether Google Pay option should be offered
type CheckGooglePayAvailableGateway interface {
	CheckGooglePayAvailable() bool
}

// PaymentOptions is a static LoadedPaymentOptionsGateway
type PaymentOptions []PaymentOption

func (o PaymentOptions) LoadedPaymentOptions() []PaymentOption {
	return o
}

// FindPaymentOption returns the option with the given id
func FindPaymentOption(options []PaymentOption, id int) (PaymentOption, bool) {
	for _, option := range options {
		if option.ID == id {
			return option, true
		}
	}
	return PaymentOption{}, false
}
