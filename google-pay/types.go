package gpay

import (
	"fmt"
	"strconv"
)

type PaymentMethod string

func (m PaymentMethod) String() string {
	return string(m)
}

func (m *PaymentMethod) UnmarshalJSON(bytes []byte) error {
	str, _ := strconv.Unquote(string(bytes))
	switch PaymentMethod(str) {
	case Card:
	case TokenizedCard:
	default:
		return fmt.Errorf("payment method %v not supported", str)
	}
	*m = PaymentMethod(str)
	return nil
}

type CardNetwork string

func (n CardNetwork) String() string {
	return string(n)
}

type Environment string

func (e Environment) String() string {
	return string(e)
}

type TotalPriceStatus string

type TokenizationType string

// WalletOptions are used to construct platform payments client
type WalletOptions struct {
	Environment Environment `json:"environment"`
}

type IsReadyToPayRequest struct {
	AllowedPaymentMethods []PaymentMethod `json:"allowedPaymentMethods"`
}

type PaymentDataRequest struct {
	TransactionInfo                     TransactionInfo        `json:"transactionInfo"`
	AllowedPaymentMethods               []PaymentMethod        `json:"allowedPaymentMethods"`
	CardRequirements                    CardRequirements       `json:"cardRequirements"`
	PaymentMethodTokenizationParameters TokenizationParameters `json:"paymentMethodTokenizationParameters"`
}

type TransactionInfo struct {
	TotalPriceStatus TotalPriceStatus `json:"totalPriceStatus"`
	TotalPrice       string           `json:"totalPrice"`
	CurrencyCode     string           `json:"currencyCode"`
}

type CardRequirements struct {
	AllowedCardNetworks []CardNetwork `json:"allowedCardNetworks"`
	AllowPrepaidCards   bool          `json:"allowPrepaidCards"`
}

type TokenizationParameters struct {
	TokenizationType TokenizationType  `json:"tokenizationType"`
	Parameters       map[string]string `json:"parameters"`
}

func (p TokenizationParameters) Gateway() string {
	return p.Parameters[ParameterGateway]
}

func (p TokenizationParameters) GatewayMerchantId() string {
	return p.Parameters[ParameterGatewayMerchantId]
}
