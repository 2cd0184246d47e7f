package gpay

import "fmt"

// Resolution is an opaque platform handle the host uses to resolve user interaction
type Resolution interface{}

// ResolvableError is reported by PaymentsClient when the user has to interact with the wallet
type ResolvableError struct {
	Resolution Resolution
	Status     Status
}

func (e *ResolvableError) Error() string {
	return fmt.Sprintf("resolution required: %s", e.Status.Message)
}

// ResultData is the payload the host delivers together with a result code
type ResultData struct {
	PaymentData *PaymentData `json:"paymentData,omitempty"`
	Status      *Status      `json:"status,omitempty"`
}

func (d *ResultData) statusMessage() string {
	if d == nil || d.Status == nil {
		return ""
	}
	return d.Status.Message
}

type PaymentData struct {
	PaymentMethodToken  *PaymentMethodToken `json:"paymentMethodToken,omitempty"`
	GoogleTransactionId string              `json:"googleTransactionId"`
}

type PaymentMethodToken struct {
	TokenizationType TokenizationType `json:"tokenizationType"`
	Token            string           `json:"token"`
}

type Status struct {
	Code    int    `json:"statusCode"`
	Message string `json:"statusMessage,omitempty"`
}

// TokenizationResult is one of TokenizationSuccess, TokenizationCanceled or NotHandled
type TokenizationResult interface {
	isTokenizationResult()
}

// GooglePayInfo is the tokenized payment option passed on to the charge pipeline
type GooglePayInfo struct {
	PaymentMethodToken  string `json:"paymentMethodToken"`
	GoogleTransactionId string `json:"googleTransactionId"`
}

type TokenizationSuccess struct {
	PaymentOptionId           int           `json:"paymentOptionId"`
	RecurringPaymentsPossible bool          `json:"recurringPaymentsPossible"`
	PaymentOptionInfo         GooglePayInfo `json:"paymentOptionInfo"`
}

type TokenizationCanceled struct{}

type NotHandled struct{}

func (TokenizationSuccess) isTokenizationResult()  {}
func (TokenizationCanceled) isTokenizationResult() {}
func (NotHandled) isTokenizationResult()           {}
