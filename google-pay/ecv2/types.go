package ecv2

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	gpay "github.com/nooize/paysdk/google-pay"
)

const (
	EcV1            tokenProtocol = "ECv1"
	EcV2            tokenProtocol = "ECv2"
	EcV2SigningOnly tokenProtocol = "ECv2SigningOnly"
	GoogleSenderId                = "Google"

	PanOnly       AuthMethod = "PAN_ONLY"
	Cryptogram3ds AuthMethod = "CRYPTOGRAM_3DS"
)

// GatewayRecipientId returns recipient id of tokens sealed for a payment gateway
func GatewayRecipientId(gateway string) string {
	return "gateway:" + gateway
}

// MerchantRecipientId returns recipient id of tokens sealed for a merchant doing direct integration
func MerchantRecipientId(merchantId string) string {
	return "merchant:" + merchantId
}

// PaymentMethodToken is the decrypted content of an ECv2 signed message
type PaymentMethodToken struct {
	MessageId            string               `json:"messageId"`
	MessageExpiration    Timestamp            `json:"messageExpiration"`
	PaymentMethod        gpay.PaymentMethod   `json:"paymentMethod"`
	GatewayMerchantId    string               `json:"gatewayMerchantId,omitempty"`
	PaymentMethodDetails PaymentMethodDetails `json:"paymentMethodDetails"`
}

type PaymentMethodDetails struct {
	AuthMethod      AuthMethod `json:"authMethod"`
	Pan             string     `json:"pan"`
	ExpirationMonth time.Month `json:"expirationMonth"`
	ExpirationYear  uint       `json:"expirationYear"`
	Cryptogram      string     `json:"cryptogram,omitempty"`
	EciIndicator    string     `json:"eciIndicator,omitempty"`
}

func (t *PaymentMethodToken) HasCryptogram() bool {
	return t.PaymentMethodDetails.AuthMethod == Cryptogram3ds && len(t.PaymentMethodDetails.Cryptogram) > 0
}

func (t *PaymentMethodToken) IsExpired(now time.Time) bool {
	return !t.MessageExpiration.IsZero() && t.MessageExpiration.Before(now)
}

type AuthMethod string

func (m AuthMethod) String() string {
	return string(m)
}

func (m *AuthMethod) UnmarshalJSON(bytes []byte) error {
	str, _ := strconv.Unquote(string(bytes))
	switch AuthMethod(str) {
	case PanOnly:
	case Cryptogram3ds:
	default:
		return fmt.Errorf("token auth method %v not supported", str)
	}
	*m = AuthMethod(str)
	return nil
}

type tokenProtocol string

func (p tokenProtocol) String() string {
	return string(p)
}

func (p *tokenProtocol) UnmarshalJSON(bytes []byte) error {
	str, _ := strconv.Unquote(string(bytes))
	switch tokenProtocol(str) {
	case EcV1:
	case EcV2:
	case EcV2SigningOnly:
	default:
		return fmt.Errorf("protocol %v not supported", str)
	}
	*p = tokenProtocol(str)
	return nil
}

// Timestamp is a point in time encoded as a string of unix milliseconds
type Timestamp struct {
	time.Time
}

func (v Timestamp) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(strconv.FormatInt(v.UnixMilli(), 10))
}

func (v *Timestamp) UnmarshalJSON(bytes []byte) error {
	str := ""
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	if len(str) == 0 {
		*v = Timestamp{}
		return nil
	}
	ts, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("%s is not unix time stamp", str)
	}
	*v = Timestamp{time.UnixMilli(ts).UTC()}
	return nil
}
