package ecv2

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"encoding/json"
	"strings"
	"time"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
)

// Opener verifies and decrypts ECv2 payment method tokens on the recipient side
type Opener struct {
	recipientId string
	privateKey  *ecdsa.PrivateKey
	rootKeys    []*RootSigningKey
	now         func() time.Time
}

type OpenerOption func(*Opener) error

// NewOpener creates opener for the recipient id, see GatewayRecipientId and MerchantRecipientId
func NewOpener(recipientId string, options ...OpenerOption) (*Opener, error) {
	o := &Opener{recipientId: strings.TrimSpace(recipientId), now: time.Now}
	for _, option := range options {
		if err := option(o); err != nil {
			return nil, err
		}
	}
	switch {
	case len(o.recipientId) == 0:
		return nil, errors.New("recipient id not defined")
	case o.privateKey == nil:
		return nil, errors.New("recipient private key not defined")
	case len(o.rootKeys) == 0:
		return nil, errors.New("root signing keys not defined")
	}
	return o, nil
}

// PrivateKey option sets recipient private key
func PrivateKey(key *ecdsa.PrivateKey) OpenerOption {
	return func(o *Opener) error {
		o.privateKey = key
		return nil
	}
}

// PemPrivateKey option sets recipient private key from pem encoded data
func PemPrivateKey(data []byte) OpenerOption {
	return func(o *Opener) error {
		key, err := paysdk.ParsePemEcdsaPrivateKey(data)
		if err != nil {
			return err
		}
		return PrivateKey(key)(o)
	}
}

// PrivateKeyLocation option sets recipient private key from pem file
func PrivateKeyLocation(path string) OpenerOption {
	return func(o *Opener) error {
		key, err := paysdk.LoadPemEcdsaPrivateKey(path)
		if err != nil {
			return err
		}
		return PrivateKey(key)(o)
	}
}

// RootKeys option appends trusted root signing keys
func RootKeys(keys ...*RootSigningKey) OpenerOption {
	return func(o *Opener) error {
		o.rootKeys = append(o.rootKeys, keys...)
		return nil
	}
}

// RootKeysLocation option appends trusted root signing keys from keys.json file
func RootKeysLocation(path string) OpenerOption {
	return func(o *Opener) error {
		keys, err := LoadRootSigningKeys(path)
		if err != nil {
			return err
		}
		return RootKeys(keys...)(o)
	}
}

// OpenerClock option replaces time source
func OpenerClock(now func() time.Time) OpenerOption {
	return func(o *Opener) error {
		o.now = now
		return nil
	}
}

func (o *Opener) RecipientId() string {
	return o.recipientId
}

// Open verifies signatures, decrypts the token and returns its content
func (o *Opener) Open(input []byte) (*PaymentMethodToken, error) {
	message, err := o.OpenMessage(input)
	if err != nil {
		return nil, err
	}
	token := new(PaymentMethodToken)
	if err := json.Unmarshal(message, token); err != nil {
		return nil, errors.Wrap(err, "decrypted message parse")
	}
	if token.IsExpired(o.now()) {
		return nil, errors.New("message is expired")
	}
	return token, nil
}

// OpenMessage verifies signatures and returns decrypted message bytes
func (o *Opener) OpenMessage(input []byte) ([]byte, error) {
	req := new(encryptedToken)
	if err := json.Unmarshal(input, req); err != nil {
		return nil, errors.Wrap(err, "token parse")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := o.now()
	if err := req.verifyIntermediateSigningKey(filterRootKeys(o.rootKeys, req.Protocol, now)); err != nil {
		return nil, err
	}
	if req.IntermediateKey.IsExpired(now) {
		return nil, errors.New("intermediate key is expired")
	}
	if err := req.verifyMessageSignature(o.recipientId); err != nil {
		return nil, err
	}

	secret, err := sharedSecret(o.privateKey, req.SignedMessage.EphemeralPublicKey)
	if err != nil {
		return nil, err
	}
	symmetricKey, macKey, err := deriveKeys(req.SignedMessage.EphemeralPublicKey, secret)
	if err != nil {
		return nil, err
	}
	if !hmac.Equal(req.SignedMessage.Tag, computeTag(macKey, req.SignedMessage.EncryptedMessage)) {
		return nil, errors.New("encrypted message MAC is not valid")
	}
	return aesCtr(symmetricKey, req.SignedMessage.EncryptedMessage)
}
