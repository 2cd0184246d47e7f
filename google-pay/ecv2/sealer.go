package ecv2

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"time"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
)

const DefaultIntermediateKeyLifetime = 24 * time.Hour

// Sealer issues ECv2 payment method tokens the way Google Pay does.
// It is used by the sandbox wallet and in tests, never in production flows.
type Sealer struct {
	rootKey         *ecdsa.PrivateKey
	intermediateKey *ecdsa.PrivateKey
	keyLifetime     time.Duration
	now             func() time.Time
}

type SealerOption func(*Sealer) error

// NewSealer creates a sealer signing intermediate keys with the root key
func NewSealer(rootKey *ecdsa.PrivateKey, options ...SealerOption) (*Sealer, error) {
	s := &Sealer{
		rootKey:     rootKey,
		keyLifetime: DefaultIntermediateKeyLifetime,
		now:         time.Now,
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	switch {
	case s.rootKey == nil:
		return nil, errors.New("root signing key not defined")
	case s.rootKey.Curve != elliptic.P256():
		return nil, errors.New("root signing key should be P-256")
	}
	if s.intermediateKey == nil {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, errors.Wrap(err, "intermediate key generate")
		}
		s.intermediateKey = key
	}
	return s, nil
}

// IntermediateSigningKey option sets key used to sign messages
func IntermediateSigningKey(key *ecdsa.PrivateKey) SealerOption {
	return func(s *Sealer) error {
		if key == nil {
			return errors.New("intermediate signing key is nil")
		}
		s.intermediateKey = key
		return nil
	}
}

// IntermediateKeyLifetime option sets expiration of the intermediate key relative to sealing time,
// negative lifetime produces already expired keys
func IntermediateKeyLifetime(d time.Duration) SealerOption {
	return func(s *Sealer) error {
		s.keyLifetime = d
		return nil
	}
}

// SealerClock option replaces time source
func SealerClock(now func() time.Time) SealerOption {
	return func(s *Sealer) error {
		s.now = now
		return nil
	}
}

// RootSigningKey returns public part of the root key in the form openers consume
func (s *Sealer) RootSigningKey() *RootSigningKey {
	return NewRootSigningKey(&s.rootKey.PublicKey, time.Time{})
}

// SealToken encrypts the token for the recipient
func (s *Sealer) SealToken(recipientId string, recipientKey *ecdsa.PublicKey, token *PaymentMethodToken) ([]byte, error) {
	message, err := json.Marshal(token)
	if err != nil {
		return nil, errors.Wrap(err, "token marshal")
	}
	return s.Seal(recipientId, recipientKey, message)
}

// Seal encrypts message for the recipient and signs it with intermediate key
func (s *Sealer) Seal(recipientId string, recipientKey *ecdsa.PublicKey, message []byte) ([]byte, error) {
	if recipientKey == nil {
		return nil, errors.New("recipient key not defined")
	}

	key, err := newSignedKey(&s.intermediateKey.PublicKey, s.now().Add(s.keyLifetime))
	if err != nil {
		return nil, err
	}
	keySignature, err := sign(s.rootKey, constructSignedData(GoogleSenderId, string(EcV2), key.Raw()))
	if err != nil {
		return nil, errors.Wrap(err, "intermediate key sign")
	}

	recipient, err := recipientKey.ECDH()
	if err != nil {
		return nil, errors.Wrap(err, "recipient key is not suitable for ECDH")
	}
	ephemeral, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "ephemeral key generate")
	}
	secret, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, errors.Wrap(err, "ECDH")
	}
	ephemeralBytes := ephemeral.PublicKey().Bytes()
	symmetricKey, macKey, err := deriveKeys(ephemeralBytes, secret)
	if err != nil {
		return nil, err
	}
	encrypted, err := aesCtr(symmetricKey, message)
	if err != nil {
		return nil, err
	}
	signed, err := newSignedMessage(baseSignedMessage{
		EncryptedMessage:   encrypted,
		EphemeralPublicKey: ephemeralBytes,
		Tag:                computeTag(macKey, encrypted),
	})
	if err != nil {
		return nil, err
	}

	signature, err := sign(s.intermediateKey, constructSignedData(GoogleSenderId, recipientId, string(EcV2), signed.Raw()))
	if err != nil {
		return nil, errors.Wrap(err, "message sign")
	}

	return json.Marshal(&encryptedToken{
		Protocol:  EcV2,
		Signature: signature,
		IntermediateKey: intermediateKey{
			Key:        key,
			Signatures: []paysdk.Base64Encoded{keySignature},
		},
		SignedMessage: signed,
	})
}
