package ecv2

import (
	"crypto/ecdsa"
	"encoding/json"
	"strings"
	"time"

	"github.com/nooize/paysdk"
	"github.com/pkg/errors"
)

type encryptedToken struct {
	Protocol        tokenProtocol        `json:"protocolVersion"`
	Signature       paysdk.Base64Encoded `json:"signature"`
	IntermediateKey intermediateKey      `json:"intermediateSigningKey"`
	SignedMessage   signedMessage        `json:"signedMessage"`
}

func (v *encryptedToken) validate() error {
	switch {
	case v.Protocol != EcV2:
		return errors.Errorf("protocol %s not supported", v.Protocol)
	case len(v.Signature) == 0:
		return errors.New("signature is empty")
	case len(v.IntermediateKey.Key.Value) == 0:
		return errors.New("intermediate signed key value is empty")
	case len(v.IntermediateKey.Signatures) == 0:
		return errors.New("intermediate key signatures is empty")
	case len(v.SignedMessage.Tag) == 0:
		return errors.New("signed message tag is empty")
	case len(v.SignedMessage.EphemeralPublicKey) == 0:
		return errors.New("ephemeral public key is empty")
	case len(v.SignedMessage.EncryptedMessage) == 0:
		return errors.New("encrypted message is empty")
	}
	return nil
}

func (v *encryptedToken) verifyIntermediateSigningKey(rootKeys []*RootSigningKey) error {
	data := constructSignedData(
		GoogleSenderId,
		string(v.Protocol),
		v.IntermediateKey.Key.Raw(),
	)
	for _, rootKey := range rootKeys {
		if rootKey.Protocol != v.Protocol || rootKey.Key == nil {
			continue
		}
		for _, signature := range v.IntermediateKey.Signatures {
			if err := verifySignature(&rootKey.Key.PublicKey, data, signature); err == nil {
				return nil
			}
		}
	}
	return errors.New("invalid signature for intermediate signing key")
}

func (v *encryptedToken) verifyMessageSignature(recipient string) error {
	publicKey, err := parsePublicKey(v.IntermediateKey.Key.Value)
	if err != nil {
		return err
	}
	data := constructSignedData(
		GoogleSenderId,
		recipient,
		string(v.Protocol),
		strings.ReplaceAll(v.SignedMessage.Raw(), "\\u003d", "="),
	)
	if err := verifySignature(publicKey, data, v.Signature); err != nil {
		return errors.Wrap(err, "invalid message signature")
	}
	return nil
}

type intermediateKey struct {
	Key        signedKey              `json:"signedKey"`
	Signatures []paysdk.Base64Encoded `json:"signatures"`
}

func (v intermediateKey) IsExpired(now time.Time) bool {
	return v.Key.Expiration != nil && v.Key.Expiration.Before(now)
}

type baseSignedKey struct {
	Value      paysdk.Base64Encoded `json:"keyValue"`
	Expiration *Timestamp           `json:"keyExpiration,omitempty"`
}

// signedKey is transferred as a json document encoded into a json string,
// the raw string is what the signatures cover
type signedKey struct {
	baseSignedKey
	raw string
}

func newSignedKey(key *ecdsa.PublicKey, expiration time.Time) (signedKey, error) {
	der, err := marshalPublicKey(key)
	if err != nil {
		return signedKey{}, err
	}
	base := baseSignedKey{Value: der, Expiration: &Timestamp{expiration}}
	raw, err := json.Marshal(base)
	if err != nil {
		return signedKey{}, err
	}
	return signedKey{baseSignedKey: base, raw: string(raw)}, nil
}

func (v *signedKey) Raw() string {
	return v.raw
}

func (v signedKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *signedKey) UnmarshalJSON(bytes []byte) error {
	if err := json.Unmarshal(bytes, &v.raw); err != nil {
		return err
	}
	return json.Unmarshal([]byte(v.raw), &v.baseSignedKey)
}

type baseSignedMessage struct {
	EncryptedMessage   paysdk.Base64Encoded `json:"encryptedMessage"`
	EphemeralPublicKey paysdk.Base64Encoded `json:"ephemeralPublicKey"`
	Tag                paysdk.Base64Encoded `json:"tag"`
}

type signedMessage struct {
	baseSignedMessage
	raw string
}

func newSignedMessage(base baseSignedMessage) (signedMessage, error) {
	raw, err := json.Marshal(base)
	if err != nil {
		return signedMessage{}, err
	}
	return signedMessage{baseSignedMessage: base, raw: string(raw)}, nil
}

func (v *signedMessage) Raw() string {
	return v.raw
}

func (v signedMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *signedMessage) UnmarshalJSON(bytes []byte) error {
	if err := json.Unmarshal(bytes, &v.raw); err != nil {
		return err
	}
	return json.Unmarshal([]byte(v.raw), &v.baseSignedMessage)
}
