package ecv2

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

const (
	// Minimum tag size in bytes. This provides minimum 80-bit security strength.
	minTagSizeInBytes = uint32(10)
	tagDigestSize     = uint32(32)

	symmetricKeySize = 32
	macKeySize       = 32
)

func constructSignedData(args ...string) []byte {
	res := make([]byte, 0)
	for _, v := range args {
		vBytes := []byte(v)
		lBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(lBytes, uint32(len(vBytes)))
		res = append(res, lBytes...)
		res = append(res, vBytes...)
	}
	return res
}

func computeHKDF(key []byte, salt []byte, info []byte, tagSize uint32) ([]byte, error) {
	if tagSize > 255*tagDigestSize {
		return nil, errors.New("tag size too big")
	}
	if tagSize < minTagSizeInBytes {
		return nil, errors.New("tag size too small")
	}

	if len(salt) == 0 {
		salt = make([]byte, sha256.New().Size())
	}

	result := make([]byte, tagSize)
	kdf := hkdf.New(sha256.New, key, salt, info)
	n, err := io.ReadFull(kdf, result)
	if n != len(result) || err != nil {
		return nil, errors.New("compute of hkdf failed")
	}

	return result, nil
}

// deriveKeys returns symmetric encryption key and mac key
// derived from ephemeral public key and ECDH shared secret
func deriveKeys(ephemeralPublicKey []byte, sharedSecret []byte) (symmetricKey []byte, macKey []byte, err error) {
	ikm := append(append(make([]byte, 0, len(ephemeralPublicKey)+len(sharedSecret)), ephemeralPublicKey...), sharedSecret...)
	derived, err := computeHKDF(ikm, make([]byte, 32), []byte(GoogleSenderId), symmetricKeySize+macKeySize)
	if err != nil {
		return nil, nil, err
	}
	return derived[:symmetricKeySize], derived[symmetricKeySize:], nil
}

// sharedSecret computes ECDH secret of the private key and uncompressed public point
func sharedSecret(private *ecdsa.PrivateKey, publicPoint []byte) ([]byte, error) {
	priv, err := private.ECDH()
	if err != nil {
		return nil, errors.Wrap(err, "private key is not suitable for ECDH")
	}
	pub, err := unmarshalPublicPoint(publicPoint)
	if err != nil {
		return nil, err
	}
	secret, err := priv.ECDH(pub)
	if err != nil {
		return nil, errors.Wrap(err, "ECDH")
	}
	return secret, nil
}

func unmarshalPublicPoint(data []byte) (*ecdh.PublicKey, error) {
	pub, err := ecdh.P256().NewPublicKey(data)
	if err == nil {
		return pub, nil
	}
	// http://docs.oasis-open.org/pkcs11/pkcs11-curr/v2.40/os/pkcs11-curr-v2.40-os.html#_ftn1
	// PKCS#11 v2.20 specified that the CKA_EC_POINT was to be store in a DER-encoded
	// OCTET STRING.
	var point asn1.RawValue
	if _, aErr := asn1.Unmarshal(data, &point); aErr == nil && len(point.Bytes) > 0 {
		if pub, err = ecdh.P256().NewPublicKey(point.Bytes); err == nil {
			return pub, nil
		}
	}
	return nil, errors.Wrap(err, "invalid ephemeral public key")
}

// aesCtr encrypts or decrypts data with zero IV
func aesCtr(key []byte, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, make([]byte, aes.BlockSize)).XORKeyStream(out, data)
	return out, nil
}

func computeTag(macKey []byte, encrypted []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(encrypted)
	return mac.Sum(nil)
}

func parsePublicKey(data []byte) (*ecdsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(data)
	if err != nil {
		return nil, errors.New("failed to parse ECDSA public key")
	}
	publicKey, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.New("not a ECDSA public key")
	}
	return publicKey, nil
}

func marshalPublicKey(key *ecdsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "marshal public key")
	}
	return der, nil
}

func sign(key *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)
	return ecdsa.SignASN1(rand.Reader, key, hash[:])
}

func verifySignature(key *ecdsa.PublicKey, data []byte, signature []byte) error {
	hash := sha256.Sum256(data)
	if !ecdsa.VerifyASN1(key, hash[:], signature) {
		return errors.New("invalid signature")
	}
	return nil
}
