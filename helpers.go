package paysdk

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/nooize/go-assist"
	"github.com/pkg/errors"
)

func ParsePemPrivateKey(bytes []byte) (crypto.PrivateKey, error) {
	pool := append(make([]byte, 0), bytes...)
	for {
		block, rest := pem.Decode(pool)
		if block == nil {
			break
		}
		switch block.Type {
		case "PRIVATE KEY", "EC PRIVATE KEY":
			return assist.ParseX509PrivateKey(block.Bytes)
		}
		pool = rest
	}
	return nil, fmt.Errorf("no private key found")
}

func LoadPemPrivateKey(path string) (crypto.PrivateKey, error) {
	if len(path) == 0 {
		return nil, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePemPrivateKey(bytes)
}

// ParsePemEcdsaPrivateKey parses the first private key found in pem encoded data
// and ensures it is an ECDSA key
func ParsePemEcdsaPrivateKey(bytes []byte) (*ecdsa.PrivateKey, error) {
	return verifyEcdsaPrivateKey(ParsePemPrivateKey(bytes))
}

// LoadPemEcdsaPrivateKey reads ECDSA private key from pem file
func LoadPemEcdsaPrivateKey(path string) (*ecdsa.PrivateKey, error) {
	if len(path) == 0 {
		return nil, errors.New("private key location not defined")
	}
	return verifyEcdsaPrivateKey(LoadPemPrivateKey(path))
}

// MarshalPemEcdsaPrivateKey encodes key as PKCS8 "PRIVATE KEY" pem block
func MarshalPemEcdsaPrivateKey(key *ecdsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, errors.Wrap(err, "marshal private key")
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

func verifyEcdsaPrivateKey(key crypto.PrivateKey, err error) (*ecdsa.PrivateKey, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to parse ECDSA private key: %s", err.Error())
	}
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("not a ECDSA private key")
	}
	return privateKey, nil
}
