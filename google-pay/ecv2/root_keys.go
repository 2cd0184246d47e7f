package ecv2

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	TestRootKeysUrl       = "https://payments.developers.google.com/paymentmethodtoken/test/keys.json"
	ProductionRootKeysUrl = "https://payments.developers.google.com/paymentmethodtoken/keys.json"
)

// RootSigningKey is a Google root key used to sign intermediate signing keys
type RootSigningKey struct {
	Protocol   tokenProtocol  `json:"protocolVersion"`
	Expiration *Timestamp     `json:"keyExpiration,omitempty"`
	Key        *rootPublicKey `json:"keyValue"`
}

// NewRootSigningKey wraps a public key as ECv2 root signing key
func NewRootSigningKey(key *ecdsa.PublicKey, expiration time.Time) *RootSigningKey {
	out := &RootSigningKey{Protocol: EcV2, Key: &rootPublicKey{*key}}
	if !expiration.IsZero() {
		out.Expiration = &Timestamp{expiration}
	}
	return out
}

func (k *RootSigningKey) IsExpired(now time.Time) bool {
	return k.Expiration != nil && k.Expiration.Before(now)
}

type rootPublicKey struct {
	ecdsa.PublicKey
}

func (v rootPublicKey) MarshalJSON() ([]byte, error) {
	der, err := marshalPublicKey(&v.PublicKey)
	if err != nil {
		return nil, err
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(der))
}

func (v *rootPublicKey) UnmarshalJSON(bytes []byte) error {
	str := ""
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return err
	}
	key, err := parsePublicKey(data)
	if err != nil {
		return err
	}
	*v = rootPublicKey{*key}
	return nil
}

// ParseRootSigningKeys parses keys in the keys.json format published by Google
func ParseRootSigningKeys(data []byte) ([]*RootSigningKey, error) {
	res := struct {
		Keys []*RootSigningKey `json:"keys"`
	}{}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(err, "root keys parse")
	}
	return res.Keys, nil
}

// MarshalRootSigningKeys encodes keys in the keys.json format
func MarshalRootSigningKeys(keys ...*RootSigningKey) ([]byte, error) {
	return json.Marshal(struct {
		Keys []*RootSigningKey `json:"keys"`
	}{keys})
}

// LoadRootSigningKeys reads keys.json from file
func LoadRootSigningKeys(path string) ([]*RootSigningKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "root keys file read")
	}
	return ParseRootSigningKeys(data)
}

// FetchRootSigningKeys downloads keys.json, usually from TestRootKeysUrl or ProductionRootKeysUrl
func FetchRootSigningKeys(ctx context.Context, client *http.Client, url string) ([]*RootSigningKey, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "root keys fetch")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("root keys fetch: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "root keys read")
	}
	return ParseRootSigningKeys(data)
}

func filterRootKeys(keys []*RootSigningKey, protocol tokenProtocol, now time.Time) []*RootSigningKey {
	out := make([]*RootSigningKey, 0, len(keys))
	for _, key := range keys {
		if key.Protocol == protocol && !key.IsExpired(now) {
			out = append(out, key)
		}
	}
	return out
}
