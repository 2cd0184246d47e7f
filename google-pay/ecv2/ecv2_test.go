package ecv2

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nooize/paysdk"
	gpay "github.com/nooize/paysdk/google-pay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func testToken() *PaymentMethodToken {
	token := &PaymentMethodToken{
		MessageId:         "msg-1",
		MessageExpiration: Timestamp{time.Now().Add(time.Hour).Truncate(time.Millisecond).UTC()},
		PaymentMethod:     gpay.Card,
		GatewayMerchantId: "shop-42",
	}
	token.PaymentMethodDetails.AuthMethod = Cryptogram3ds
	token.PaymentMethodDetails.Pan = "4111111111111111"
	token.PaymentMethodDetails.ExpirationMonth = time.December
	token.PaymentMethodDetails.ExpirationYear = 2030
	token.PaymentMethodDetails.Cryptogram = "AAAAAA=="
	token.PaymentMethodDetails.EciIndicator = "05"
	return token
}

type fixture struct {
	sealer    *Sealer
	recipient *ecdsa.PrivateKey
	opener    *Opener
}

func newFixture(t *testing.T, sealerOptions ...SealerOption) fixture {
	sealer, err := NewSealer(newKey(t), sealerOptions...)
	require.NoError(t, err)
	recipient := newKey(t)
	opener, err := NewOpener(GatewayRecipientId("yandexcheckout"),
		PrivateKey(recipient),
		RootKeys(sealer.RootSigningKey()),
	)
	require.NoError(t, err)
	return fixture{sealer: sealer, recipient: recipient, opener: opener}
}

func TestSealOpen(t *testing.T) {
	f := newFixture(t)
	in := testToken()

	sealed, err := f.sealer.SealToken(f.opener.RecipientId(), &f.recipient.PublicKey, in)
	require.NoError(t, err)

	out, err := f.opener.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, in.MessageId, out.MessageId)
	assert.Equal(t, in.GatewayMerchantId, out.GatewayMerchantId)
	assert.Equal(t, gpay.Card, out.PaymentMethod)
	assert.Equal(t, in.PaymentMethodDetails, out.PaymentMethodDetails)
	assert.True(t, in.MessageExpiration.Equal(out.MessageExpiration.Time))
	assert.True(t, out.HasCryptogram())
}

func TestSealedTokenShape(t *testing.T) {
	f := newFixture(t)
	sealed, err := f.sealer.Seal(f.opener.RecipientId(), &f.recipient.PublicKey, []byte(`{}`))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(sealed, &doc))
	assert.Equal(t, "ECv2", doc["protocolVersion"])
	assert.IsType(t, "", doc["signature"])
	assert.IsType(t, "", doc["signedMessage"])
	key, ok := doc["intermediateSigningKey"].(map[string]interface{})
	require.True(t, ok)
	assert.IsType(t, "", key["signedKey"])
	assert.Len(t, key["signatures"], 1)
}

func TestOpenRejectsWrongRecipient(t *testing.T) {
	f := newFixture(t)
	sealed, err := f.sealer.SealToken(MerchantRecipientId("other"), &f.recipient.PublicKey, testToken())
	require.NoError(t, err)

	_, err = f.opener.Open(sealed)
	assert.Error(t, err)
}

func TestOpenRejectsWrongRecipientKey(t *testing.T) {
	f := newFixture(t)
	other := newKey(t)
	sealed, err := f.sealer.SealToken(f.opener.RecipientId(), &other.PublicKey, testToken())
	require.NoError(t, err)

	_, err = f.opener.Open(sealed)
	assert.EqualError(t, err, "encrypted message MAC is not valid")
}

func TestOpenRejectsUnknownRoot(t *testing.T) {
	f := newFixture(t)
	stranger, err := NewSealer(newKey(t))
	require.NoError(t, err)
	sealed, err := stranger.SealToken(f.opener.RecipientId(), &f.recipient.PublicKey, testToken())
	require.NoError(t, err)

	_, err = f.opener.Open(sealed)
	assert.EqualError(t, err, "invalid signature for intermediate signing key")
}

func TestOpenRejectsExpiredIntermediateKey(t *testing.T) {
	f := newFixture(t, IntermediateKeyLifetime(-time.Minute))
	sealed, err := f.sealer.SealToken(f.opener.RecipientId(), &f.recipient.PublicKey, testToken())
	require.NoError(t, err)

	_, err = f.opener.Open(sealed)
	assert.EqualError(t, err, "intermediate key is expired")
}

func TestOpenRejectsExpiredMessage(t *testing.T) {
	f := newFixture(t)
	token := testToken()
	token.MessageExpiration = Timestamp{time.Now().Add(-time.Hour)}
	sealed, err := f.sealer.SealToken(f.opener.RecipientId(), &f.recipient.PublicKey, token)
	require.NoError(t, err)

	_, err = f.opener.Open(sealed)
	assert.EqualError(t, err, "message is expired")
}

func TestOpenRejectsTamperedMessage(t *testing.T) {
	f := newFixture(t)
	sealed, err := f.sealer.SealToken(f.opener.RecipientId(), &f.recipient.PublicKey, testToken())
	require.NoError(t, err)

	req := new(encryptedToken)
	require.NoError(t, json.Unmarshal(sealed, req))
	base := req.SignedMessage.baseSignedMessage
	base.EncryptedMessage = append(paysdk.Base64Encoded{}, base.EncryptedMessage...)
	base.EncryptedMessage[0] ^= 0xff
	req.SignedMessage, err = newSignedMessage(base)
	require.NoError(t, err)
	tampered, err := json.Marshal(req)
	require.NoError(t, err)

	_, err = f.opener.Open(tampered)
	assert.Error(t, err)
}

func TestOpenValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.opener.Open([]byte(`not json`))
	assert.Error(t, err)

	_, err = f.opener.Open([]byte(`{"protocolVersion":"ECv1"}`))
	assert.EqualError(t, err, "protocol ECv1 not supported")

	_, err = f.opener.Open([]byte(`{"protocolVersion":"ECv9"}`))
	assert.Error(t, err)

	_, err = f.opener.Open([]byte(`{"protocolVersion":"ECv2"}`))
	assert.EqualError(t, err, "signature is empty")
}

func TestNewOpenerValidation(t *testing.T) {
	_, err := NewOpener("", PrivateKey(newKey(t)))
	assert.EqualError(t, err, "recipient id not defined")

	_, err = NewOpener("gateway:x")
	assert.EqualError(t, err, "recipient private key not defined")

	_, err = NewOpener("gateway:x", PrivateKey(newKey(t)))
	assert.EqualError(t, err, "root signing keys not defined")

	_, err = NewOpener("gateway:x", PemPrivateKey([]byte("nothing")))
	assert.Error(t, err)
}

func TestNewSealerValidation(t *testing.T) {
	_, err := NewSealer(nil)
	assert.EqualError(t, err, "root signing key not defined")

	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	_, err = NewSealer(p384)
	assert.EqualError(t, err, "root signing key should be P-256")

	_, err = NewSealer(newKey(t), IntermediateSigningKey(nil))
	assert.Error(t, err)
}

func TestOpenerFromFiles(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	pemKey, err := paysdk.MarshalPemEcdsaPrivateKey(f.recipient)
	require.NoError(t, err)
	keyPath := filepath.Join(dir, "recipient.pem")
	require.NoError(t, os.WriteFile(keyPath, pemKey, 0600))

	rootKeys, err := MarshalRootSigningKeys(f.sealer.RootSigningKey())
	require.NoError(t, err)
	rootPath := filepath.Join(dir, "keys.json")
	require.NoError(t, os.WriteFile(rootPath, rootKeys, 0600))

	opener, err := NewOpener(f.opener.RecipientId(), PrivateKeyLocation(keyPath), RootKeysLocation(rootPath))
	require.NoError(t, err)

	sealed, err := f.sealer.SealToken(opener.RecipientId(), &f.recipient.PublicKey, testToken())
	require.NoError(t, err)
	_, err = opener.Open(sealed)
	assert.NoError(t, err)
}

func TestRootSigningKeys(t *testing.T) {
	key := newKey(t)
	expired := NewRootSigningKey(&key.PublicKey, time.Now().Add(-time.Hour))
	live := NewRootSigningKey(&key.PublicKey, time.Time{})

	data, err := MarshalRootSigningKeys(expired, live)
	require.NoError(t, err)
	keys, err := ParseRootSigningKeys(data)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.True(t, keys[0].IsExpired(time.Now()))
	assert.False(t, keys[1].IsExpired(time.Now()))
	assert.True(t, key.PublicKey.Equal(&keys[1].Key.PublicKey))

	assert.Len(t, filterRootKeys(keys, EcV2, time.Now()), 1)
	assert.Len(t, filterRootKeys(keys, EcV1, time.Now()), 0)
}

func TestFetchRootSigningKeys(t *testing.T) {
	key := newKey(t)
	data, err := MarshalRootSigningKeys(NewRootSigningKey(&key.PublicKey, time.Time{}))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keys.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	keys, err := FetchRootSigningKeys(context.Background(), srv.Client(), srv.URL+"/keys.json")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, EcV2, keys[0].Protocol)

	_, err = FetchRootSigningKeys(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestConstructSignedData(t *testing.T) {
	assert.Equal(t,
		[]byte{6, 0, 0, 0, 'G', 'o', 'o', 'g', 'l', 'e', 2, 0, 0, 0, 'E', 'C'},
		constructSignedData("Google", "EC"),
	)
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"1577862000000"`), &ts))
	assert.Equal(t, int64(1577862000000), ts.UnixMilli())

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"1577862000000"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
