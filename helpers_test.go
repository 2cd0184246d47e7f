package paysdk

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcdsaPrivateKeyPem(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	data, err := MarshalPemEcdsaPrivateKey(key)
	require.NoError(t, err)

	parsed, err := ParsePemEcdsaPrivateKey(data)
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, data, 0600))
	loaded, err := LoadPemEcdsaPrivateKey(path)
	require.NoError(t, err)
	assert.True(t, key.Equal(loaded))
}

func TestParsePemPrivateKeyNoKey(t *testing.T) {
	_, err := ParsePemPrivateKey([]byte("garbage"))
	assert.Error(t, err)

	_, err = LoadPemEcdsaPrivateKey("")
	assert.Error(t, err)

	key, err := LoadPemPrivateKey("")
	assert.NoError(t, err)
	assert.Nil(t, key)
}

func TestBase64Encoded(t *testing.T) {
	var v Base64Encoded
	require.NoError(t, v.UnmarshalJSON([]byte(`"aGVsbG8="`)))
	assert.Equal(t, "hello", string(v))
	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"aGVsbG8="`, string(out))
}
