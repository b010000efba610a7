package crypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/masc-mcp/masc-mcp/internal/crypto"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	hexKey, err := crypto.GenerateKeyHex()
	require.NoError(t, err)
	require.Len(t, hexKey, 64)
	key, err := hex.DecodeString(hexKey)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	type payload struct {
		Name string `json:"name"`
	}
	env, err := crypto.EncryptJSON(key, payload{Name: "agent-a"}, "room:test")
	require.NoError(t, err)
	require.True(t, env.Encrypted)

	var out payload
	require.NoError(t, crypto.DecryptEnvelope(key, env, &out))
	require.Equal(t, "agent-a", out.Name)
}

func TestDecryptWrongKeyFails(t *testing.T) {
	key := testKey(t)
	other := testKey(t)
	env, err := crypto.EncryptJSON(key, map[string]string{"a": "b"}, "")
	require.NoError(t, err)

	var out map[string]string
	err = crypto.DecryptEnvelope(other, env, &out)
	require.ErrorIs(t, err, crypto.ErrDecrypt)
}

func TestIsEncryptedJSON(t *testing.T) {
	require.True(t, crypto.IsEncryptedJSON([]byte(`{"encrypted":true,"v":1,"nonce":"x","ct":"y"}`)))
	require.False(t, crypto.IsEncryptedJSON([]byte(`{"name":"plain"}`)))
	require.False(t, crypto.IsEncryptedJSON([]byte(`not json`)))
}

func TestGetStatus(t *testing.T) {
	require.False(t, crypto.GetStatus(nil).Enabled)
	key := testKey(t)
	status := crypto.GetStatus(key)
	require.True(t, status.Enabled)
}
