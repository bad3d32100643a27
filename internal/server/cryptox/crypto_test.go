package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaehyuklim/lunchpilot/internal/common"
)

func TestEncryptSecret_RoundTrip(t *testing.T) {
	salt := common.GenerateRandByteArray(32)
	key := DeriveKey([]byte("master"), salt)

	ciphertext, nonce, err := EncryptSecret([]byte("cafeteria-pw"), key)
	require.NoError(t, err)
	require.NotEmpty(t, ciphertext)
	require.Len(t, nonce, 12)

	plaintext, err := DecryptSecret(ciphertext, nonce, key)
	require.NoError(t, err)
	assert.Equal(t, "cafeteria-pw", string(plaintext))
}

func TestDecryptSecret_WrongKeyFails(t *testing.T) {
	salt := common.GenerateRandByteArray(32)
	key := DeriveKey([]byte("master"), salt)

	ciphertext, nonce, err := EncryptSecret([]byte("cafeteria-pw"), key)
	require.NoError(t, err)

	otherKey := DeriveKey([]byte("other"), salt)
	_, err = DecryptSecret(ciphertext, nonce, otherKey)
	assert.Error(t, err)
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey([]byte("master"), salt)
	k2 := DeriveKey([]byte("master"), salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	k3 := DeriveKey([]byte("master"), []byte("fedcba9876543210"))
	assert.NotEqual(t, k1, k3)
}
