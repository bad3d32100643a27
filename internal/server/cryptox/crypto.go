// Package cryptox encrypts the cafeteria credentials stored per user.
// Keys are derived from the operator's master password with a per-user salt,
// so a database dump alone is not enough to recover third-party passwords.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/argon2"
)

// DeriveKey derives a 32-byte AES key from the master password and salt.
func DeriveKey(masterPassword []byte, salt []byte) []byte {
	return argon2.IDKey(masterPassword, salt, 1, 64*1024, 4, 32)
}

// EncryptSecret encrypts the plaintext using AES-GCM. A new random 12-byte
// nonce is generated for each encryption; the ciphertext and nonce are
// returned separately.
func EncryptSecret(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptSecret reverses EncryptSecret. The key must be the same key used to
// encrypt, and the nonce the one returned alongside the ciphertext.
func DecryptSecret(ciphertext, nonce, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return aesgcm.Open(nil, nonce, ciphertext, nil)
}
