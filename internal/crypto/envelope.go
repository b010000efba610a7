// Package crypto implements the at-rest encryption envelope for values
// written through storage.Backend: AES-256-GCM via the standard library
// crypto/aes and crypto/cipher packages.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidKey is returned when a key is not 32 bytes (AES-256).
var ErrInvalidKey = errors.New("crypto: key must be 32 bytes")

// ErrDecrypt is returned when decryption fails: wrong key, tampered
// ciphertext, or tampered associated data.
var ErrDecrypt = errors.New("crypto: decryption failed")

// envelopeVersion is the schema version tag carried in every Envelope.
const envelopeVersion = 1

// Envelope is the at-rest shape of an encrypted value.
type Envelope struct {
	Encrypted bool   `json:"encrypted"`
	Version   int    `json:"v"`
	Nonce     string `json:"nonce"`
	Ciphertext string `json:"ct"`
	AssociatedData string `json:"adata,omitempty"`
}

func gcmFor(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// EncryptJSON marshals v to JSON and seals it under key, returning the
// Envelope that should be persisted in place of the plaintext bytes.
func EncryptJSON(key []byte, v any, associatedData string) (Envelope, error) {
	gcm, err := gcmFor(key)
	if err != nil {
		return Envelope{}, err
	}
	plaintext, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, fmt.Errorf("crypto: generating nonce: %w", err)
	}
	ct := gcm.Seal(nil, nonce, plaintext, []byte(associatedData))
	return Envelope{
		Encrypted:      true,
		Version:        envelopeVersion,
		Nonce:          base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:     base64.StdEncoding.EncodeToString(ct),
		AssociatedData: associatedData,
	}, nil
}

// DecryptEnvelope opens env under key and unmarshals the recovered
// plaintext into out.
func DecryptEnvelope(key []byte, env Envelope, out any) error {
	gcm, err := gcmFor(key)
	if err != nil {
		return err
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return fmt.Errorf("%w: bad nonce encoding", ErrDecrypt)
	}
	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return fmt.Errorf("%w: bad ciphertext encoding", ErrDecrypt)
	}
	plaintext, err := gcm.Open(nil, nonce, ct, []byte(env.AssociatedData))
	if err != nil {
		return ErrDecrypt
	}
	return json.Unmarshal(plaintext, out)
}

// IsEncryptedJSON reports whether data is a JSON object carrying
// "encrypted": true, i.e. an Envelope rather than a plain value.
func IsEncryptedJSON(data []byte) bool {
	var probe struct {
		Encrypted bool `json:"encrypted"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Encrypted
}

// GenerateKeyHex returns a fresh random 32-byte AES-256 key, hex-encoded.
func GenerateKeyHex() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("crypto: generating key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// Status summarizes whether encryption is configured and active.
type Status struct {
	Enabled bool `json:"enabled"`
	Version int  `json:"version,omitempty"`
}

// GetStatus reports Status for the given configured key (nil/empty means
// disabled).
func GetStatus(key []byte) Status {
	if len(key) != 32 {
		return Status{Enabled: false}
	}
	return Status{Enabled: true, Version: envelopeVersion}
}
