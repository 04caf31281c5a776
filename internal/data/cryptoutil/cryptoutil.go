// Package cryptoutil provides the optional confidentiality layer for session tokens.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Encryptor seals and opens opaque byte payloads as cookie-safe strings.
type Encryptor interface {
	Encrypt(plaintext []byte) (string, error)
	Decrypt(ciphertext string) ([]byte, error)
}

// AESGCMEncryptor implements Encryptor using AES-256-GCM.
// Output is "v1." followed by unpadded base64url(nonce||ciphertext), which needs no cookie quoting.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

// Versioned prefix to allow future key/algorithm rotations.
const cipherPrefixV1 = "v1."

var errUnknownVersion = errors.New("unknown ciphertext version")

// NewAESGCMEncryptor constructs a new AESGCMEncryptor. Key must be 32 bytes (AES-256).
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMEncryptor{aead: aead}, nil
}

// DeriveKey turns configured key material into a 32-byte key.
// A hex string that decodes to exactly 32 bytes is used as-is; anything else is hashed with SHA-256.
func DeriveKey(material string) ([]byte, error) {
	if material == "" {
		return nil, errors.New("encryption key is required")
	}
	if decoded, err := hex.DecodeString(material); err == nil && len(decoded) == 32 {
		return decoded, nil
	}
	sum := sha256.Sum256([]byte(material))
	return sum[:], nil
}

// Encrypt encrypts plaintext with a random nonce and returns a versioned string.
func (e *AESGCMEncryptor) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, plaintext, nil)
	return cipherPrefixV1 + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a string produced by Encrypt. Any tampering yields an error.
func (e *AESGCMEncryptor) Decrypt(ciphertext string) ([]byte, error) {
	if !strings.HasPrefix(ciphertext, cipherPrefixV1) {
		return nil, errUnknownVersion
	}
	data, err := base64.RawURLEncoding.DecodeString(ciphertext[len(cipherPrefixV1):])
	if err != nil {
		return nil, fmt.Errorf("decode ciphertext: %w", err)
	}
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}
	pt, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return pt, nil
}
