package encrypter

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the AES-256 key length and the minimum application key length.
	KeySize = 32

	info = "lumen-encrypter-v1"
)

// Encrypter seals and opens values with a derived AES-256-GCM key.
type Encrypter struct {
	aead cipher.AEAD
}

// New derives the encryption key from appKey. Keys prefixed with "base64:" are
// decoded before derivation.
func New(appKey string) (*Encrypter, error) {
	raw, err := ParseKey(appKey)
	if err != nil {
		return nil, err
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, raw, nil, []byte(info)), key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return &Encrypter{aead: aead}, nil
}

// ParseKey returns the raw key bytes of appKey.
func ParseKey(appKey string) ([]byte, error) {
	if appKey == "" {
		return nil, ErrMissingKey
	}
	raw := []byte(appKey)
	if encoded, ok := strings.CutPrefix(appKey, "base64:"); ok {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errors.Join(ErrMissingKey, err)
		}
		raw = decoded
	}
	if len(raw) < KeySize {
		return nil, ErrKeyTooShort
	}
	return raw, nil
}

// GenerateKey returns a random key in the "base64:" form accepted by New.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return "base64:" + base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt returns nonce followed by the sealed data.
func (e *Encrypter) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt.
func (e *Encrypter) Decrypt(ciphertext []byte) ([]byte, error) {
	n := e.aead.NonceSize()
	if len(ciphertext) < n+e.aead.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	plain, err := e.aead.Open(nil, ciphertext[:n], ciphertext[n:], nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plain, nil
}

// EncryptString encrypts s and encodes the result as unpadded URL-safe base64.
func (e *Encrypter) EncryptString(s string) (string, error) {
	ct, err := e.Encrypt([]byte(s))
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// DecryptString reverses EncryptString.
func (e *Encrypter) DecryptString(s string) (string, error) {
	ct, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	plain, err := e.Decrypt(ct)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
