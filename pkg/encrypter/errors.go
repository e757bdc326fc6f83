package encrypter

import "errors"

var (
	ErrMissingKey          = errors.New("encrypter: application key is empty")
	ErrKeyTooShort         = errors.New("encrypter: application key must be at least 32 bytes")
	ErrKeyDerivationFailed = errors.New("encrypter: key derivation failed")
	ErrEncryptionFailed    = errors.New("encrypter: encryption failed")
	ErrDecryptionFailed    = errors.New("encrypter: decryption failed")
	ErrInvalidCiphertext   = errors.New("encrypter: invalid ciphertext")
)
