// Package encrypter encrypts values with AES-256-GCM under a key derived from
// the application key.
//
// The 32-byte encryption key is derived with HKDF-SHA-256, so APP_KEY may be
// any high-entropy string. A "base64:" prefix is decoded first. Ciphertext
// carries its nonce in front of the sealed data, and string helpers use
// URL-safe base64 so values fit into cookies unchanged.
//
// # Usage
//
//	enc, err := encrypter.New(cfg.Key)
//	if err != nil {
//		return err
//	}
//	token, _ := enc.EncryptString("session-id")
//	plain, err := enc.DecryptString(token)
//
// Errors wrap ErrEncryptionFailed, ErrDecryptionFailed or ErrInvalidCiphertext.
package encrypter
