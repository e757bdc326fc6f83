package encrypter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rangka/lumen/pkg/encrypter"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty key", func(t *testing.T) {
		_, err := encrypter.New("")
		require.ErrorIs(t, err, encrypter.ErrMissingKey)
	})

	t.Run("short key", func(t *testing.T) {
		_, err := encrypter.New("short")
		require.ErrorIs(t, err, encrypter.ErrKeyTooShort)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := encrypter.New("base64:***")
		require.ErrorIs(t, err, encrypter.ErrMissingKey)
	})

	t.Run("generated key", func(t *testing.T) {
		key, err := encrypter.GenerateKey()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "base64:"))

		raw, err := encrypter.ParseKey(key)
		require.NoError(t, err)
		assert.Len(t, raw, encrypter.KeySize)

		_, err = encrypter.New(key)
		require.NoError(t, err)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()

	enc, err := encrypter.New(testKey)
	require.NoError(t, err)

	t.Run("bytes", func(t *testing.T) {
		ct, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)
		assert.NotContains(t, string(ct), "payload")

		plain, err := enc.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(plain))
	})

	t.Run("nonce differs per call", func(t *testing.T) {
		a, err := enc.EncryptString("same")
		require.NoError(t, err)
		b, err := enc.EncryptString("same")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("string is url safe", func(t *testing.T) {
		ct, err := enc.EncryptString(strings.Repeat("x", 100))
		require.NoError(t, err)
		assert.NotContains(t, ct, "+")
		assert.NotContains(t, ct, "/")
		assert.NotContains(t, ct, "=")

		plain, err := enc.DecryptString(ct)
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("x", 100), plain)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		ct, err := enc.Encrypt([]byte("payload"))
		require.NoError(t, err)
		ct[len(ct)-1] ^= 0xff
		_, err = enc.Decrypt(ct)
		require.ErrorIs(t, err, encrypter.ErrDecryptionFailed)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		_, err := enc.Decrypt([]byte("short"))
		require.ErrorIs(t, err, encrypter.ErrInvalidCiphertext)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := enc.DecryptString("!!!")
		require.ErrorIs(t, err, encrypter.ErrInvalidCiphertext)
	})

	t.Run("other key cannot decrypt", func(t *testing.T) {
		other, err := encrypter.New(strings.Repeat("z", 32))
		require.NoError(t, err)
		ct, err := enc.EncryptString("secret")
		require.NoError(t, err)
		_, err = other.DecryptString(ct)
		require.ErrorIs(t, err, encrypter.ErrDecryptionFailed)
	})
}
