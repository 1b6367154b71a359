package utils

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

func GenerateSecureCode() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func MustGenerateSecureCode() string {
	code, err := GenerateSecureCode()
	if err != nil {
		panic("failed to generate secure code: " + err.Error())
	}
	return code
}

// sealAEAD builds the cipher from ACCOUNT_SEAL_KEY, a 64-hex-char key.
func sealAEAD() (cipher.AEAD, error) {
	keyHex := os.Getenv("ACCOUNT_SEAL_KEY")
	if keyHex == "" {
		return nil, errors.New("ACCOUNT_SEAL_KEY not configured")
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("ACCOUNT_SEAL_KEY must be 64 hex characters")
	}
	return chacha20poly1305.NewX(key)
}

// SealAccountNumber encrypts a bank account number for storage. The random
// nonce is prepended to the ciphertext and the blob is base64 encoded.
func SealAccountNumber(plain string) (string, error) {
	aead, err := sealAEAD()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenAccountNumber decrypts a value produced by SealAccountNumber.
func OpenAccountNumber(sealed string) (string, error) {
	aead, err := sealAEAD()
	if err != nil {
		return "", err
	}
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	if len(blob) < aead.NonceSize() {
		return "", errors.New("sealed value too short")
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
