package cryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// EncryptedPrefix marks a config value holding an encrypted secret.
const EncryptedPrefix = "enc:"

var ErrEmptyPassphrase = errors.New("empty passphrase")

func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// EncryptString encrypts value with a key and IV derived from passphrase and
// returns it in the "enc:<base64>" form accepted by DecryptString.
func EncryptString(value, passphrase string) (string, error) {
	if strings.TrimSpace(passphrase) == "" {
		return "", ErrEmptyPassphrase
	}
	key, iv := PassphraseToDefaultKeyAndIV([]byte(passphrase), nil)
	encrypted, err := EncryptBytes([]byte(value), key, iv)
	if err != nil {
		return "", err
	}
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptString reverses EncryptString. Values without the prefix are returned as is.
func DecryptString(value, passphrase string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	if strings.TrimSpace(passphrase) == "" {
		return "", ErrEmptyPassphrase
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}
	key, iv := PassphraseToDefaultKeyAndIV([]byte(passphrase), nil)
	plain, err := DecryptBytes(raw, key, iv)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func EncryptBytes(input, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	cfb := cipher.NewCFBEncrypter(block, iv)
	ciphertext := make([]byte, len(input))
	cfb.XORKeyStream(ciphertext, input)
	return ciphertext, nil
}

func DecryptBytes(ciphertext, key, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	cfb := cipher.NewCFBDecrypter(block, iv)
	plaintext := make([]byte, len(ciphertext))
	cfb.XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

// PassphraseToDefaultKeyAndIV derives a 32 byte key and 16 byte IV the way
// OpenSSL's EVP_BytesToKey does with MD5 and a single round.
func PassphraseToDefaultKeyAndIV(data, salt []byte) ([]byte, []byte) {
	hashList := make([]byte, 0, 48)
	preHash := append(append([]byte{}, data...), salt...)
	currentHash := md5.Sum(preHash)
	hashList = append(hashList, currentHash[:]...)

	for len(hashList) < 48 {
		preHash = append(append(currentHash[:], data...), salt...)
		currentHash = md5.Sum(preHash)
		hashList = append(hashList, currentHash[:]...)
	}

	return hashList[:32], hashList[32:48]
}
