package oauth2

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptLabel = "httpcraft-oauth2-token-store"
	scryptSalt  = "httpcraft-fixed-salt-v1"
	scryptN     = 1 << 15
	scryptR     = 8
	scryptP     = 1
	aesKeyLen   = 32
)

// fileStore persists one token per cache key as a hex `iv:ciphertext`
// file under $HOME/.config/httpcraft/tokens/<cacheKey>.json, encrypted
// with AES-256-CBC using a key derived by scrypt from a fixed label+salt.
// Read/write errors are swallowed — per the TokenStore contract, an
// unreadable or unwritable file just behaves as absent.
type fileStore struct {
	dir string
	key []byte
}

func newFileStore() (*fileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".config", "httpcraft", "tokens")
	key, err := scrypt.Key([]byte(scryptLabel), []byte(scryptSalt), scryptN, scryptR, scryptP, aesKeyLen)
	if err != nil {
		return nil, err
	}
	return &fileStore{dir: dir, key: key}, nil
}

func (s *fileStore) path(cacheKey string) string {
	return filepath.Join(s.dir, cacheKey+".json")
}

func (s *fileStore) Load(cacheKey string) (*Token, bool) {
	raw, err := os.ReadFile(s.path(cacheKey))
	if err != nil {
		return nil, false
	}
	plaintext, err := s.decrypt(string(raw))
	if err != nil {
		return nil, false
	}
	var tok Token
	if err := json.Unmarshal(plaintext, &tok); err != nil {
		return nil, false
	}
	return &tok, true
}

func (s *fileStore) Save(cacheKey string, tok *Token) error {
	plaintext, err := json.Marshal(tok)
	if err != nil {
		return nil // swallow: absent is an acceptable degraded state
	}
	ciphertext, err := s.encrypt(plaintext)
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil
	}
	_ = os.WriteFile(s.path(cacheKey), []byte(ciphertext), 0o600)
	return nil
}

func (s *fileStore) Delete(cacheKey string) {
	_ = os.Remove(s.path(cacheKey))
}

// encrypt returns "iv:ciphertext", both hex-encoded.
func (s *fileStore) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad(plaintext, block.BlockSize())

	iv := make([]byte, block.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

func (s *fileStore) decrypt(encoded string) ([]byte, error) {
	ivHex, ctHex, ok := splitOnce(encoded, ':')
	if !ok {
		return nil, errors.New("malformed token file")
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return nil, err
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, errors.New("invalid ciphertext length")
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext)
}

func splitOnce(s string, sep byte) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen)
	}
	return append(data, padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, errors.New("invalid padding")
	}
	return data[:len(data)-padLen], nil
}
