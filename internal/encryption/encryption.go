package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Key derivation parameters
	SaltSize   = 32
	KeySize    = 32
	Iterations = 100000

	// Prefix marks a sealed value so plaintext written before encryption was
	// switched on still reads back.
	Prefix = "enc:"
)

// Encryptor seals and opens record notes.
type Encryptor struct {
	key []byte
}

// NewEncryptor derives a key from password and the salt stored under dataDir.
func NewEncryptor(password, dataDir string) (*Encryptor, error) {
	if password == "" {
		return nil, errors.New("empty passphrase")
	}
	salt, err := getOrCreateSalt(filepath.Join(dataDir, "salt"))
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
	return &Encryptor{key: key}, nil
}

func getOrCreateSalt(saltPath string) ([]byte, error) {
	if salt, err := os.ReadFile(saltPath); err == nil && len(salt) == SaltSize {
		return salt, nil
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(saltPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}
	if err := os.WriteFile(saltPath, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write salt file: %w", err)
	}
	return salt, nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt returns Prefix + base64(nonce|ciphertext). Empty input stays empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return Prefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt. Values without Prefix are
// returned unchanged.
func (e *Encryptor) Decrypt(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, Prefix))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, body := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func IsEncrypted(text string) bool {
	return strings.HasPrefix(text, Prefix)
}
