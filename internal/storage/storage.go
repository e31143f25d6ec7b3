// Package storage is the binary-storage collaborator boundary. The core
// never inspects file contents; it stores bytes against an opaque key and
// exchanges keys for short-lived signed URLs at read time.
package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage is the collaborator contract consumed by the document registry.
type Storage interface {
	// Store writes bytes under a fresh opaque key and returns the key.
	Store(data []byte, fileName string, contentType string) (string, error)
	// Overwrite replaces the bytes behind an existing key.
	Overwrite(key string, data []byte) error
	// SignURL exchanges a key for a time-boxed download URL. Never cached.
	SignURL(key string, ttl time.Duration) (string, error)
}

// LocalStorage keeps blobs on the local filesystem and signs download URLs
// with an HMAC over key+expiry, verified by the public file route.
type LocalStorage struct {
	dir     string
	baseURL string
	secret  []byte
}

func NewLocalStorage(dir, baseURL, signingSecret string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), secret: []byte(signingSecret)}, nil
}

func (s *LocalStorage) Store(data []byte, fileName string, contentType string) (string, error) {
	ext := filepath.Ext(fileName)
	key := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalStorage) Overwrite(key string, data []byte) error {
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return fmt.Errorf("overwrite %s: %w", key, err)
	}
	return nil
}

func (s *LocalStorage) SignURL(key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	exp := time.Now().Add(ttl).Unix()
	sig := s.signature(key, exp)
	return fmt.Sprintf("%s/files/%s?exp=%d&sig=%s", s.baseURL, key, exp, sig), nil
}

// Open returns the on-disk path for a key after checking the signature and
// expiry produced by SignURL.
func (s *LocalStorage) Open(key string, exp string, sig string) (string, error) {
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid expiry")
	}
	if time.Now().Unix() > expUnix {
		return "", fmt.Errorf("url has expired")
	}
	expected := s.signature(key, expUnix)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", fmt.Errorf("invalid signature")
	}
	path := filepath.Join(s.dir, key)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("file not found")
	}
	return path, nil
}

func (s *LocalStorage) signature(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
