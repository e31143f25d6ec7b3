package storage

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8088", "test-secret")
	require.NoError(t, err)
	return s
}

func signedParams(t *testing.T, rawURL string) (key, exp, sig string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	parts := strings.Split(u.Path, "/")
	return parts[len(parts)-1], u.Query().Get("exp"), u.Query().Get("sig")
}

func TestStoreAndSignedDownload(t *testing.T) {
	s := newTestStorage(t)

	key, err := s.Store([]byte("hello"), "report.pdf", "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	signed, err := s.SignURL(key, 5*time.Minute)
	require.NoError(t, err)

	gotKey, exp, sig := signedParams(t, signed)
	assert.Equal(t, key, gotKey)

	path, err := s.Open(gotKey, exp, sig)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestOpenRejectsExpiredURL(t *testing.T) {
	s := newTestStorage(t)
	key, err := s.Store([]byte("x"), "a.txt", "text/plain")
	require.NoError(t, err)

	signed, err := s.SignURL(key, -time.Minute)
	require.NoError(t, err)
	gotKey, exp, sig := signedParams(t, signed)

	_, err = s.Open(gotKey, exp, sig)
	assert.ErrorContains(t, err, "expired")
}

func TestOpenRejectsBadSignature(t *testing.T) {
	s := newTestStorage(t)
	key, err := s.Store([]byte("x"), "a.txt", "text/plain")
	require.NoError(t, err)

	exp := fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix())
	_, err = s.Open(key, exp, "deadbeef")
	assert.ErrorContains(t, err, "signature")
}

func TestOverwriteReplacesBytes(t *testing.T) {
	s := newTestStorage(t)
	key, err := s.Store([]byte("v1"), "a.txt", "text/plain")
	require.NoError(t, err)
	require.NoError(t, s.Overwrite(key, []byte("v2")))

	signed, err := s.SignURL(key, time.Minute)
	require.NoError(t, err)
	gotKey, exp, sig := signedParams(t, signed)
	path, err := s.Open(gotKey, exp, sig)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	s := newTestStorage(t)
	exp := fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix())
	_, err := s.Open("../secrets", exp, "sig")
	assert.Error(t, err)
}
