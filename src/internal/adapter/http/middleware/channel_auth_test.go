package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finpay/payments/src/internal/adapter/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashKey(t *testing.T, key string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func protectedHandler(t *testing.T, channelID string, keyHash []byte) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.ChannelAuth(channelID, keyHash)(next)
}

func TestChannelAuthAcceptsValidCredentials(t *testing.T) {
	handler := protectedHandler(t, "FinPayApp", hashKey(t, "secret-key"))

	req := httptest.NewRequest(http.MethodGet, "/transfers/abc", nil)
	req.SetBasicAuth("FinPayApp", "secret-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChannelAuthRejectsWrongKey(t *testing.T) {
	handler := protectedHandler(t, "FinPayApp", hashKey(t, "secret-key"))

	req := httptest.NewRequest(http.MethodGet, "/transfers/abc", nil)
	req.SetBasicAuth("FinPayApp", "wrong-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChannelAuthRejectsMissingCredentials(t *testing.T) {
	handler := protectedHandler(t, "FinPayApp", hashKey(t, "secret-key"))

	req := httptest.NewRequest(http.MethodGet, "/transfers/abc", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChannelAuthFailsClosedWithoutConfiguration(t *testing.T) {
	handler := protectedHandler(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/transfers/abc", nil)
	req.SetBasicAuth("FinPayApp", "secret-key")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
