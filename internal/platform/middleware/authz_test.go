// Copyright (c) 2026 Satori HQ. All rights reserved.

package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satori-hq/nft-series/internal/platform/sec"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return sec.NewTokenServiceFromKeys(key, "satori-hq.io")
}

func captureCaller(got **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*got = GetCaller(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_InjectsCaller(t *testing.T) {
	service := newTokenService(t)
	signed, err := service.GenerateAccessToken("alice", time.Minute)
	require.NoError(t, err)

	var caller *sec.AuthClaims
	handler := Authenticate(service)(captureCaller(&caller))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer "+signed)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, caller)
	assert.Equal(t, "alice", caller.AccountID)
}

func TestAuthenticate_AnonymousPassesThrough(t *testing.T) {
	var caller *sec.AuthClaims
	handler := Authenticate(newTokenService(t))(captureCaller(&caller))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, caller)
}

func TestAuthenticate_RejectsBadHeader(t *testing.T) {
	var caller *sec.AuthClaims
	handler := Authenticate(newTokenService(t))(captureCaller(&caller))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Token abc")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, caller)
}

func TestAuthenticate_RejectsInvalidToken(t *testing.T) {
	var caller *sec.AuthClaims
	handler := Authenticate(newTokenService(t))(captureCaller(&caller))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer not-a-jwt")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, caller)
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
