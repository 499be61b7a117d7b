// Copyright (c) 2026 Satori HQ. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenServiceFromKeys(newKey(t), "satori-hq.io")

	signed, err := service.GenerateAccessToken("alice", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.AccountID)
	assert.Equal(t, "satori-hq.io", claims.Issuer)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	service := NewTokenServiceFromKeys(newKey(t), "satori-hq.io")

	signed, err := service.GenerateAccessToken("alice", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(signed)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	issuer := NewTokenServiceFromKeys(newKey(t), "satori-hq.io")
	verifier := NewTokenServiceFromKeys(newKey(t), "satori-hq.io")

	signed, err := issuer.GenerateAccessToken("alice", time.Minute)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(signed)
	assert.Error(t, err)
}

func TestTokenService_SubjectFallback(t *testing.T) {
	key := newKey(t)
	service := NewTokenServiceFromKeys(key, "satori-hq.io")

	// A token without the acc claim falls back to the registered subject.
	bare := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.RegisteredClaims{
		Subject:   "bob",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	signed, err := bare.SignedString(key)
	require.NoError(t, err)

	claims, err := service.VerifyToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.AccountID)
}

func TestTokenService_VerifierCannotSign(t *testing.T) {
	key := newKey(t)
	verifier := &TokenService{publicKey: &key.PublicKey, issuer: "satori-hq.io"}

	_, err := verifier.GenerateAccessToken("alice", time.Minute)
	assert.Error(t, err)
}
