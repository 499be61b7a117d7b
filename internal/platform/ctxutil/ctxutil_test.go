// Copyright (c) 2026 Satori HQ. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satori-hq/nft-series/internal/platform/ctxutil"
	"github.com/satori-hq/nft-series/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Caller verifies that AuthClaims can be stored in context.
*/
func TestContext_Caller(t *testing.T) {
	ctx := context.Background()
	claims := &sec.AuthClaims{
		AccountID: "alice.satori",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetCaller(ctx))
	assert.Empty(t, ctxutil.CallerID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithCaller(ctx, claims)
	retrieved := ctxutil.GetCaller(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "alice.satori", retrieved.AccountID)
	assert.Equal(t, "alice.satori", ctxutil.CallerID(ctx))
}
