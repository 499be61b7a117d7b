// Copyright (c) 2026 Satori HQ. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (caller identity, request
// ID, logger, attached deposit, entropy seed). Using a private, unexported type
// for keys prevents collisions with third-party packages that might also use
// context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
//
// # Collision Prevention
//
// Even if another package uses "request_id" as a string key, it will not
// collide with this key type because Go's [context.Context] uses both the
// value AND the type for lookups.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyCaller is the context key for the authenticated caller claim ([sec.AuthClaims]).
	KeyCaller key = "caller"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyDeposit is the context key for the deposit attached via X-Attached-Deposit.
	KeyDeposit key = "deposit"

	// KeyEntropy is the context key for the entropy seed used by asset draws.
	KeyEntropy key = "entropy"
)
