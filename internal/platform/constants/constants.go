// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Token Model: delimiters and storage pricing for the registry.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "nft-series-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "satori-hq.io"
)

// # Token Model

const (
	// TokenDelimiter separates the series id from the edition sequence in a
	// token id, e.g. "42:7".
	TokenDelimiter = ":"

	// TitleDelimiter separates the series title from the edition suffix in a
	// token title, e.g. "Sunset Valley — 7/100".
	TitleDelimiter = " — "

	// EditionDelimiter separates the edition sequence from the copies cap in a
	// token title.
	EditionDelimiter = "/"
)

// # Storage Pricing

const (
	// DefaultStorageByteCost is the deposit units charged per byte of new state.
	DefaultStorageByteCost = 10_000

	// ApprovalFixedOverhead is the fixed per-approval byte overhead on top of
	// the approved account id length (map entry id + counter slots).
	ApprovalFixedOverhead = 4 + 8

	// MaxRoyaltyBasisPoints is the denominator of the royalty share model.
	MaxRoyaltyBasisPoints = 10_000
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"

	// HeaderAttachedDeposit carries the deposit units attached to a mutating call.
	HeaderAttachedDeposit = "X-Attached-Deposit"

	// HeaderEntropySeed overrides the random seed used for generative asset draws.
	HeaderEntropySeed = "X-Entropy-Seed"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaNFT = "nft"
)

// # Redis Keys

const (
	// RedisKeyReceivers is the hash holding registered transfer-call receiver endpoints.
	RedisKeyReceivers = "nft:receivers"

	// RedisStreamEvents is the stream that token lifecycle events are appended to.
	RedisStreamEvents = "nft:events"
)
