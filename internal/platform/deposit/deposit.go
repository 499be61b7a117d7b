// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package deposit implements the storage-deposit model for mutating calls.

Every state-growing operation (minting, approvals) must attach a deposit that
covers the storage bytes it allocates. The attached amount travels on the
X-Attached-Deposit header, is checked against the computed byte cost before
any mutation, and the excess is returned to the caller through the refund
ledger.

Components:

  - Middleware: parses the header and injects the amount into the context.
  - Meter: converts byte counts into deposit units and enforces coverage.
  - Bank: records refunds (persistent ledger in Postgres, in-memory for tests).
*/
package deposit

import (
	"context"
	"net/http"
	"strconv"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/ctxkey"
	"github.com/satori-hq/nft-series/internal/platform/respond"
)

// Middleware parses the X-Attached-Deposit header and injects the attached
// amount into the request context. Requests without the header proceed with
// a zero deposit.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			raw := request.Header.Get(constants.HeaderAttachedDeposit)
			if raw == "" {
				next.ServeHTTP(writer, request)
				return
			}

			amount, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				respond.Error(writer, request, apperr.ValidationError("Invalid X-Attached-Deposit header"))
				return
			}

			ctx := WithAttached(request.Context(), amount)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// WithAttached returns a new context carrying the attached deposit amount.
func WithAttached(ctx context.Context, amount uint64) context.Context {
	return context.WithValue(ctx, ctxkey.KeyDeposit, amount)
}

// Attached returns the deposit attached to the current request, or zero.
func Attached(ctx context.Context) uint64 {
	amount, _ := ctx.Value(ctxkey.KeyDeposit).(uint64)
	return amount
}
