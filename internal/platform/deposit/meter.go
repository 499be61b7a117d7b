// Copyright (c) 2026 Satori HQ. All rights reserved.

package deposit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/ctxutil"
)

// Bank records deposit refunds owed to accounts.
type Bank interface {
	// Refund credits the given amount back to the account.
	Refund(ctx context.Context, account string, amount uint64, reason string) error
}

// Meter converts storage byte counts into deposit units and enforces that
// the attached deposit covers them.
//
// # Ordering
//
// Services call Check BEFORE mutating state and Settle AFTER the mutation
// succeeded, so an insufficient deposit never leaves partial writes behind.
type Meter struct {
	byteCost uint64
	bank     Bank
}

// NewMeter creates a Meter. A zero byteCost selects the built-in default.
func NewMeter(byteCost uint64, bank Bank) *Meter {
	if byteCost == 0 {
		byteCost = constants.DefaultStorageByteCost
	}
	return &Meter{byteCost: byteCost, bank: bank}
}

// Cost returns the deposit units required to store the given byte count.
func (m *Meter) Cost(bytes uint64) uint64 {
	return bytes * m.byteCost
}

// Check verifies that the deposit attached to the current request covers the
// given byte count. Returns INSUFFICIENT_DEPOSIT otherwise.
func (m *Meter) Check(ctx context.Context, bytes uint64) error {
	required := m.Cost(bytes)
	attached := Attached(ctx)
	if attached < required {
		return apperr.InsufficientDeposit(
			fmt.Sprintf("Requires attached deposit of at least %d, got %d", required, attached),
		)
	}
	return nil
}

// Settle returns the unused portion of the attached deposit to the caller
// after a successful mutation that consumed the given byte count.
//
// The refund amount is returned for logging; a zero refund performs no
// ledger write.
func (m *Meter) Settle(ctx context.Context, account string, bytes uint64, reason string) (uint64, error) {
	required := m.Cost(bytes)
	attached := Attached(ctx)
	if attached <= required {
		return 0, nil
	}

	refund := attached - required
	if err := m.bank.Refund(ctx, account, refund, reason); err != nil {
		return 0, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "deposit_refunded",
		slog.String("account", account),
		slog.Uint64("amount", refund),
		slog.String("reason", reason),
	)
	return refund, nil
}

// Release refunds the deposit held for the given byte count, e.g. when an
// approval is removed and its storage is freed.
func (m *Meter) Release(ctx context.Context, account string, bytes uint64, reason string) error {
	amount := m.Cost(bytes)
	if amount == 0 {
		return nil
	}
	return m.bank.Refund(ctx, account, amount, reason)
}
