// Copyright (c) 2026 Satori HQ. All rights reserved.

package deposit

import (
	"context"
	"sync"
)

// MemoryBank is an in-memory Bank used by tests. It accumulates refund
// totals per account so assertions can verify exact amounts.
type MemoryBank struct {
	mu     sync.Mutex
	totals map[string]uint64
}

// NewMemoryBank creates an empty MemoryBank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{totals: make(map[string]uint64)}
}

// Refund credits the amount to the account's in-memory total.
func (bank *MemoryBank) Refund(_ context.Context, account string, amount uint64, _ string) error {
	bank.mu.Lock()
	defer bank.mu.Unlock()
	bank.totals[account] += amount
	return nil
}

// Balance returns the total refunded to the account so far.
func (bank *MemoryBank) Balance(account string) uint64 {
	bank.mu.Lock()
	defer bank.mu.Unlock()
	return bank.totals[account]
}
