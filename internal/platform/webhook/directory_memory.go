// Copyright (c) 2026 Satori HQ. All rights reserved.

package webhook

import (
	"context"
	"sync"
)

// MemoryDirectory is an in-memory Endpoints implementation used by tests.
type MemoryDirectory struct {
	mu        sync.RWMutex
	endpoints map[string]string
}

// NewMemoryDirectory creates an empty MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{endpoints: make(map[string]string)}
}

// Register stores or replaces the endpoint URL for the account.
func (directory *MemoryDirectory) Register(_ context.Context, account, url string) error {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	directory.endpoints[account] = url
	return nil
}

// Lookup returns the endpoint URL registered for the account.
func (directory *MemoryDirectory) Lookup(_ context.Context, account string) (string, bool, error) {
	directory.mu.RLock()
	defer directory.mu.RUnlock()
	url, found := directory.endpoints[account]
	return url, found, nil
}
