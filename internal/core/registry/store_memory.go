// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import (
	"context"
	"sync"
	"time"

	"github.com/satori-hq/nft-series/internal/platform/dberr"
)

// MemoryRepository is an in-memory [Repository] for tests.
type MemoryRepository struct {
	mu     sync.Mutex
	record *Registry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (repository *MemoryRepository) Get(_ context.Context) (*Registry, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.record == nil {
		return nil, dberr.ErrNotFound
	}
	clone := *repository.record
	return &clone, nil
}

func (repository *MemoryRepository) Init(_ context.Context, registry *Registry) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.record != nil {
		return nil
	}
	clone := *registry
	clone.CreatedAt = time.Now()
	clone.UpdatedAt = clone.CreatedAt
	repository.record = &clone
	return nil
}

func (repository *MemoryRepository) SetSource(_ context.Context, source Source) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.record == nil {
		return dberr.ErrNotFound
	}
	repository.record.Source = source
	repository.record.UpdatedAt = time.Now()
	return nil
}

func (repository *MemoryRepository) SetBaseURI(_ context.Context, baseURI string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.record == nil {
		return dberr.ErrNotFound
	}
	repository.record.BaseURI = baseURI
	repository.record.UpdatedAt = time.Now()
	return nil
}
