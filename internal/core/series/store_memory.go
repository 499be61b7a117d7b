// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/dberr"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
)

// MemoryRepository is an in-memory [Repository] for tests. It shares the
// token repository so minted counts and inserts stay consistent with the
// token side of a test fixture.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*Series
	tokens *token.MemoryRepository
}

func NewMemoryRepository(tokens *token.MemoryRepository) *MemoryRepository {
	return &MemoryRepository{byID: make(map[uint64]*Series), tokens: tokens}
}

func cloneSeries(series *Series) *Series {
	clone := *series
	if series.Royalty != nil {
		clone.Royalty = make(map[string]uint32, len(series.Royalty))
		for account, bp := range series.Royalty {
			clone.Royalty[account] = bp
		}
	}
	if series.AssetPool != nil {
		clone.AssetPool = append([]PoolEntry(nil), series.AssetPool...)
	}
	return &clone
}

func (repository *MemoryRepository) Create(_ context.Context, series *Series) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.byID {
		if existing.Title == series.Title {
			return apperr.AlreadyExists("Resource already exists")
		}
	}

	repository.nextID++
	series.ID = repository.nextID
	series.CreatedAt = time.Now()
	series.UpdatedAt = series.CreatedAt
	repository.byID[series.ID] = cloneSeries(series)
	return nil
}

func (repository *MemoryRepository) GetByID(_ context.Context, id uint64) (*Series, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	series, ok := repository.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return cloneSeries(series), nil
}

func (repository *MemoryRepository) GetByTitle(_ context.Context, title string) (*Series, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, series := range repository.byID {
		if series.Title == title {
			return cloneSeries(series), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Series, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	all := make([]*Series, 0, len(repository.byID))
	for _, series := range repository.byID {
		all = append(all, cloneSeries(series))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return []*Series{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (repository *MemoryRepository) Update(_ context.Context, series *Series) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.byID[series.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	for _, other := range repository.byID {
		if other.ID != series.ID && other.Title == series.Title {
			return apperr.AlreadyExists("Resource already exists")
		}
	}

	existing.Title = series.Title
	existing.Slug = series.Slug
	existing.Description = series.Description
	existing.Royalty = cloneSeries(series).Royalty
	existing.UpdatedAt = time.Now()
	return nil
}

func (repository *MemoryRepository) SetCopies(_ context.Context, id uint64, copies uint64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	series, ok := repository.byID[id]
	if !ok {
		return dberr.ErrNotFound
	}
	series.Copies = &copies
	series.UpdatedAt = time.Now()
	return nil
}

func (repository *MemoryRepository) Delete(_ context.Context, id uint64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.byID[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repository.byID, id)
	return nil
}

func (repository *MemoryRepository) CountMinted(_ context.Context, id uint64) (uint64, error) {
	return uint64(repository.tokens.CountBySeries(id)), nil
}

func (repository *MemoryRepository) Mint(_ context.Context, id uint64, owner string, seed uint64) (*token.Record, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	series, ok := repository.byID[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	minted := uint64(repository.tokens.CountBySeries(id))
	if series.Copies != nil && minted >= *series.Copies {
		return nil, apperr.SupplyExhausted("All copies of this series have been minted")
	}
	if len(series.AssetPool) == 0 {
		return nil, apperr.NotFound("Asset pool")
	}

	index := entropy.Draw(seed, len(series.AssetPool))
	entry := series.AssetPool[index]
	entry.Remaining--
	if entry.Remaining == 0 {
		series.AssetPool = append(series.AssetPool[:index], series.AssetPool[index+1:]...)
	} else {
		series.AssetPool[index] = entry
	}

	record := &token.Record{
		ID:             token.MakeID(id, minted+1),
		SeriesID:       id,
		Seq:            minted + 1,
		Owner:          owner,
		Approvals:      make(map[string]uint64),
		NextApprovalID: 1,
		Metadata: token.MetadataRecord{
			Version:  token.MetadataVersionCurrent,
			AssetID:  entry.AssetID,
			Filetype: entry.Filetype,
			Extra:    entry.Extra,
		},
	}
	repository.tokens.Insert(record)
	return record, nil
}
