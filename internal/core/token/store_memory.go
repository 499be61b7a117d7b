// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"sort"
	"sync"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
)

// MemoryRepository is a deterministic in-memory [Repository]. It backs the
// unit tests and serves as the reference semantics for the postgres store.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*Record)}
}

// cloneRecord returns a deep copy so callers never alias internal state.
func cloneRecord(record *Record) *Record {
	clone := *record
	clone.Approvals = make(map[string]uint64, len(record.Approvals))
	for account, approvalID := range record.Approvals {
		clone.Approvals[account] = approvalID
	}
	if record.Metadata.Extra != nil {
		extra := *record.Metadata.Extra
		clone.Metadata.Extra = &extra
	}
	return &clone
}

// Insert adds a freshly minted record. Used by the series store, which owns
// mint atomicity.
func (repository *MemoryRepository) Insert(record *Record) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	stored := cloneRecord(record)
	if stored.Approvals == nil {
		stored.Approvals = make(map[string]uint64)
	}
	if stored.NextApprovalID == 0 {
		stored.NextApprovalID = 1
	}
	repository.records[stored.ID] = stored
}

// Delete removes a record entirely. Exists so tests can exercise the
// "token destroyed during the notification window" resolution path.
func (repository *MemoryRepository) Delete(id string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	delete(repository.records, id)
}

func (repository *MemoryRepository) Get(_ context.Context, id string) (*Record, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	record, found := repository.records[id]
	if !found {
		return nil, apperr.NotFound("Token")
	}
	clone := cloneRecord(record)
	clone.Metadata = clone.Metadata.Normalize()
	return clone, nil
}

// sorted returns all records ordered by (series, seq).
func (repository *MemoryRepository) sorted(filter func(*Record) bool) []*Record {
	out := make([]*Record, 0, len(repository.records))
	for _, record := range repository.records {
		if filter == nil || filter(record) {
			out = append(out, record)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeriesID != out[j].SeriesID {
			return out[i].SeriesID < out[j].SeriesID
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// pageOf clips a sorted slice to the requested window, cloning each record.
func pageOf(all []*Record, limit, offset int) []*Record {
	if offset >= len(all) {
		return []*Record{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	page := make([]*Record, 0, end-offset)
	for _, record := range all[offset:end] {
		clone := cloneRecord(record)
		clone.Metadata = clone.Metadata.Normalize()
		page = append(page, clone)
	}
	return page
}

func (repository *MemoryRepository) List(_ context.Context, limit, offset int) ([]*Record, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	all := repository.sorted(nil)
	return pageOf(all, limit, offset), len(all), nil
}

func (repository *MemoryRepository) ListByOwner(_ context.Context, owner string, limit, offset int) ([]*Record, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	all := repository.sorted(func(record *Record) bool { return record.Owner == owner })
	return pageOf(all, limit, offset), len(all), nil
}

func (repository *MemoryRepository) ListBySeries(_ context.Context, seriesID uint64, limit, offset int) ([]*Record, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	all := repository.sorted(func(record *Record) bool { return record.SeriesID == seriesID })
	return pageOf(all, limit, offset), len(all), nil
}

func (repository *MemoryRepository) CountByOwner(_ context.Context, owner string) (int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	count := 0
	for _, record := range repository.records {
		if record.Owner == owner {
			count++
		}
	}
	return count, nil
}

// CountBySeries returns how many tokens were minted under a series.
// Used by the series memory store for supply accounting.
func (repository *MemoryRepository) CountBySeries(seriesID uint64) int {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	count := 0
	for _, record := range repository.records {
		if record.SeriesID == seriesID {
			count++
		}
	}
	return count
}

func (repository *MemoryRepository) Approve(_ context.Context, id, account string) (uint64, bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, found := repository.records[id]
	if !found {
		return 0, false, apperr.NotFound("Token")
	}

	_, wasPresent := record.Approvals[account]
	approvalID := record.NextApprovalID
	record.Approvals[account] = approvalID
	record.NextApprovalID++
	return approvalID, wasPresent, nil
}

func (repository *MemoryRepository) RemoveApproval(_ context.Context, id, account string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, found := repository.records[id]
	if !found {
		return false, apperr.NotFound("Token")
	}

	if _, present := record.Approvals[account]; !present {
		return false, nil
	}
	delete(record.Approvals, account)
	return true, nil
}

func (repository *MemoryRepository) ClearApprovals(_ context.Context, id string) (map[string]uint64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, found := repository.records[id]
	if !found {
		return nil, apperr.NotFound("Token")
	}

	cleared := record.Approvals
	record.Approvals = make(map[string]uint64)
	return cleared, nil
}

func (repository *MemoryRepository) Transfer(_ context.Context, id, expectedOwner, newOwner string) (map[string]uint64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, found := repository.records[id]
	if !found || record.Owner != expectedOwner {
		return nil, apperr.NotFound("Token")
	}

	cleared := record.Approvals
	record.Owner = newOwner
	record.Approvals = make(map[string]uint64)
	return cleared, nil
}

func (repository *MemoryRepository) Restore(_ context.Context, id, owner string, approvals map[string]uint64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, found := repository.records[id]
	if !found {
		return apperr.NotFound("Token")
	}

	record.Owner = owner
	record.Approvals = make(map[string]uint64, len(approvals))
	for account, approvalID := range approvals {
		record.Approvals[account] = approvalID
	}
	return nil
}
