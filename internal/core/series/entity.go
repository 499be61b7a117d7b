// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package series manages token series: creation, metadata, the generative
asset pool and minting.

A series is the unit of publication. Its title is the registry-wide unique
handle, its copies cap bounds the mintable supply, and its asset pool decides
which generative asset each minted token receives.
*/
package series

import (
	"context"
	"time"
)

// # Entity Definitions

// PoolEntry is one asset in a series' generative pool. Remaining counts how
// many mints the entry can still serve.
type PoolEntry struct {
	AssetID   string  `json:"asset_id"`
	Filetype  string  `json:"filetype"`
	Remaining uint64  `json:"remaining"`
	Extra     *string `json:"extra,omitempty"`
}

// Series is a published token series.
//
// Every mint consumes one unit from a drawn pool entry, so the pool supply
// always equals the copies cap minus the minted count; the pool is empty
// exactly when the series is fully minted.
type Series struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	Media       string            `json:"media"`
	Copies      *uint64           `json:"copies,omitempty"`
	CoverAsset  string            `json:"cover_asset,omitempty"`
	Owner       string            `json:"owner_id"`
	Royalty     map[string]uint32 `json:"royalty,omitempty"`
	AssetPool   []PoolEntry       `json:"asset_pool,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PoolSupply sums the remaining capacity of a pool.
func PoolSupply(pool []PoolEntry) uint64 {
	var total uint64
	for _, entry := range pool {
		total += entry.Remaining
	}
	return total
}

// RegistryReader exposes the registry-level facts the series service needs.
// Implemented by the registry package; declared here so series does not
// depend on it.
type RegistryReader interface {
	// RegistryOwner returns the account that owns the registry.
	RegistryOwner(context context.Context) (string, error)
}
