// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package token implements the ownership ledger: who owns each token, which
accounts are approved to move it, and the guarded transfer state machine
including the two-phase (notify-receiver) variant with rollback.

Token identity is composite: "<seriesID>:<seq>", where seq is 1-based and
assigned at mint time. A token is permanently bound to the series encoded in
its id prefix.
*/
package token

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/validate"
)

// # Token Identity

// MakeID builds the composite token id from a series id and a 1-based
// edition sequence.
func MakeID(seriesID, seq uint64) string {
	return fmt.Sprintf("%d%s%d", seriesID, constants.TokenDelimiter, seq)
}

// ParseID splits a composite token id into its series id and sequence.
func ParseID(id string) (seriesID, seq uint64, err error) {
	left, right, found := strings.Cut(id, constants.TokenDelimiter)
	if !found {
		return 0, 0, validate.RequiredError("token_id", "Must be of the form <series_id>:<seq>")
	}

	seriesID, err = strconv.ParseUint(left, 10, 64)
	if err != nil {
		return 0, 0, validate.RequiredError("token_id", "Series id must be a positive integer")
	}

	seq, err = strconv.ParseUint(right, 10, 64)
	if err != nil || seq == 0 {
		return 0, 0, validate.RequiredError("token_id", "Sequence must be a positive integer")
	}

	return seriesID, seq, nil
}

// # Persisted Record

// Metadata schema versions. Legacy rows predate generative asset assignment
// and carry no asset fields.
const (
	MetadataVersionLegacy  = 1
	MetadataVersionCurrent = 2
)

// MetadataRecord is the raw, versioned metadata persisted with each token.
// All read paths pass it through [MetadataRecord.Normalize] before use.
type MetadataRecord struct {
	Version  int
	AssetID  string
	Filetype string
	Extra    *string
}

// Normalize upgrades a record of any stored version to the current shape.
// This is the only place version tags are interpreted.
func (m MetadataRecord) Normalize() MetadataRecord {
	if m.Version >= MetadataVersionCurrent {
		return m
	}
	// Legacy rows have no asset assignment. The zero asset fields mean
	// "no media override": resolution falls back to the series base media.
	m.Version = MetadataVersionCurrent
	return m
}

// Record is the persisted token row: ownership, the approval map with its
// monotonic counter, and the raw metadata.
type Record struct {
	ID             string
	SeriesID       uint64
	Seq            uint64
	Owner          string
	Approvals      map[string]uint64
	NextApprovalID uint64
	Metadata       MetadataRecord
}

// # Resolved View

// Metadata is the client-facing token metadata, resolved at read time
// against the owning series.
type Metadata struct {
	Title  string  `json:"title"`
	Media  string  `json:"media,omitempty"`
	Extra  *string `json:"extra,omitempty"`
	Copies *uint64 `json:"copies,omitempty"`
}

// Token is the client-facing token view.
type Token struct {
	ID               string            `json:"token_id"`
	Owner            string            `json:"owner_id"`
	Metadata         Metadata          `json:"metadata"`
	ApprovedAccounts map[string]uint64 `json:"approved_account_ids"`
}

// # Collaborator Contracts

// SeriesInfo is the slice of series state needed to resolve a token view.
type SeriesInfo struct {
	ID     uint64
	Title  string
	Media  string
	Copies *uint64
}

// SeriesReader resolves series info by numeric id. Implemented by the series
// package; declared here so token does not depend on it.
type SeriesReader interface {
	InfoByID(ctx context.Context, seriesID uint64) (*SeriesInfo, error)
}

// ReceiverNotifier delivers the two-phase transfer notification and reports
// the receiver's verdict. Any delivery failure surfaces as revert=true.
type ReceiverNotifier interface {
	OnTransfer(ctx context.Context, receiver, sender, previousOwner, tokenID, msg string) (revert bool, err error)
}

// # Storage Accounting

// ApprovalBytes is the storage footprint of a single approval entry: the
// approved account id plus the fixed map-entry overhead.
func ApprovalBytes(account string) uint64 {
	return uint64(len(account)) + constants.ApprovalFixedOverhead
}

// approvalsBytes sums the storage footprint of an approval map.
func approvalsBytes(approvals map[string]uint64) uint64 {
	var total uint64
	for account := range approvals {
		total += ApprovalBytes(account)
	}
	return total
}
