// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package events emits token lifecycle events in the NEP-171 envelope.

Every mint and transfer produces a structured record that downstream
consumers (indexers, wallets, analytics) read from a Redis stream. Emission
happens after the state change has been committed; a failed emission is
logged but never aborts the operation that produced it.
*/
package events

import "context"

// Envelope constants for the NEP-171 event standard.
const (
	Standard = "nep171"
	Version  = "1.0.0"

	TypeMint     = "nft_mint"
	TypeTransfer = "nft_transfer"
)

// Event is the NEP-171 envelope appended to the event stream.
type Event struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     []any  `json:"data"`
}

// MintData describes a single nft_mint occurrence.
type MintData struct {
	OwnerID  string   `json:"owner_id"`
	TokenIDs []string `json:"token_ids"`
}

// TransferData describes a single nft_transfer occurrence.
type TransferData struct {
	OldOwnerID string   `json:"old_owner_id"`
	NewOwnerID string   `json:"new_owner_id"`
	TokenIDs   []string `json:"token_ids"`
}

// NewMint builds an nft_mint event for tokens minted to a single owner.
func NewMint(ownerID string, tokenIDs ...string) Event {
	return Event{
		Standard: Standard,
		Version:  Version,
		Event:    TypeMint,
		Data:     []any{MintData{OwnerID: ownerID, TokenIDs: tokenIDs}},
	}
}

// NewTransfer builds an nft_transfer event for tokens moved between owners.
func NewTransfer(oldOwnerID, newOwnerID string, tokenIDs ...string) Event {
	return Event{
		Standard: Standard,
		Version:  Version,
		Event:    TypeTransfer,
		Data:     []any{TransferData{OldOwnerID: oldOwnerID, NewOwnerID: newOwnerID, TokenIDs: tokenIDs}},
	}
}

// Sink receives emitted events.
type Sink interface {
	// Emit appends the event to the sink. Implementations must not be
	// treated as transactional: callers log emission failures and move on.
	Emit(ctx context.Context, event Event) error
}
