// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import "context"

// # Token Data Access

// Repository defines the data access contract for token records.
//
// Mutating methods that touch more than one field (approval counters,
// approval maps, ownership) must apply their changes atomically: a failed
// call leaves the record exactly as it was.
type Repository interface {

	/*
		Get returns the token record with the given composite id.

		Parameters:
		  - context: context.Context
		  - id: string (composite "<series>:<seq>" id)

		Returns:
		  - *Record: Hydrated token record
		  - error: NOT_FOUND if missing
	*/
	Get(context context.Context, id string) (*Record, error)

	/*
		List returns token records ordered by id.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Page of token records
		  - int: Total token count
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]*Record, int, error)

	/*
		ListByOwner returns the records owned by an account, ordered by id.

		Parameters:
		  - context: context.Context
		  - owner: string (account id)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Page of token records
		  - int: Total owned by the account
		  - error: Storage failures
	*/
	ListByOwner(context context.Context, owner string, limit, offset int) ([]*Record, int, error)

	/*
		ListBySeries returns the records minted under a series, ordered by
		sequence.

		Parameters:
		  - context: context.Context
		  - seriesID: uint64
		  - limit: int
		  - offset: int

		Returns:
		  - []*Record: Page of token records
		  - int: Total minted under the series
		  - error: Storage failures
	*/
	ListBySeries(context context.Context, seriesID uint64, limit, offset int) ([]*Record, int, error)

	/*
		CountByOwner returns how many tokens an account owns.

		Parameters:
		  - context: context.Context
		  - owner: string (account id)

		Returns:
		  - int: Owned token count
		  - error: Storage failures
	*/
	CountByOwner(context context.Context, owner string) (int, error)

	/*
		Approve records an approval for the account and advances the token's
		approval counter. The counter advances on every call, including
		re-approval of an already approved account.

		Parameters:
		  - context: context.Context
		  - id: string (token id)
		  - account: string (delegatee account)

		Returns:
		  - uint64: The approval id assigned to this grant
		  - bool: Whether the account was already approved before this call
		  - error: NOT_FOUND if the token is missing
	*/
	Approve(context context.Context, id, account string) (uint64, bool, error)

	/*
		RemoveApproval deletes the account's approval entry if present.

		Parameters:
		  - context: context.Context
		  - id: string (token id)
		  - account: string (delegatee account)

		Returns:
		  - bool: Whether an entry was actually removed
		  - error: NOT_FOUND if the token is missing
	*/
	RemoveApproval(context context.Context, id, account string) (bool, error)

	/*
		ClearApprovals removes every approval entry on the token.

		Parameters:
		  - context: context.Context
		  - id: string (token id)

		Returns:
		  - map[string]uint64: The approval map as it was before clearing
		  - error: NOT_FOUND if the token is missing
	*/
	ClearApprovals(context context.Context, id string) (map[string]uint64, error)

	/*
		Transfer reassigns ownership and clears the approval map in one
		atomic step, guarded by the expected current owner.

		Parameters:
		  - context: context.Context
		  - id: string (token id)
		  - expectedOwner: string (guard: current owner)
		  - newOwner: string

		Returns:
		  - map[string]uint64: The approvals cleared by the transfer
		  - error: NOT_FOUND if the token is missing or the guard failed
	*/
	Transfer(context context.Context, id, expectedOwner, newOwner string) (map[string]uint64, error)

	/*
		Restore writes back a prior ownership and approval state during
		two-phase transfer rollback. The approval counter is left untouched
		so restored approval ids keep their original values.

		Parameters:
		  - context: context.Context
		  - id: string (token id)
		  - owner: string (owner to restore)
		  - approvals: map[string]uint64 (approval map to restore)

		Returns:
		  - error: NOT_FOUND if the token is missing
	*/
	Restore(context context.Context, id, owner string, approvals map[string]uint64) error
}
