// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"

	"github.com/satori-hq/nft-series/internal/core/token"
)

// # Repository Contract

// Repository defines the persistence contract for series.
type Repository interface {
	/*
		Create persists a new series and assigns its numeric id.

		Parameters:
		  - context: context.Context
		  - series: *Series (ID, CreatedAt and UpdatedAt are filled in)

		Returns:
		  - error: ALREADY_EXISTS when the title is taken
	*/
	Create(context context.Context, series *Series) error

	/*
		GetByID retrieves a series by its numeric id.

		Returns:
		  - *Series: The series
		  - error: NOT_FOUND when absent
	*/
	GetByID(context context.Context, id uint64) (*Series, error)

	/*
		GetByTitle retrieves a series by its unique title.

		Returns:
		  - *Series: The series
		  - error: NOT_FOUND when absent
	*/
	GetByTitle(context context.Context, title string) (*Series, error)

	/*
		List returns a page of series ordered by id, plus the total count.
	*/
	List(context context.Context, limit, offset int) ([]*Series, int, error)

	/*
		Update persists title, slug, description and royalty changes. Copies
		and the asset pool are immutable through this path.

		Returns:
		  - error: NOT_FOUND when absent, ALREADY_EXISTS on a title collision
	*/
	Update(context context.Context, series *Series) error

	/*
		SetCopies overwrites the copies cap.

		Returns:
		  - error: NOT_FOUND when absent
	*/
	SetCopies(context context.Context, id uint64, copies uint64) error

	/*
		Delete removes the series row, freeing its title for reuse. Callers
		must have verified the series has no minted tokens.

		Returns:
		  - error: NOT_FOUND when absent
	*/
	Delete(context context.Context, id uint64) error

	/*
		CountMinted returns how many tokens have been minted under the series.
	*/
	CountMinted(context context.Context, id uint64) (uint64, error)

	/*
		Mint atomically creates the next token of the series: it draws an
		asset from the pool with the given seed, depletes the pool entry,
		assigns the next sequence number and inserts the token record, all
		under one lock.

		Parameters:
		  - context: context.Context
		  - id: uint64 (series id)
		  - owner: string (account receiving the token)
		  - seed: uint64 (entropy for the pool draw)

		Returns:
		  - *token.Record: The minted token
		  - error: NOT_FOUND (series or empty pool), SUPPLY_EXHAUSTED
	*/
	Mint(context context.Context, id uint64, owner string, seed uint64) (*token.Record, error)
}
