// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/events"
	"github.com/satori-hq/nft-series/pkg/pointer"
	"github.com/satori-hq/nft-series/pkg/slug"
)

// # Service Layer

// Service orchestrates series publication and minting.
type Service struct {
	repo     Repository
	registry RegistryReader
	meter    *deposit.Meter
	sink     events.Sink
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
func NewService(repo Repository, registry RegistryReader, meter *deposit.Meter, sink events.Sink, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		registry: registry,
		meter:    meter,
		sink:     sink,
		logger:   logger,
	}
}

// CreateInput carries the fields a new series is published with.
type CreateInput struct {
	Title       string
	Description *string
	Media       string
	Copies      uint64
	CoverAsset  string
	Royalty     map[string]uint32
	AssetPool   []PoolEntry
}

/*
CreateSeries publishes a new series. Only the registry owner can publish.

The title is the registry-wide unique handle. The asset pool must account
for exactly the declared number of copies; each mint consumes one unit of
pool supply.

Parameters:
  - context: context.Context
  - caller: string (must be the registry owner)
  - input: CreateInput

Returns:
  - *Series: The published series with its assigned id
  - error: UNAUTHORIZED, ALREADY_EXISTS, SUPPLY_MISMATCH or VALIDATION_ERROR
*/
func (service *Service) CreateSeries(context context.Context, caller string, input CreateInput) (*Series, error) {
	registryOwner, err := service.registry.RegistryOwner(context)
	if err != nil {
		return nil, err
	}
	if caller != registryOwner {
		return nil, apperr.Unauthorized("Only the registry owner can publish series")
	}

	if err := validateRoyalty(input.Royalty); err != nil {
		return nil, err
	}
	if supply := PoolSupply(input.AssetPool); supply != input.Copies {
		return nil, apperr.SupplyMismatch("Asset pool supply does not match the declared copies")
	}

	if _, err := service.repo.GetByTitle(context, input.Title); err == nil {
		return nil, apperr.AlreadyExists("A series with this title already exists")
	} else if !apperr.IsCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	series := &Series{
		Title:       input.Title,
		Slug:        slug.From(input.Title),
		Description: input.Description,
		Media:       input.Media,
		Copies:      pointer.To(input.Copies),
		CoverAsset:  input.CoverAsset,
		Owner:       caller,
		Royalty:     input.Royalty,
		AssetPool:   input.AssetPool,
	}
	if err := service.repo.Create(context, series); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "series_created",
		slog.Uint64("series_id", series.ID),
		slog.String("title", series.Title),
		slog.Uint64("copies", input.Copies),
	)
	return series, nil
}

/*
GetSeries retrieves a series by its unique title.
*/
func (service *Service) GetSeries(context context.Context, title string) (*Series, error) {
	return service.repo.GetByTitle(context, title)
}

/*
GetSeriesByID retrieves a series by its numeric id.
*/
func (service *Service) GetSeriesByID(context context.Context, id uint64) (*Series, error) {
	return service.repo.GetByID(context, id)
}

/*
ListSeries retrieves a page of series ordered by id.
*/
func (service *Service) ListSeries(context context.Context, limit, offset int) ([]*Series, int, error) {
	return service.repo.List(context, limit, offset)
}

// UpdateInput carries the mutable fields of a series. Nil fields are left
// unchanged, except ClearDescription which drops the description entirely.
type UpdateInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Royalty          map[string]uint32
}

/*
UpdateSeries changes a series' title, description or royalty table. Copies
and the asset pool are immutable after publication.

Parameters:
  - context: context.Context
  - caller: string (must be the series owner)
  - title: string (current unique title)
  - input: UpdateInput

Returns:
  - *Series: The updated series
  - error: NOT_FOUND, UNAUTHORIZED, ALREADY_EXISTS or VALIDATION_ERROR
*/
func (service *Service) UpdateSeries(context context.Context, caller, title string, input UpdateInput) (*Series, error) {
	series, err := service.repo.GetByTitle(context, title)
	if err != nil {
		return nil, err
	}
	if series.Owner != caller {
		return nil, apperr.Unauthorized("Only the series owner can update it")
	}

	if input.Title != nil && *input.Title != series.Title {
		if _, err := service.repo.GetByTitle(context, *input.Title); err == nil {
			return nil, apperr.AlreadyExists("A series with this title already exists")
		} else if !apperr.IsCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		series.Title = *input.Title
		series.Slug = slug.From(*input.Title)
	}

	if input.ClearDescription {
		series.Description = nil
	} else if input.Description != nil {
		series.Description = input.Description
	}

	if input.Royalty != nil {
		if err := validateRoyalty(input.Royalty); err != nil {
			return nil, err
		}
		series.Royalty = input.Royalty
	}

	if err := service.repo.Update(context, series); err != nil {
		return nil, err
	}
	return series, nil
}

/*
CapCopies locks a series' supply at its current minted count. Further mints
are rejected with SUPPLY_EXHAUSTED.

Parameters:
  - context: context.Context
  - caller: string (must be the series owner)
  - title: string

Returns:
  - uint64: The new copies cap
  - error: NOT_FOUND or UNAUTHORIZED
*/
func (service *Service) CapCopies(context context.Context, caller, title string) (uint64, error) {
	series, err := service.repo.GetByTitle(context, title)
	if err != nil {
		return 0, err
	}
	if series.Owner != caller {
		return 0, apperr.Unauthorized("Only the series owner can cap it")
	}

	minted, err := service.repo.CountMinted(context, series.ID)
	if err != nil {
		return 0, err
	}
	if err := service.repo.SetCopies(context, series.ID, minted); err != nil {
		return 0, err
	}

	service.logger.InfoContext(context, "series_capped",
		slog.Uint64("series_id", series.ID),
		slog.Uint64("copies", minted),
	)
	return minted, nil
}

/*
DeleteSeries removes a series that has no minted tokens, freeing its title
for reuse.

Parameters:
  - context: context.Context
  - caller: string (must be the series owner)
  - title: string

Returns:
  - error: NOT_FOUND, UNAUTHORIZED or NOT_EMPTY
*/
func (service *Service) DeleteSeries(context context.Context, caller, title string) error {
	series, err := service.repo.GetByTitle(context, title)
	if err != nil {
		return err
	}
	if series.Owner != caller {
		return apperr.Unauthorized("Only the series owner can delete it")
	}

	minted, err := service.repo.CountMinted(context, series.ID)
	if err != nil {
		return err
	}
	if minted > 0 {
		return apperr.NotEmpty("A series with minted tokens cannot be deleted")
	}

	if err := service.repo.Delete(context, series.ID); err != nil {
		return err
	}
	service.logger.InfoContext(context, "series_deleted",
		slog.Uint64("series_id", series.ID),
		slog.String("title", series.Title),
	)
	return nil
}

/*
Supply reports the minted count and the copies cap of a series.
*/
func (service *Service) Supply(context context.Context, title string) (uint64, *uint64, error) {
	series, err := service.repo.GetByTitle(context, title)
	if err != nil {
		return 0, nil, err
	}
	minted, err := service.repo.CountMinted(context, series.ID)
	if err != nil {
		return 0, nil, err
	}
	return minted, series.Copies, nil
}

// # Token Collaboration

/*
InfoByID resolves the series facts the token package needs for metadata
resolution. Implements [token.SeriesReader].
*/
func (service *Service) InfoByID(context context.Context, seriesID uint64) (*token.SeriesInfo, error) {
	series, err := service.repo.GetByID(context, seriesID)
	if err != nil {
		return nil, err
	}
	return &token.SeriesInfo{
		ID:     series.ID,
		Title:  series.Title,
		Media:  series.Media,
		Copies: series.Copies,
	}, nil
}

// validateRoyalty rejects tables whose basis points exceed the whole.
func validateRoyalty(royalty map[string]uint32) error {
	var total uint64
	for _, bp := range royalty {
		total += uint64(bp)
	}
	if total > constants.MaxRoyaltyBasisPoints {
		return apperr.ValidationError("Royalty basis points exceed 10000")
	}
	return nil
}
