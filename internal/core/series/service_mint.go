// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Minting

// tokenStorageOverhead approximates the fixed per-token row footprint on top
// of the variable-length fields.
const tokenStorageOverhead = 64

// recordBytes is the storage footprint charged for a minted token.
func recordBytes(record *token.Record) uint64 {
	bytes := uint64(len(record.ID)+len(record.Owner)+
		len(record.Metadata.AssetID)+len(record.Metadata.Filetype)) + tokenStorageOverhead
	if record.Metadata.Extra != nil {
		bytes += uint64(len(*record.Metadata.Extra))
	}
	return bytes
}

// worstCaseBytes bounds the footprint of the next mint before the pool draw
// happened, so the deposit check can run ahead of the mutation.
func worstCaseBytes(series *Series, minted uint64, owner string) uint64 {
	var widest uint64
	for _, entry := range series.AssetPool {
		width := uint64(len(entry.AssetID) + len(entry.Filetype))
		if entry.Extra != nil {
			width += uint64(len(*entry.Extra))
		}
		if width > widest {
			widest = width
		}
	}
	return uint64(len(token.MakeID(series.ID, minted+1))+len(owner)) + widest + tokenStorageOverhead
}

/*
Mint creates the next token of a series for the given receiver.

The asset is drawn from the pool with the request's entropy seed; the
sequence number and the depletion happen atomically in storage. The attached
deposit must cover the token's storage footprint and the excess is refunded.

Parameters:
  - context: context.Context
  - caller: string (must be the series owner)
  - title: string (series title)
  - receiver: string (account receiving the token; the caller when empty)

Returns:
  - *token.Record: The minted token
  - error: NOT_FOUND, UNAUTHORIZED, SUPPLY_EXHAUSTED or INSUFFICIENT_DEPOSIT
*/
func (service *Service) Mint(context context.Context, caller, title, receiver string) (*token.Record, error) {
	series, err := service.repo.GetByTitle(context, title)
	if err != nil {
		return nil, err
	}
	if series.Owner != caller {
		return nil, apperr.Unauthorized("Only the series owner can mint")
	}
	if receiver == "" {
		receiver = caller
	}

	minted, err := service.repo.CountMinted(context, series.ID)
	if err != nil {
		return nil, err
	}
	if err := service.meter.Check(context, worstCaseBytes(series, minted, receiver)); err != nil {
		return nil, err
	}

	record, err := service.repo.Mint(context, series.ID, receiver, entropy.Seed(context))
	if err != nil {
		return nil, err
	}
	if _, err := service.meter.Settle(context, caller, recordBytes(record), "mint"); err != nil {
		service.logger.ErrorContext(context, "deposit_refund_failed",
			slog.String("token_id", record.ID),
			slog.Any("error", err),
		)
	}

	if err := service.sink.Emit(context, events.NewMint(receiver, record.ID)); err != nil {
		service.logger.ErrorContext(context, "event_emit_failed",
			slog.String("event", events.TypeMint),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "token_minted",
		slog.String("token_id", record.ID),
		slog.Uint64("series_id", series.ID),
		slog.String("owner", receiver),
		slog.String("asset_id", record.Metadata.AssetID),
	)
	return record, nil
}
