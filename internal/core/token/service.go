// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Service Layer

// Service orchestrates ownership, approvals and transfers.
type Service struct {
	repo     Repository
	series   SeriesReader
	meter    *deposit.Meter
	sink     events.Sink
	notifier ReceiverNotifier
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
func NewService(repo Repository, series SeriesReader, meter *deposit.Meter, sink events.Sink, notifier ReceiverNotifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		series:   series,
		meter:    meter,
		sink:     sink,
		notifier: notifier,
		logger:   logger,
	}
}

// # Read Operations

/*
GetToken retrieves a single token with metadata resolved against its series.

Parameters:
  - context: context.Context
  - id: string (composite token id)

Returns:
  - *Token: The resolved client-facing view
  - error: NOT_FOUND if the token or its series is missing
*/
func (service *Service) GetToken(context context.Context, id string) (*Token, error) {
	record, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}
	return service.resolve(context, record)
}

/*
ListTokens retrieves a page of tokens ordered by series and sequence.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Token: Resolved token views
  - int: Total token count
  - error: Storage or resolution errors
*/
func (service *Service) ListTokens(context context.Context, limit, offset int) ([]*Token, int, error) {
	records, total, err := service.repo.List(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	tokens, err := service.resolveAll(context, records)
	return tokens, total, err
}

/*
ListTokensByOwner retrieves a page of tokens owned by an account.
*/
func (service *Service) ListTokensByOwner(context context.Context, owner string, limit, offset int) ([]*Token, int, error) {
	records, total, err := service.repo.ListByOwner(context, owner, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	tokens, err := service.resolveAll(context, records)
	return tokens, total, err
}

/*
ListTokensBySeries retrieves a page of tokens minted under a series.
*/
func (service *Service) ListTokensBySeries(context context.Context, seriesID uint64, limit, offset int) ([]*Token, int, error) {
	records, total, err := service.repo.ListBySeries(context, seriesID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	tokens, err := service.resolveAll(context, records)
	return tokens, total, err
}

/*
SupplyByOwner returns how many tokens the account owns.
*/
func (service *Service) SupplyByOwner(context context.Context, owner string) (int, error) {
	return service.repo.CountByOwner(context, owner)
}

// # Metadata Resolution

// resolve builds the client-facing view for a record: edition title, media
// and extra paths are derived from the owning series at read time.
func (service *Service) resolve(context context.Context, record *Record) (*Token, error) {
	info, err := service.series.InfoByID(context, record.SeriesID)
	if err != nil {
		return nil, err
	}

	metadata := Metadata{
		Title:  info.Title,
		Copies: info.Copies,
	}
	if info.Copies != nil {
		metadata.Title = fmt.Sprintf("%s%s%d%s%d",
			info.Title, constants.TitleDelimiter,
			record.Seq, constants.EditionDelimiter, *info.Copies,
		)
	}

	if record.Metadata.AssetID != "" {
		metadata.Media = fmt.Sprintf("%s/%s.%s", info.Media, record.Metadata.AssetID, record.Metadata.Filetype)
	} else {
		// Legacy rows with no asset assignment fall back to the series base.
		metadata.Media = info.Media
	}
	if record.Metadata.Extra != nil {
		extra := fmt.Sprintf("%s/%s", info.Media, *record.Metadata.Extra)
		metadata.Extra = &extra
	}

	return &Token{
		ID:               record.ID,
		Owner:            record.Owner,
		Metadata:         metadata,
		ApprovedAccounts: record.Approvals,
	}, nil
}

func (service *Service) resolveAll(context context.Context, records []*Record) ([]*Token, error) {
	tokens := make([]*Token, 0, len(records))
	for _, record := range records {
		token, err := service.resolve(context, record)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// # Event Emission

// emit appends an event to the sink. Emission happens after the state change
// committed, so failures are logged rather than propagated.
func (service *Service) emit(context context.Context, event events.Event) {
	if err := service.sink.Emit(context, event); err != nil {
		service.logger.ErrorContext(context, "event_emit_failed",
			slog.String("event", event.Event),
			slog.Any("error", err),
		)
	}
}

// releaseApprovals refunds the storage held by a set of approval entries.
func (service *Service) releaseApprovals(context context.Context, account string, approvals map[string]uint64, reason string) {
	if len(approvals) == 0 {
		return
	}
	if err := service.meter.Release(context, account, approvalsBytes(approvals), reason); err != nil {
		service.logger.ErrorContext(context, "approval_refund_failed",
			slog.String("account", account),
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}
}
