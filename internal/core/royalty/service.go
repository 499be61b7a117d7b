// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package royalty computes sale payouts from a series' royalty table.

A royalty table maps recipient accounts to basis points. A payout splits a
sale balance across the recipients, with the token owner collecting the
remainder. All divisions floor; the rounding loss stays with the payer.
*/
package royalty

import (
	"context"
	"log/slog"
	"math/big"

	"github.com/satori-hq/nft-series/internal/core/series"
	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/constants"
)

// Payout maps recipient accounts to the amounts they collect from a sale.
type Payout map[string]uint64

// # Service Layer

// Service computes payouts and settles transfers that carry one.
type Service struct {
	tokens *token.Service
	series *series.Service
	logger *slog.Logger
}

// NewService constructs a new [Service] with its collaborators.
func NewService(tokens *token.Service, seriesService *series.Service, logger *slog.Logger) *Service {
	return &Service{
		tokens: tokens,
		series: seriesService,
		logger: logger,
	}
}

/*
ComputePayout splits a sale balance across the token's royalty recipients.

Each recipient collects floor(bp x balance / 10000); the owner collects the
floored remainder share and is listed only when it is positive.

Parameters:
  - context: context.Context
  - tokenID: string (composite token id)
  - balance: uint64 (sale amount to split)
  - maxRecipients: int (upper bound on royalty table size)

Returns:
  - Payout: Recipient amounts
  - error: NOT_FOUND or TOO_MANY_RECIPIENTS
*/
func (service *Service) ComputePayout(context context.Context, tokenID string, balance uint64, maxRecipients int) (Payout, error) {
	seriesID, _, err := token.ParseID(tokenID)
	if err != nil {
		return nil, err
	}

	owned, err := service.tokens.GetToken(context, tokenID)
	if err != nil {
		return nil, err
	}
	published, err := service.series.GetSeriesByID(context, seriesID)
	if err != nil {
		return nil, err
	}

	return split(published.Royalty, owned.Owner, balance, maxRecipients)
}

// TransferPayoutInput selects between the two settlement modes: a plain
// transfer of an existing token (ApprovalID guards staleness) or a lazy
// mint from a series straight to the receiver.
type TransferPayoutInput struct {
	Receiver      string
	Balance       uint64
	MaxRecipients int
	ApprovalID    *uint64
	SeriesTitle   string
	Memo          string
}

/*
TransferPayout settles a sale: it moves the token to the receiver and
returns the payout the sale balance splits into.

With a SeriesTitle the token does not exist yet; it is minted from that
series directly to the receiver, and the minted token's owner collects the
owner share. Otherwise the token transfers from its current owner, who
collects the owner share.

Parameters:
  - context: context.Context
  - caller: string (owner, approved account, or series owner when minting)
  - tokenID: string (ignored when SeriesTitle is set)
  - input: TransferPayoutInput

Returns:
  - string: The settled token id
  - Payout: Recipient amounts
  - error: NOT_FOUND, UNAUTHORIZED, APPROVAL_MISMATCH, SUPPLY_EXHAUSTED
    or TOO_MANY_RECIPIENTS
*/
func (service *Service) TransferPayout(context context.Context, caller, tokenID string, input TransferPayoutInput) (string, Payout, error) {
	if input.SeriesTitle != "" {
		return service.mintPayout(context, caller, input)
	}

	// The payout is computed against the pre-transfer owner: the seller
	// collects the owner share.
	payout, err := service.ComputePayout(context, tokenID, input.Balance, input.MaxRecipients)
	if err != nil {
		return "", nil, err
	}
	if err := service.tokens.Transfer(context, caller, tokenID, input.Receiver, input.ApprovalID, input.Memo); err != nil {
		return "", nil, err
	}

	service.logger.InfoContext(context, "payout_settled",
		slog.String("token_id", tokenID),
		slog.Uint64("balance", input.Balance),
		slog.Int("recipients", len(payout)),
	)
	return tokenID, payout, nil
}

// mintPayout settles a lazy mint: the token is created straight onto the
// receiver, and the payout splits against the minted token's owner.
func (service *Service) mintPayout(context context.Context, caller string, input TransferPayoutInput) (string, Payout, error) {
	published, err := service.series.GetSeries(context, input.SeriesTitle)
	if err != nil {
		return "", nil, err
	}
	// Reject an oversized table before the mint lands.
	if len(published.Royalty) > input.MaxRecipients {
		return "", nil, apperr.TooManyRecipients("The royalty table exceeds the recipient limit")
	}

	record, err := service.series.Mint(context, caller, input.SeriesTitle, input.Receiver)
	if err != nil {
		return "", nil, err
	}

	payout, err := split(published.Royalty, record.Owner, input.Balance, input.MaxRecipients)
	if err != nil {
		return "", nil, err
	}

	service.logger.InfoContext(context, "payout_settled",
		slog.String("token_id", record.ID),
		slog.Uint64("balance", input.Balance),
		slog.Int("recipients", len(payout)),
	)
	return record.ID, payout, nil
}

// # Payout Arithmetic

// split apportions balance across the royalty table with the owner taking
// the remainder share. Divisions floor; nothing is redistributed.
func split(table map[string]uint32, owner string, balance uint64, maxRecipients int) (Payout, error) {
	if len(table) > maxRecipients {
		return nil, apperr.TooManyRecipients("The royalty table exceeds the recipient limit")
	}

	payout := make(Payout, len(table)+1)
	var allotted uint64
	for account, bp := range table {
		if account == owner {
			// The owner's own royalty entry folds into the remainder share.
			continue
		}
		payout[account] += share(balance, uint64(bp))
		allotted += uint64(bp)
	}

	var ownerBP uint64
	if allotted < constants.MaxRoyaltyBasisPoints {
		ownerBP = constants.MaxRoyaltyBasisPoints - allotted
	}
	if ownerShare := share(balance, ownerBP); ownerShare > 0 {
		payout[owner] += ownerShare
	}
	return payout, nil
}

// share computes floor(bp x balance / 10000) without intermediate overflow.
func share(balance, bp uint64) uint64 {
	product := new(big.Int).Mul(new(big.Int).SetUint64(balance), new(big.Int).SetUint64(bp))
	return product.Div(product, big.NewInt(constants.MaxRoyaltyBasisPoints)).Uint64()
}
