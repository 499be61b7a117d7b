// Copyright (c) 2026 Satori HQ. All rights reserved.

package royalty

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satori-hq/nft-series/internal/core/series"
	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Test Doubles

type stubRegistry struct{}

func (stubRegistry) RegistryOwner(_ context.Context) (string, error) {
	return registryOwner, nil
}

type stubNotifier struct{}

func (stubNotifier) OnTransfer(_ context.Context, _, _, _, _, _ string) (bool, error) {
	return false, nil
}

type fixture struct {
	service *Service
	tokens  *token.Service
	series  *series.Service
}

const registryOwner = "satori"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	tokenRepo := token.NewMemoryRepository()
	seriesRepo := series.NewMemoryRepository(tokenRepo)
	meter := deposit.NewMeter(1, deposit.NewMemoryBank())
	sink := events.NewMemorySink()

	seriesService := series.NewService(seriesRepo, stubRegistry{}, meter, sink, logger)
	tokenService := token.NewService(tokenRepo, seriesService, meter, sink, stubNotifier{}, logger)

	return &fixture{
		service: NewService(tokenService, seriesService, logger),
		tokens:  tokenService,
		series:  seriesService,
	}
}

func funded() context.Context {
	return entropy.WithSeed(deposit.WithAttached(context.Background(), 10_000), 0)
}

// publish creates a single-asset series with the given royalty table and
// mints its first token to the registry owner.
func publish(t *testing.T, f *fixture, title string, copies uint64, royalty map[string]uint32) string {
	t.Helper()

	_, err := f.series.CreateSeries(context.Background(), registryOwner, series.CreateInput{
		Title:   title,
		Media:   "https://cdn.example.com/assets",
		Copies:  copies,
		Royalty: royalty,
		AssetPool: []series.PoolEntry{
			{AssetID: "cover", Filetype: "png", Remaining: copies},
		},
	})
	require.NoError(t, err)

	record, err := f.series.Mint(funded(), registryOwner, title, "")
	require.NoError(t, err)
	return record.ID
}

// # Payout Computation Tests

func TestComputePayout(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{"alice": 500, "bob": 1_000})

	payout, err := f.service.ComputePayout(context.Background(), id, 10_000, 10)
	require.NoError(t, err)

	assert.Equal(t, Payout{
		"alice":       500,
		"bob":         1_000,
		registryOwner: 8_500,
	}, payout)
}

func TestComputePayout_FloorsAndKeepsLoss(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{"alice": 3_333})

	// floor(3 x 3333 / 10000) = 0 and floor(3 x 6667 / 10000) = 2: the
	// remaining unit is never redistributed.
	payout, err := f.service.ComputePayout(context.Background(), id, 3, 10)
	require.NoError(t, err)

	assert.Equal(t, Payout{
		"alice":       0,
		registryOwner: 2,
	}, payout)
}

func TestComputePayout_OwnerEntryFolds(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{registryOwner: 1_000, "alice": 500})

	// The owner's own royalty entry folds into the remainder share instead
	// of producing a second line.
	payout, err := f.service.ComputePayout(context.Background(), id, 10_000, 10)
	require.NoError(t, err)

	assert.Equal(t, Payout{
		"alice":       500,
		registryOwner: 9_500,
	}, payout)
}

func TestComputePayout_TooManyRecipients(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{"alice": 500, "bob": 1_000})

	_, err := f.service.ComputePayout(context.Background(), id, 10_000, 1)
	assert.True(t, apperr.IsCode(err, apperr.CodeTooManyRecipients))
}

func TestComputePayout_ZeroOwnerShareOmitted(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{"alice": 10_000})

	payout, err := f.service.ComputePayout(context.Background(), id, 1_000, 10)
	require.NoError(t, err)

	assert.Equal(t, Payout{"alice": 1_000}, payout)
	_, listed := payout[registryOwner]
	assert.False(t, listed)
}

// # Settlement Tests

func TestTransferPayout(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, map[string]uint32{"alice": 500})

	tokenID, payout, err := f.service.TransferPayout(context.Background(), registryOwner, id, TransferPayoutInput{
		Receiver:      "bob",
		Balance:       10_000,
		MaxRecipients: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, id, tokenID)

	// The seller side of the payout goes to the pre-transfer owner.
	assert.Equal(t, Payout{
		"alice":       500,
		registryOwner: 9_500,
	}, payout)

	moved, err := f.tokens.GetToken(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "bob", moved.Owner)
}

func TestTransferPayout_LazyMint(t *testing.T) {
	f := newFixture(t)
	_, err := f.series.CreateSeries(funded(), registryOwner, series.CreateInput{
		Title:   "Open Horizon",
		Media:   "https://cdn.example.com/assets",
		Copies:  2,
		Royalty: map[string]uint32{"alice": 1_000},
		AssetPool: []series.PoolEntry{
			{AssetID: "cover", Filetype: "png", Remaining: 2},
		},
	})
	require.NoError(t, err)

	tokenID, payout, err := f.service.TransferPayout(funded(), registryOwner, "", TransferPayoutInput{
		Receiver:      "bob",
		Balance:       10_000,
		MaxRecipients: 10,
		SeriesTitle:   "Open Horizon",
	})
	require.NoError(t, err)

	// The token was minted straight onto the receiver.
	minted, err := f.tokens.GetToken(context.Background(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, "bob", minted.Owner)

	// The minted token's owner takes the seller's side.
	assert.Equal(t, Payout{
		"alice": 1_000,
		"bob":   9_000,
	}, payout)
}

func TestTransferPayout_LazyMintReceiverEntryFolds(t *testing.T) {
	f := newFixture(t)
	_, err := f.series.CreateSeries(funded(), registryOwner, series.CreateInput{
		Title:   "Open Horizon",
		Media:   "https://cdn.example.com/assets",
		Copies:  1,
		Royalty: map[string]uint32{"bob": 1_000, "alice": 500},
		AssetPool: []series.PoolEntry{
			{AssetID: "cover", Filetype: "png", Remaining: 1},
		},
	})
	require.NoError(t, err)

	// The receiver's own royalty entry folds into its remainder share.
	_, payout, err := f.service.TransferPayout(funded(), registryOwner, "", TransferPayoutInput{
		Receiver:      "bob",
		Balance:       10_000,
		MaxRecipients: 10,
		SeriesTitle:   "Open Horizon",
	})
	require.NoError(t, err)

	assert.Equal(t, Payout{
		"alice": 500,
		"bob":   9_500,
	}, payout)
}

func TestTransferPayout_LazyMintRecipientLimit(t *testing.T) {
	f := newFixture(t)
	_, err := f.series.CreateSeries(funded(), registryOwner, series.CreateInput{
		Title:   "Open Horizon",
		Media:   "https://cdn.example.com/assets",
		Copies:  1,
		Royalty: map[string]uint32{"alice": 500, "bob": 500},
		AssetPool: []series.PoolEntry{
			{AssetID: "cover", Filetype: "png", Remaining: 1},
		},
	})
	require.NoError(t, err)

	// An oversized table is rejected before anything mints.
	_, _, err = f.service.TransferPayout(funded(), registryOwner, "", TransferPayoutInput{
		Receiver:      "carol",
		Balance:       10_000,
		MaxRecipients: 1,
		SeriesTitle:   "Open Horizon",
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeTooManyRecipients))

	minted, _, err := f.series.Supply(context.Background(), "Open Horizon")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), minted)
}

func TestTransferPayout_ApprovalGuard(t *testing.T) {
	f := newFixture(t)
	id := publish(t, f, "Sunset Valley", 3, nil)

	approvalID, err := f.tokens.Approve(funded(), registryOwner, id, "market")
	require.NoError(t, err)

	stale := approvalID + 1
	_, _, err = f.service.TransferPayout(context.Background(), "market", id, TransferPayoutInput{
		Receiver:      "bob",
		Balance:       1_000,
		MaxRecipients: 10,
		ApprovalID:    &stale,
	})
	assert.True(t, apperr.IsCode(err, apperr.CodeApprovalMismatch))
}
