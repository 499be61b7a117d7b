// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Test Doubles

type stubRegistry struct {
	owner string
}

func (registry *stubRegistry) RegistryOwner(_ context.Context) (string, error) {
	return registry.owner, nil
}

type fixture struct {
	service *Service
	repo    *MemoryRepository
	tokens  *token.MemoryRepository
	sink    *events.MemorySink
}

const registryOwner = "satori"

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens := token.NewMemoryRepository()
	repo := NewMemoryRepository(tokens)
	sink := events.NewMemorySink()
	meter := deposit.NewMeter(1, deposit.NewMemoryBank())

	service := NewService(repo, &stubRegistry{owner: registryOwner}, meter, sink, slog.New(slog.DiscardHandler))
	return &fixture{service: service, repo: repo, tokens: tokens, sink: sink}
}

// funded returns a context carrying an attached deposit large enough for any
// single mint in these tests, seeded for a deterministic pool draw.
func funded(seed uint64) context.Context {
	ctx := deposit.WithAttached(context.Background(), 10_000)
	return entropy.WithSeed(ctx, seed)
}

func generativeInput(title string) CreateInput {
	return CreateInput{
		Title:  title,
		Media:  "https://cdn.example.com/" + title,
		Copies: 3,
		AssetPool: []PoolEntry{
			{AssetID: "a", Filetype: "png", Remaining: 2},
			{AssetID: "b", Filetype: "png", Remaining: 1},
		},
	}
}

// # Publication Tests

func TestCreateSeries(t *testing.T) {
	f := newFixture(t)

	series, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	// 1. The series receives an id, a slug and the caller as owner.
	assert.Equal(t, uint64(1), series.ID)
	assert.Equal(t, "sunset-valley", series.Slug)
	assert.Equal(t, registryOwner, series.Owner)
	require.NotNil(t, series.Copies)
	assert.Equal(t, uint64(3), *series.Copies)

	// 2. The title is the unique handle.
	_, err = f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists))
}

func TestCreateSeries_OnlyRegistryOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateSeries(context.Background(), "mallory", generativeInput("Sunset Valley"))
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

func TestCreateSeries_SupplyMismatch(t *testing.T) {
	f := newFixture(t)

	input := generativeInput("Sunset Valley")
	input.Copies = 5
	_, err := f.service.CreateSeries(context.Background(), registryOwner, input)
	assert.True(t, apperr.IsCode(err, apperr.CodeSupplyMismatch))
}

func TestCreateSeries_RoyaltyBounds(t *testing.T) {
	f := newFixture(t)

	input := generativeInput("Sunset Valley")
	input.Royalty = map[string]uint32{"alice": 6_000, "bob": 5_000}
	_, err := f.service.CreateSeries(context.Background(), registryOwner, input)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))
}

// # Minting Tests

func TestMint_SupplyConservation(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	// 1. Sequence numbers run 1..copies in mint order.
	for seq := uint64(1); seq <= 3; seq++ {
		record, err := f.service.Mint(funded(seq), registryOwner, "Sunset Valley", "")
		require.NoError(t, err)
		assert.Equal(t, seq, record.Seq)
		assert.Equal(t, token.MakeID(1, seq), record.ID)
	}

	// 2. The cap holds: a fourth mint is rejected.
	_, err = f.service.Mint(funded(4), registryOwner, "Sunset Valley", "")
	assert.True(t, apperr.IsCode(err, apperr.CodeSupplyExhausted))

	minted, copies, err := f.service.Supply(context.Background(), "Sunset Valley")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), minted)
	require.NotNil(t, copies)
	assert.Equal(t, uint64(3), *copies)
}

func TestMint_DrawDepletesPool(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	// Seed 1 on a two-entry pool draws index 1: asset "b" with one copy.
	record, err := f.service.Mint(funded(1), registryOwner, "Sunset Valley", "")
	require.NoError(t, err)
	assert.Equal(t, "b", record.Metadata.AssetID)

	// The depleted entry dropped out of the pool.
	series, err := f.service.GetSeries(context.Background(), "Sunset Valley")
	require.NoError(t, err)
	require.Len(t, series.AssetPool, 1)
	assert.Equal(t, "a", series.AssetPool[0].AssetID)
}

func TestMint_SingleEntryPool(t *testing.T) {
	f := newFixture(t)
	input := CreateInput{
		Title:  "Open Horizon",
		Media:  "https://cdn.example.com/open-horizon",
		Copies: 2,
		AssetPool: []PoolEntry{
			{AssetID: "cover", Filetype: "jpg", Remaining: 2},
		},
	}
	_, err := f.service.CreateSeries(context.Background(), registryOwner, input)
	require.NoError(t, err)

	// Every mint shares the one asset and still consumes a unit of its supply.
	record, err := f.service.Mint(funded(1), registryOwner, "Open Horizon", "")
	require.NoError(t, err)
	assert.Equal(t, "cover", record.Metadata.AssetID)

	series, err := f.service.GetSeries(context.Background(), "Open Horizon")
	require.NoError(t, err)
	require.Len(t, series.AssetPool, 1)
	assert.Equal(t, uint64(1), series.AssetPool[0].Remaining)

	record, err = f.service.Mint(funded(2), registryOwner, "Open Horizon", "")
	require.NoError(t, err)
	assert.Equal(t, "cover", record.Metadata.AssetID)

	series, err = f.service.GetSeries(context.Background(), "Open Horizon")
	require.NoError(t, err)
	assert.Empty(t, series.AssetPool)
}

func TestMint_PoolEmptyWhenFullyMinted(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	// Seed 1 depletes the one-copy entry first, leaving a single-entry pool
	// that must keep depleting for the remaining mints.
	for seq := uint64(1); seq <= 3; seq++ {
		_, err := f.service.Mint(funded(1), registryOwner, "Sunset Valley", "")
		require.NoError(t, err)
	}

	series, err := f.service.GetSeries(context.Background(), "Sunset Valley")
	require.NoError(t, err)
	assert.Empty(t, series.AssetPool)
}

func TestMint_OnlySeriesOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	_, err = f.service.Mint(funded(1), "mallory", "Sunset Valley", "")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

func TestMint_Receiver(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	record, err := f.service.Mint(funded(0), registryOwner, "Sunset Valley", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Owner)

	// A mint event carried the receiver.
	emitted := f.sink.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeMint, emitted[0].Event)
}

func TestMint_RequiresDeposit(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	_, err = f.service.Mint(context.Background(), registryOwner, "Sunset Valley", "")
	assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientDeposit))
}

func TestMint_MissingPool(t *testing.T) {
	f := newFixture(t)

	// A poolless series cannot pass publication validation, but legacy rows
	// may carry none. Seed the repository directly.
	series := &Series{Title: "Bare", Media: "https://cdn.example.com/bare", Owner: registryOwner}
	require.NoError(t, f.repo.Create(context.Background(), series))

	_, err := f.service.Mint(funded(0), registryOwner, "Bare", "")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

// # Management Tests

func TestCapCopies(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)
	_, err = f.service.Mint(funded(0), registryOwner, "Sunset Valley", "")
	require.NoError(t, err)

	copies, err := f.service.CapCopies(context.Background(), registryOwner, "Sunset Valley")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), copies)

	// The cap binds immediately.
	_, err = f.service.Mint(funded(1), registryOwner, "Sunset Valley", "")
	assert.True(t, apperr.IsCode(err, apperr.CodeSupplyExhausted))
}

func TestDeleteSeries(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	// 1. A series with minted tokens cannot be deleted.
	_, err = f.service.Mint(funded(0), registryOwner, "Sunset Valley", "")
	require.NoError(t, err)
	err = f.service.DeleteSeries(context.Background(), registryOwner, "Sunset Valley")
	assert.True(t, apperr.IsCode(err, apperr.CodeNotEmpty))

	// 2. An empty series deletes and frees its title for reuse.
	_, err = f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Second Wind"))
	require.NoError(t, err)
	require.NoError(t, f.service.DeleteSeries(context.Background(), registryOwner, "Second Wind"))

	_, err = f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Second Wind"))
	require.NoError(t, err)
}

func TestUpdateSeries(t *testing.T) {
	f := newFixture(t)
	description := "an evening set"
	input := generativeInput("Sunset Valley")
	input.Description = &description
	_, err := f.service.CreateSeries(context.Background(), registryOwner, input)
	require.NoError(t, err)
	_, err = f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Open Horizon"))
	require.NoError(t, err)

	// 1. Only the series owner can update.
	_, err = f.service.UpdateSeries(context.Background(), "mallory", "Sunset Valley", UpdateInput{})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 2. Renaming onto a taken title collides.
	taken := "Open Horizon"
	_, err = f.service.UpdateSeries(context.Background(), registryOwner, "Sunset Valley", UpdateInput{Title: &taken})
	assert.True(t, apperr.IsCode(err, apperr.CodeAlreadyExists))

	// 3. A rename refreshes the slug; clearing drops the description.
	fresh := "Dawn Valley"
	updated, err := f.service.UpdateSeries(context.Background(), registryOwner, "Sunset Valley", UpdateInput{
		Title:            &fresh,
		ClearDescription: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "dawn-valley", updated.Slug)
	assert.Nil(t, updated.Description)
}

// # Metadata Resolution Support

func TestInfoByID(t *testing.T) {
	f := newFixture(t)
	created, err := f.service.CreateSeries(context.Background(), registryOwner, generativeInput("Sunset Valley"))
	require.NoError(t, err)

	info, err := f.service.InfoByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunset Valley", info.Title)
	require.NotNil(t, info.Copies)
	assert.Equal(t, uint64(3), *info.Copies)

	_, err = f.service.InfoByID(context.Background(), 99)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
