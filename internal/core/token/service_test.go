// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Test Doubles

type stubSeriesReader struct {
	infos map[uint64]*SeriesInfo
}

func (reader *stubSeriesReader) InfoByID(_ context.Context, seriesID uint64) (*SeriesInfo, error) {
	info, ok := reader.infos[seriesID]
	if !ok {
		return nil, apperr.NotFound("Series")
	}
	return info, nil
}

type stubNotifier struct {
	revert bool
	err    error
	calls  int
}

func (notifier *stubNotifier) OnTransfer(_ context.Context, _, _, _, _, _ string) (bool, error) {
	notifier.calls++
	return notifier.revert, notifier.err
}

type fixture struct {
	service  *Service
	repo     *MemoryRepository
	bank     *deposit.MemoryBank
	sink     *events.MemorySink
	notifier *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	copies := uint64(3)
	reader := &stubSeriesReader{infos: map[uint64]*SeriesInfo{
		1: {ID: 1, Title: "Sunset Valley", Media: "https://cdn.example.com/sunset-valley", Copies: &copies},
		2: {ID: 2, Title: "Open Horizon", Media: "https://cdn.example.com/open-horizon"},
	}}

	repo := NewMemoryRepository()
	bank := deposit.NewMemoryBank()
	sink := events.NewMemorySink()
	notifier := &stubNotifier{}

	service := NewService(repo, reader, deposit.NewMeter(1, bank), sink, notifier, slog.New(slog.DiscardHandler))
	return &fixture{service: service, repo: repo, bank: bank, sink: sink, notifier: notifier}
}

// funded returns a context carrying an attached deposit large enough for any
// single approval in these tests.
func funded() context.Context {
	return deposit.WithAttached(context.Background(), 1_000)
}

// # Identifier Tests

func TestParseID(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		seriesID, seq, err := ParseID(MakeID(7, 3))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), seriesID)
		assert.Equal(t, uint64(3), seq)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, id := range []string{"", "7", "7:", ":3", "7:0", "a:b", "7:3:1"} {
			_, _, err := ParseID(id)
			assert.Error(t, err, "id %q", id)
		}
	})
}

// # Metadata Resolution Tests

func TestGetToken_ResolvesMetadata(t *testing.T) {
	f := newFixture(t)
	extra := "7.json"
	f.repo.Insert(&Record{
		ID: "1:2", SeriesID: 1, Seq: 2, Owner: "alice",
		Metadata: MetadataRecord{Version: MetadataVersionCurrent, AssetID: "7", Filetype: "png", Extra: &extra},
	})

	token, err := f.service.GetToken(context.Background(), "1:2")
	require.NoError(t, err)

	// 1. Edition title folds in sequence and copies.
	assert.Equal(t, "Sunset Valley — 2/3", token.Metadata.Title)
	// 2. Media and extra resolve under the series base path.
	assert.Equal(t, "https://cdn.example.com/sunset-valley/7.png", token.Metadata.Media)
	require.NotNil(t, token.Metadata.Extra)
	assert.Equal(t, "https://cdn.example.com/sunset-valley/7.json", *token.Metadata.Extra)
}

func TestGetToken_UncappedSeries(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "2:1", SeriesID: 2, Seq: 1, Owner: "alice"})

	token, err := f.service.GetToken(context.Background(), "2:1")
	require.NoError(t, err)

	// No copies set: the plain series title and base media are used.
	assert.Equal(t, "Open Horizon", token.Metadata.Title)
	assert.Equal(t, "https://cdn.example.com/open-horizon", token.Metadata.Media)
	assert.Nil(t, token.Metadata.Copies)
}

// # Approval Tests

func TestApprove_MonotonicIDs(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})

	// 1. First approvals receive ids 1 and 2.
	id1, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)

	id2, err := f.service.Approve(funded(), "alice", "1:1", "carol")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), id2)

	// 2. Re-approving replaces the entry with a fresh id.
	id3, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id3)

	// 3. The counter never rewinds, even after a revoke.
	require.NoError(t, f.service.Revoke(context.Background(), "alice", "1:1", "bob"))
	id4, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), id4)
}

func TestApprove_DepositRules(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})

	// 1. A zero attached deposit is rejected outright.
	_, err := f.service.Approve(context.Background(), "alice", "1:1", "bob")
	assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientDeposit))

	// 2. A deposit below the new entry's storage cost is rejected.
	short := deposit.WithAttached(context.Background(), ApprovalBytes("bob")-1)
	_, err = f.service.Approve(short, "alice", "1:1", "bob")
	assert.True(t, apperr.IsCode(err, apperr.CodeInsufficientDeposit))

	// 3. The excess over the storage cost is refunded.
	attached := ApprovalBytes("bob") + 40
	_, err = f.service.Approve(deposit.WithAttached(context.Background(), attached), "alice", "1:1", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(40), f.bank.Balance("alice"))

	// 4. Replacing an existing entry holds no new storage: the whole deposit
	// comes back.
	_, err = f.service.Approve(deposit.WithAttached(context.Background(), 5), "alice", "1:1", "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(45), f.bank.Balance("alice"))
}

func TestApprove_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})

	_, err := f.service.Approve(funded(), "bob", "1:1", "carol")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	_, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)

	// 1. Revoking refunds the entry's storage to the owner.
	before := f.bank.Balance("alice")
	require.NoError(t, f.service.Revoke(context.Background(), "alice", "1:1", "bob"))
	assert.Equal(t, before+ApprovalBytes("bob"), f.bank.Balance("alice"))

	// 2. Revoking an absent account is a no-op.
	require.NoError(t, f.service.Revoke(context.Background(), "alice", "1:1", "bob"))
	assert.Equal(t, before+ApprovalBytes("bob"), f.bank.Balance("alice"))
}

func TestRevokeAll(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	_, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	_, err = f.service.Approve(funded(), "alice", "1:1", "carol")
	require.NoError(t, err)

	before := f.bank.Balance("alice")
	require.NoError(t, f.service.RevokeAll(context.Background(), "alice", "1:1"))
	assert.Equal(t, before+ApprovalBytes("bob")+ApprovalBytes("carol"), f.bank.Balance("alice"))

	token, err := f.service.GetToken(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Empty(t, token.ApprovedAccounts)
}

func TestIsApproved(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	grantedID, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)

	tests := []struct {
		name       string
		tokenID    string
		account    string
		approvalID *uint64
		want       bool
	}{
		{"held approval", "1:1", "bob", nil, true},
		{"exact id match", "1:1", "bob", &grantedID, true},
		{"stale id", "1:1", "bob", ptr(grantedID + 1), false},
		{"unapproved account", "1:1", "carol", nil, false},
		{"missing token answers false", "9:9", "bob", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.service.IsApproved(context.Background(), tt.tokenID, tt.account, tt.approvalID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func ptr(v uint64) *uint64 { return &v }

// # Transfer Tests

func TestTransfer(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	approvalID, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)

	// 1. An unapproved sender is rejected.
	err = f.service.Transfer(context.Background(), "carol", "1:1", "dave", nil, "")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 2. A stale expected approval id is rejected.
	stale := approvalID + 1
	err = f.service.Transfer(context.Background(), "bob", "1:1", "dave", &stale, "")
	assert.True(t, apperr.IsCode(err, apperr.CodeApprovalMismatch))

	// 3. Transferring to the current owner is invalid.
	err = f.service.Transfer(context.Background(), "bob", "1:1", "alice", &approvalID, "")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidTransfer))

	// 4. An approved sender with the matching id succeeds and the transfer
	// clears all approvals.
	require.NoError(t, f.service.Transfer(context.Background(), "bob", "1:1", "dave", &approvalID, "gift"))

	record, err := f.repo.Get(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, "dave", record.Owner)
	assert.Empty(t, record.Approvals)

	// 5. A transfer event was emitted.
	emitted := f.sink.Events()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeTransfer, emitted[0].Event)
}

func TestTransferCall_Accepted(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})

	transferred, err := f.service.TransferCall(context.Background(), "alice", "1:1", "bob", "hello", nil)
	require.NoError(t, err)
	assert.True(t, transferred)
	assert.Equal(t, 1, f.notifier.calls)

	record, err := f.repo.Get(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, "bob", record.Owner)
}

func TestTransferCall_Rejected(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	approvalID, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	f.notifier.revert = true

	transferred, err := f.service.TransferCall(context.Background(), "alice", "1:1", "carol", "hello", nil)
	require.NoError(t, err)
	assert.False(t, transferred)

	// The token returned to the previous owner with the original approval map
	// and the original approval ids intact.
	record, err := f.repo.Get(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Owner)
	assert.Equal(t, map[string]uint64{"bob": approvalID}, record.Approvals)
}

func TestTransferCall_RejectedAfterWindowApprovals(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "alice"})
	approvalID, err := f.service.Approve(funded(), "alice", "1:1", "bob")
	require.NoError(t, err)
	f.notifier.revert = true

	// The receiver grants an approval while holding the token; the rollback
	// discards it and refunds its storage to the receiver.
	undo := &Undo{PreviousOwner: "alice", PreviousApprovals: map[string]uint64{"bob": approvalID}}
	_, err = f.repo.Transfer(context.Background(), "1:1", "alice", "carol")
	require.NoError(t, err)
	_, err = f.service.Approve(funded(), "carol", "1:1", "dave")
	require.NoError(t, err)
	before := f.bank.Balance("carol")

	final, err := f.service.ResolveTransfer(context.Background(), "1:1", "carol", undo, true)
	require.NoError(t, err)
	assert.False(t, final)

	record, err := f.repo.Get(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Owner)
	assert.Equal(t, map[string]uint64{"bob": approvalID}, record.Approvals)
	assert.Equal(t, before+ApprovalBytes("dave"), f.bank.Balance("carol"))
}

// # Rollback Edge Cases

func TestResolveTransfer_MovedAgain(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "bob"})

	// The token moved on before the rejection arrived: the later transfer
	// wins and the rejection is a no-op.
	undo := &Undo{PreviousOwner: "alice", PreviousApprovals: map[string]uint64{}}
	_, err := f.repo.Transfer(context.Background(), "1:1", "bob", "carol")
	require.NoError(t, err)

	final, err := f.service.ResolveTransfer(context.Background(), "1:1", "bob", undo, true)
	require.NoError(t, err)
	assert.True(t, final)

	record, err := f.repo.Get(context.Background(), "1:1")
	require.NoError(t, err)
	assert.Equal(t, "carol", record.Owner)
}

func TestResolveTransfer_Destroyed(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "bob"})
	f.repo.Delete("1:1")

	// The token was destroyed during the window: only the storage the
	// original approvals held can come back.
	undo := &Undo{PreviousOwner: "alice", PreviousApprovals: map[string]uint64{"bob": 1}}
	final, err := f.service.ResolveTransfer(context.Background(), "1:1", "bob", undo, true)
	require.NoError(t, err)
	assert.True(t, final)
	assert.Equal(t, ApprovalBytes("bob"), f.bank.Balance("alice"))
}

func TestResolveTransfer_Accepted(t *testing.T) {
	f := newFixture(t)
	f.repo.Insert(&Record{ID: "1:1", SeriesID: 1, Seq: 1, Owner: "bob"})

	final, err := f.service.ResolveTransfer(context.Background(), "1:1", "bob", &Undo{PreviousOwner: "alice"}, false)
	require.NoError(t, err)
	assert.True(t, final)
}
