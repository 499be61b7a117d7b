// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/events"
)

// # Transfer Operations

// Undo captures the state a transfer displaced, so a rejected transfer-call
// can put it back. PreviousApprovals keeps the original approval ids; a
// rollback restores them verbatim without advancing the counter.
type Undo struct {
	PreviousOwner     string
	PreviousApprovals map[string]uint64
}

/*
Transfer moves the token to a new owner. The sender is either the owner or
an approved account; an approved sender may pin the exact approval id it
expects to hold, guarding against a concurrent re-approval.

Every transfer clears the token's approvals.

Parameters:
  - context: context.Context
  - sender: string (owner or approved account)
  - id: string (composite token id)
  - receiver: string
  - approvalID: *uint64 (optional expected approval id)
  - memo: string (free-form, logged only)

Returns:
  - error: NOT_FOUND, UNAUTHORIZED, APPROVAL_MISMATCH or INVALID_TRANSFER
*/
func (service *Service) Transfer(context context.Context, sender, id, receiver string, approvalID *uint64, memo string) error {
	_, err := service.transfer(context, sender, id, receiver, approvalID, memo)
	return err
}

/*
TransferCall moves the token to a receiver account and notifies the
receiver's registered endpoint. The receiver may reject the token, in which
case the transfer is rolled back.

Parameters:
  - context: context.Context
  - sender: string (owner or approved account)
  - id: string (composite token id)
  - receiver: string
  - msg: string (forwarded to the receiver endpoint)
  - approvalID: *uint64 (optional expected approval id)

Returns:
  - bool: Whether the transfer stuck (false when rolled back)
  - error: NOT_FOUND, UNAUTHORIZED, APPROVAL_MISMATCH or INVALID_TRANSFER
*/
func (service *Service) TransferCall(context context.Context, sender, id, receiver, msg string, approvalID *uint64) (bool, error) {
	undo, err := service.transfer(context, sender, id, receiver, approvalID, msg)
	if err != nil {
		return false, err
	}

	revert, err := service.notifier.OnTransfer(context, receiver, sender, undo.PreviousOwner, id, msg)
	if err != nil {
		service.logger.WarnContext(context, "receiver_notify_failed",
			slog.String("token_id", id),
			slog.String("receiver", receiver),
			slog.Any("error", err),
		)
	}

	return service.ResolveTransfer(context, id, receiver, undo, revert)
}

/*
ResolveTransfer finishes a transfer-call after the receiver answered. When
the receiver accepted, the transfer is final. When it rejected, the token is
returned to the previous owner, unless it has already moved on or been
destroyed in the meantime, in which case the rejection is moot.

Parameters:
  - context: context.Context
  - id: string (composite token id)
  - receiver: string (account the transfer delivered to)
  - undo: *Undo (state captured by the transfer)
  - revert: bool (whether the receiver rejected the token)

Returns:
  - bool: Whether the transfer stuck
  - error: Storage errors only
*/
func (service *Service) ResolveTransfer(context context.Context, id, receiver string, undo *Undo, revert bool) (bool, error) {
	if !revert {
		return true, nil
	}

	record, err := service.repo.Get(context, id)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			// Destroyed during the window. The token is gone; only the
			// storage the original approvals held can be returned.
			service.releaseApprovals(context, undo.PreviousOwner, undo.PreviousApprovals, "transfer_reverted")
			return true, nil
		}
		return false, err
	}

	if record.Owner != receiver {
		// Moved on during the window; the later transfer wins.
		return true, nil
	}

	// Still held by the receiver: put the previous state back. Approvals the
	// receiver granted during the window are discarded, their storage
	// refunded to the receiver.
	service.releaseApprovals(context, receiver, record.Approvals, "transfer_reverted")
	if err := service.repo.Restore(context, id, undo.PreviousOwner, undo.PreviousApprovals); err != nil {
		return false, err
	}

	service.emit(context, events.NewTransfer(receiver, undo.PreviousOwner, id))
	service.logger.InfoContext(context, "token_transfer_reverted",
		slog.String("token_id", id),
		slog.String("owner", undo.PreviousOwner),
	)
	return false, nil
}

// transfer validates the sender, moves the token and emits the transfer
// event. The returned Undo carries the displaced owner and approvals.
func (service *Service) transfer(context context.Context, sender, id, receiver string, approvalID *uint64, memo string) (*Undo, error) {
	record, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	owner := record.Owner
	if sender != owner {
		held, present := record.Approvals[sender]
		if !present {
			return nil, apperr.Unauthorized("Sender not approved")
		}
		if approvalID != nil && held != *approvalID {
			return nil, apperr.ApprovalMismatch("The actual approval_id is different from the given approval_id")
		}
	}
	if receiver == owner {
		return nil, apperr.InvalidTransfer("The token owner and the receiver should be different")
	}

	cleared, err := service.repo.Transfer(context, id, owner, receiver)
	if err != nil {
		return nil, err
	}

	service.emit(context, events.NewTransfer(owner, receiver, id))
	service.logger.InfoContext(context, "token_transferred",
		slog.String("token_id", id),
		slog.String("old_owner", owner),
		slog.String("new_owner", receiver),
		slog.String("memo", memo),
	)

	return &Undo{PreviousOwner: owner, PreviousApprovals: cleared}, nil
}
