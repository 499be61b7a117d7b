// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/deposit"
)

// # Approval Operations

/*
Approve grants an account the right to transfer the token on the owner's
behalf. Re-approving an already approved account replaces the entry with a
fresh approval id; the per-token counter advances either way.

A new entry is charged for its storage footprint from the attached deposit.
Replacements hold no new storage and are charged nothing, but the request
still needs a non-zero attached deposit. Any excess is refunded.

Parameters:
  - context: context.Context
  - caller: string (must be the token owner)
  - id: string (composite token id)
  - account: string (account to approve)

Returns:
  - uint64: The approval id granted to the account
  - error: NOT_FOUND, UNAUTHORIZED or INSUFFICIENT_DEPOSIT
*/
func (service *Service) Approve(context context.Context, caller, id, account string) (uint64, error) {
	record, err := service.repo.Get(context, id)
	if err != nil {
		return 0, err
	}
	if record.Owner != caller {
		return 0, apperr.Unauthorized("Only the token owner can approve accounts")
	}

	if deposit.Attached(context) == 0 {
		return 0, apperr.InsufficientDeposit("Requires a non-zero attached deposit")
	}

	var bytes uint64
	if _, present := record.Approvals[account]; !present {
		bytes = ApprovalBytes(account)
	}
	if err := service.meter.Check(context, bytes); err != nil {
		return 0, err
	}

	approvalID, _, err := service.repo.Approve(context, id, account)
	if err != nil {
		return 0, err
	}
	if _, err := service.meter.Settle(context, caller, bytes, "approval"); err != nil {
		service.logger.ErrorContext(context, "deposit_refund_failed",
			slog.String("token_id", id),
			slog.Any("error", err),
		)
	}

	service.logger.InfoContext(context, "token_approved",
		slog.String("token_id", id),
		slog.String("account", account),
		slog.Uint64("approval_id", approvalID),
	)
	return approvalID, nil
}

/*
Revoke removes a single account's approval on the token. Revoking an account
that holds no approval is a no-op. The storage held by a removed entry is
refunded to the owner.

Parameters:
  - context: context.Context
  - caller: string (must be the token owner)
  - id: string (composite token id)
  - account: string (account to revoke)

Returns:
  - error: NOT_FOUND or UNAUTHORIZED
*/
func (service *Service) Revoke(context context.Context, caller, id, account string) error {
	record, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}
	if record.Owner != caller {
		return apperr.Unauthorized("Only the token owner can revoke approvals")
	}

	removed, err := service.repo.RemoveApproval(context, id, account)
	if err != nil {
		return err
	}
	if removed {
		if err := service.meter.Release(context, caller, ApprovalBytes(account), "approval_revoked"); err != nil {
			service.logger.ErrorContext(context, "approval_refund_failed",
				slog.String("token_id", id),
				slog.Any("error", err),
			)
		}
	}
	return nil
}

/*
RevokeAll removes every approval on the token and refunds the storage the
entries held to the owner.

Parameters:
  - context: context.Context
  - caller: string (must be the token owner)
  - id: string (composite token id)

Returns:
  - error: NOT_FOUND or UNAUTHORIZED
*/
func (service *Service) RevokeAll(context context.Context, caller, id string) error {
	record, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}
	if record.Owner != caller {
		return apperr.Unauthorized("Only the token owner can revoke approvals")
	}

	cleared, err := service.repo.ClearApprovals(context, id)
	if err != nil {
		return err
	}
	service.releaseApprovals(context, caller, cleared, "approvals_cleared")
	return nil
}

/*
IsApproved reports whether the account holds an approval on the token. When
approvalID is non-nil the held id must match it exactly.

A missing token answers false rather than erroring, so callers can probe
without distinguishing absence from denial.

Parameters:
  - context: context.Context
  - id: string (composite token id)
  - account: string
  - approvalID: *uint64 (optional exact id to match)

Returns:
  - bool: Whether the approval holds
  - error: Storage errors only
*/
func (service *Service) IsApproved(context context.Context, id, account string, approvalID *uint64) (bool, error) {
	record, err := service.repo.Get(context, id)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return false, nil
		}
		return false, err
	}

	held, present := record.Approvals[account]
	if !present {
		return false, nil
	}
	if approvalID != nil && held != *approvalID {
		return false, nil
	}
	return true, nil
}
