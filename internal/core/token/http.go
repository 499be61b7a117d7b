// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	requestutil "github.com/satori-hq/nft-series/internal/platform/request"
	"github.com/satori-hq/nft-series/internal/platform/respond"
	"github.com/satori-hq/nft-series/internal/platform/validate"
	"github.com/satori-hq/nft-series/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for token ownership and approvals.
type Handler struct {
	service *Service
}

// NewHandler constructs a new token [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches token endpoints to the root API router. Token
// endpoints span both /tokens/... and /accounts/... prefixes.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/tokens", handler.ListTokens)
	api.Get("/tokens/{id}", handler.GetToken)
	api.Get("/tokens/{id}/approved", handler.IsApproved)
	api.Get("/accounts/{account}/tokens", handler.ListByOwner)
	api.Get("/accounts/{account}/supply", handler.SupplyByOwner)

	// Holder operations (Require authentication)
	api.Group(func(holder chi.Router) {
		holder.Use(middleware.RequireAuth)
		holder.Post("/tokens/{id}/transfer", handler.Transfer)
		holder.Post("/tokens/{id}/transfer-call", handler.TransferCall)
		holder.Post("/tokens/{id}/approvals", handler.Approve)
		holder.Delete("/tokens/{id}/approvals/{account}", handler.Revoke)
		holder.Delete("/tokens/{id}/approvals", handler.RevokeAll)
	})
}

// # Token Retrieval

/*
GET /api/v1/tokens.

Description: Returns a paginated roster of all tokens in the registry.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Token: Paginated list
*/
func (handler *Handler) ListTokens(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	tokens, total, err := handler.service.ListTokens(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: tokens,
		constants.FieldTotal: total,
	})
}

/*
GET /api/v1/tokens/{id}.

Description: Returns a single token with metadata resolved against its series.

Request:
  - id: string (Composite token id, "<series>:<seq>")

Response:
  - 200: Token: Resolved token view
  - 404: 404: ErrNotFound: Token not found
*/
func (handler *Handler) GetToken(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	token, err := handler.service.GetToken(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, token)
}

/*
GET /api/v1/tokens/{id}/approved.

Description: Reports whether an account holds an approval on the token,
optionally pinned to an exact approval id. A missing token answers false.

Request:
  - id: string (Composite token id)
  - account: string (Query, required)
  - approval_id: uint64 (Query, optional exact id)

Response:
  - 200: {approved: bool}
  - 400: 400: Validation: Missing account or malformed approval_id
*/
func (handler *Handler) IsApproved(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	account := request.URL.Query().Get("account")

	v := &validate.Validator{}
	v.Required("account", account)

	var approvalID *uint64
	if raw := request.URL.Query().Get("approval_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		v.Custom("approval_id", err != nil, "Must be an unsigned integer")
		approvalID = &parsed
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	approved, err := handler.service.IsApproved(request.Context(), id, account, approvalID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"approved": approved})
}

// # Account Views

/*
GET /api/v1/accounts/{account}/tokens.

Description: Returns a paginated roster of tokens owned by an account.

Request:
  - account: string
  - limit: int
  - page: int

Response:
  - 200: []Token: Paginated list
*/
func (handler *Handler) ListByOwner(writer http.ResponseWriter, request *http.Request) {
	account := requestutil.Param(request, "account")
	paginationParams := pagination.FromRequest(request)

	tokens, total, err := handler.service.ListTokensByOwner(request.Context(), account, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: tokens,
		constants.FieldTotal: total,
	})
}

/*
GET /api/v1/accounts/{account}/supply.

Description: Returns how many tokens the account owns.

Request:
  - account: string

Response:
  - 200: {supply: int}
*/
func (handler *Handler) SupplyByOwner(writer http.ResponseWriter, request *http.Request) {
	account := requestutil.Param(request, "account")

	supply, err := handler.service.SupplyByOwner(request.Context(), account)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"supply": supply})
}

// # Transfers

// transferRequest defines the inbound JSON schema for plain transfers.
type transferRequest struct {
	ReceiverID string  `json:"receiver_id"`
	ApprovalID *uint64 `json:"approval_id"`
	Memo       string  `json:"memo"`
}

/*
POST /api/v1/tokens/{id}/transfer.

Description: Moves the token to a new owner. The caller is either the owner
or an approved account. Every transfer clears the token's approvals.

Request:
  - id: string (Composite token id)
  - body: transferRequest

Response:
  - 200: Message: Success
  - 400: 400: ErrInvalidTransfer: Receiver already owns the token
  - 401: 401: ErrUnauthorized: Caller is neither owner nor approved
  - 404: 404: ErrNotFound: Token not found
  - 409: 409: ErrApprovalMismatch: Stale approval id
*/
func (handler *Handler) Transfer(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transferRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.AccountID("receiver_id", input.ReceiverID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Transfer(request.Context(), caller, id, input.ReceiverID, input.ApprovalID, input.Memo); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldMessage: "Token transferred"})
}

// transferCallRequest defines the inbound JSON schema for transfer-calls.
type transferCallRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Msg        string  `json:"msg"`
	ApprovalID *uint64 `json:"approval_id"`
}

/*
POST /api/v1/tokens/{id}/transfer-call.

Description: Moves the token to a receiver and notifies the receiver's
registered endpoint. The receiver may reject the token, rolling the
transfer back.

Request:
  - id: string (Composite token id)
  - body: transferCallRequest

Response:
  - 200: {transferred: bool}: Whether the transfer stuck
  - 401: 401: ErrUnauthorized: Caller is neither owner nor approved
  - 404: 404: ErrNotFound: Token not found
*/
func (handler *Handler) TransferCall(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transferCallRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.AccountID("receiver_id", input.ReceiverID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	transferred, err := handler.service.TransferCall(request.Context(), caller, id, input.ReceiverID, input.Msg, input.ApprovalID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"transferred": transferred})
}

// # Approvals

// approveRequest defines the inbound JSON schema for approvals.
type approveRequest struct {
	AccountID string `json:"account_id"`
}

/*
POST /api/v1/tokens/{id}/approvals.

Description: Grants an account the right to transfer the token on the
owner's behalf. Requires a non-zero attached deposit; new entries are
charged for their storage footprint, excess is refunded.

Request:
  - id: string (Composite token id)
  - body: approveRequest
  - X-Attached-Deposit: uint64 (Header)

Response:
  - 201: {approval_id: uint64}
  - 401: 401: ErrUnauthorized: Caller is not the owner
  - 402: 402: ErrInsufficientDeposit: Deposit does not cover storage
  - 404: 404: ErrNotFound: Token not found
*/
func (handler *Handler) Approve(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input approveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.AccountID("account_id", input.AccountID)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	approvalID, err := handler.service.Approve(request.Context(), caller, id, input.AccountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]uint64{"approval_id": approvalID})
}

/*
DELETE /api/v1/tokens/{id}/approvals/{account}.

Description: Removes a single account's approval on the token. Revoking an
account with no approval is a no-op.

Request:
  - id: string (Composite token id)
  - account: string

Response:
  - 204: No content
  - 401: 401: ErrUnauthorized: Caller is not the owner
  - 404: 404: ErrNotFound: Token not found
*/
func (handler *Handler) Revoke(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")
	account := requestutil.Param(request, "account")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Revoke(request.Context(), caller, id, account); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/tokens/{id}/approvals.

Description: Removes every approval on the token and refunds the storage
the entries held.

Request:
  - id: string (Composite token id)

Response:
  - 204: No content
  - 401: 401: ErrUnauthorized: Caller is not the owner
  - 404: 404: ErrNotFound: Token not found
*/
func (handler *Handler) RevokeAll(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RevokeAll(request.Context(), caller, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
