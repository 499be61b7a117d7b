// Copyright (c) 2026 Satori HQ. All rights reserved.

package royalty

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	requestutil "github.com/satori-hq/nft-series/internal/platform/request"
	"github.com/satori-hq/nft-series/internal/platform/respond"
	"github.com/satori-hq/nft-series/internal/platform/validate"
	"github.com/satori-hq/nft-series/pkg/convert"
)

// defaultMaxRecipients bounds the royalty table size when the client does
// not pass its own limit.
const defaultMaxRecipients = 50

// # Handler Implementation

// Handler implements the HTTP layer for payout computation and settlement.
type Handler struct {
	service *Service
}

// NewHandler constructs a new royalty [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches payout endpoints to the root API router. They
// share the /tokens prefix with the token handler.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/tokens/{id}/payout", handler.ComputePayout)

	api.Group(func(seller chi.Router) {
		seller.Use(middleware.RequireAuth)
		seller.Post("/tokens/{id}/transfer-payout", handler.TransferPayout)
	})
}

// # Payout Computation

/*
GET /api/v1/tokens/{id}/payout.

Description: Splits a sale balance across the token's royalty recipients
without moving the token.

Request:
  - id: string (Composite token id)
  - balance: uint64 (Query, required)
  - max_recipients: int (Query, default 50)

Response:
  - 200: {payout: Payout}
  - 400: 400: Validation: Missing or malformed balance
  - 404: 404: ErrNotFound: Token not found
  - 422: 422: ErrTooManyRecipients: Royalty table exceeds the limit
*/
func (handler *Handler) ComputePayout(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	rawBalance := request.URL.Query().Get("balance")
	balance, parseErr := strconv.ParseUint(rawBalance, 10, 64)

	v := &validate.Validator{}
	v.Required("balance", rawBalance)
	v.Custom("balance", rawBalance != "" && parseErr != nil, "Must be an unsigned integer")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	maxRecipients := convert.ToIntD(request.URL.Query().Get("max_recipients"), defaultMaxRecipients)

	payout, err := handler.service.ComputePayout(request.Context(), id, balance, maxRecipients)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]Payout{"payout": payout})
}

// # Payout Settlement

// transferPayoutRequest defines the inbound JSON schema for settlement.
// Either approval_id (plain transfer) or series_title (lazy mint) selects
// the mode.
type transferPayoutRequest struct {
	ReceiverID    string  `json:"receiver_id"`
	Balance       uint64  `json:"balance"`
	MaxRecipients int     `json:"max_recipients"`
	ApprovalID    *uint64 `json:"approval_id"`
	SeriesTitle   string  `json:"series_title"`
	Memo          string  `json:"memo"`
}

/*
POST /api/v1/tokens/{id}/transfer-payout.

Description: Settles a sale: transfers the token (or lazily mints it from
series_title straight to the receiver) and returns the payout split.

Request:
  - id: string (Composite token id; ignored in lazy-mint mode)
  - body: transferPayoutRequest

Response:
  - 200: {token_id: string, payout: Payout}
  - 401: 401: ErrUnauthorized: Caller may not move or mint the token
  - 404: 404: ErrNotFound: Token or series not found
  - 409: 409: ErrApprovalMismatch/ErrSupplyExhausted
  - 422: 422: ErrTooManyRecipients: Royalty table exceeds the limit
*/
func (handler *Handler) TransferPayout(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input transferPayoutRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.AccountID("receiver_id", input.ReceiverID)
	v.Custom("balance", input.Balance == 0, "Must be greater than zero")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	maxRecipients := input.MaxRecipients
	if maxRecipients == 0 {
		maxRecipients = defaultMaxRecipients
	}

	tokenID, payout, err := handler.service.TransferPayout(request.Context(), caller, id, TransferPayoutInput{
		Receiver:      input.ReceiverID,
		Balance:       input.Balance,
		MaxRecipients: maxRecipients,
		ApprovalID:    input.ApprovalID,
		SeriesTitle:   input.SeriesTitle,
		Memo:          input.Memo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"token_id": tokenID,
		"payout":   payout,
	})
}
