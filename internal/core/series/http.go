// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	requestutil "github.com/satori-hq/nft-series/internal/platform/request"
	"github.com/satori-hq/nft-series/internal/platform/respond"
	"github.com/satori-hq/nft-series/internal/platform/validate"
	"github.com/satori-hq/nft-series/pkg/pagination"
	"github.com/satori-hq/nft-series/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer for series publication and minting.
type Handler struct {
	service *Service
	tokens  *token.Service
}

// NewHandler constructs a new series [Handler]. The token service backs the
// per-series token listing.
func NewHandler(service *Service, tokens *token.Service) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterRoutes attaches series endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Discovery endpoints
	api.Get("/series", handler.ListSeries)
	api.Get("/series/{title}", handler.GetSeries)
	api.Get("/series/{title}/tokens", handler.ListTokens)
	api.Get("/series/{title}/supply", handler.Supply)

	// Publisher operations (Require authentication)
	api.Group(func(publisher chi.Router) {
		publisher.Use(middleware.RequireAuth)
		publisher.Post("/series", handler.CreateSeries)
		publisher.Patch("/series/{title}", handler.UpdateSeries)
		publisher.Post("/series/{title}/cap", handler.CapCopies)
		publisher.Delete("/series/{title}", handler.DeleteSeries)
		publisher.Post("/series/{title}/mint", handler.Mint)
	})
}

// # Series Publication

// poolEntryRequest defines one asset pool entry in the create payload.
type poolEntryRequest struct {
	AssetID  string  `json:"asset_id"`
	Filetype string  `json:"filetype"`
	Supply   uint64  `json:"supply"`
	Extra    *string `json:"extra"`
}

// createSeriesRequest defines the inbound JSON schema for publication.
type createSeriesRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	Media       string             `json:"media"`
	Copies      uint64             `json:"copies"`
	CoverAsset  string             `json:"cover_asset"`
	Royalty     map[string]uint32  `json:"royalty"`
	AssetPool   []poolEntryRequest `json:"asset_pool"`
}

/*
POST /api/v1/series.

Description: Publishes a new series. The asset pool's supply must account
for exactly the declared number of copies.

Request:
  - body: createSeriesRequest

Response:
  - 201: Series: Published series with its assigned id
  - 401: 401: ErrUnauthorized: Caller is not the registry owner
  - 409: 409: ErrAlreadyExists: Title already taken
  - 422: 422: ErrSupplyMismatch: Pool supply differs from copies
*/
func (handler *Handler) CreateSeries(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSeriesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title)
	v.MaxLen("title", input.Title, 256)
	v.Required("media", input.Media)
	v.Custom("copies", input.Copies == 0, "Must be greater than zero")
	v.Custom("asset_pool", len(input.AssetPool) == 0, "Must contain at least one entry")
	for _, entry := range input.AssetPool {
		v.Custom("asset_pool", entry.AssetID == "" || entry.Filetype == "", "Entries need asset_id and filetype")
		v.Custom("asset_pool", entry.Supply == 0, "Entries need a non-zero supply")
	}
	for account := range input.Royalty {
		v.AccountID("royalty", account)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pool := slice.Map(input.AssetPool, func(entry poolEntryRequest) PoolEntry {
		return PoolEntry{
			AssetID:   entry.AssetID,
			Filetype:  entry.Filetype,
			Remaining: entry.Supply,
			Extra:     entry.Extra,
		}
	})

	series, err := handler.service.CreateSeries(request.Context(), caller, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		Media:       input.Media,
		Copies:      input.Copies,
		CoverAsset:  input.CoverAsset,
		Royalty:     input.Royalty,
		AssetPool:   pool,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, series)
}

// # Series Retrieval

/*
GET /api/v1/series.

Description: Returns a paginated roster of published series.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Series: Paginated list
*/
func (handler *Handler) ListSeries(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	all, total, err := handler.service.ListSeries(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		constants.FieldItems: all,
		constants.FieldTotal: total,
	})
}

/*
GET /api/v1/series/{title}.

Description: Returns a single series by its unique title.

Request:
  - title: string

Response:
  - 200: Series
  - 404: 404: ErrNotFound: Series not found
*/
func (handler *Handler) GetSeries(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	series, err := handler.service.GetSeries(request.Context(), title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

/*
GET /api/v1/series/{title}/tokens.

Description: Returns a paginated roster of tokens minted under the series.

Request:
  - title: string
  - limit: int
  - page: int

Response:
  - 200: []Token: Paginated list
  - 404: 404: ErrNotFound: Series not found
*/
func (handler *Handler) ListTokens(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")
	paginationParams := pagination.FromRequest(request)

	series, err := handler.service.GetSeries(request.Context(), title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokens, total, err := handler.tokens.ListTokensBySeries(request.Context(), series.ID, paginationParams.Limit, paginationParams.Offset())
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
GET /api/v1/series/{title}/supply.

Description: Reports the minted count and the copies cap of the series.

Request:
  - title: string

Response:
  - 200: {minted: uint64, copies: uint64|null}
  - 404: 404: ErrNotFound: Series not found
*/
func (handler *Handler) Supply(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	minted, copies, err := handler.service.Supply(request.Context(), title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"minted": minted,
		"copies": copies,
	})
}

// # Series Management

// updateSeriesRequest defines the inbound JSON schema for updates. A null
// description is distinguished from an absent one by clear_description.
type updateSeriesRequest struct {
	Title            *string           `json:"title"`
	Description      *string           `json:"description"`
	ClearDescription bool              `json:"clear_description"`
	Royalty          map[string]uint32 `json:"royalty"`
}

/*
PATCH /api/v1/series/{title}.

Description: Changes a series' title, description or royalty table. Copies
and the asset pool are immutable after publication.

Request:
  - title: string
  - body: updateSeriesRequest

Response:
  - 200: Series: Updated series
  - 401: 401: ErrUnauthorized: Caller is not the series owner
  - 404: 404: ErrNotFound: Series not found
  - 409: 409: ErrAlreadyExists: New title already taken
*/
func (handler *Handler) UpdateSeries(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateSeriesRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Title != nil {
		v.Required("title", *input.Title)
		v.MaxLen("title", *input.Title, 256)
	}
	for account := range input.Royalty {
		v.AccountID("royalty", account)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, err := handler.service.UpdateSeries(request.Context(), caller, title, UpdateInput{
		Title:            input.Title,
		Description:      input.Description,
		ClearDescription: input.ClearDescription,
		Royalty:          input.Royalty,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, series)
}

/*
POST /api/v1/series/{title}/cap.

Description: Locks the series' supply at its current minted count.

Request:
  - title: string

Response:
  - 200: {copies: uint64}: The new cap
  - 401: 401: ErrUnauthorized: Caller is not the series owner
  - 404: 404: ErrNotFound: Series not found
*/
func (handler *Handler) CapCopies(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	copies, err := handler.service.CapCopies(request.Context(), caller, title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]uint64{"copies": copies})
}

/*
DELETE /api/v1/series/{title}.

Description: Removes a series that has no minted tokens, freeing its title.

Request:
  - title: string

Response:
  - 204: No content
  - 401: 401: ErrUnauthorized: Caller is not the series owner
  - 404: 404: ErrNotFound: Series not found
  - 409: 409: ErrNotEmpty: Series has minted tokens
*/
func (handler *Handler) DeleteSeries(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteSeries(request.Context(), caller, title); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Minting

// mintRequest defines the inbound JSON schema for minting.
type mintRequest struct {
	ReceiverID string `json:"receiver_id"`
}

/*
POST /api/v1/series/{title}/mint.

Description: Mints the next token of the series. The asset is drawn from the
pool with the request's entropy seed; the attached deposit must cover the
token's storage footprint.

Request:
  - title: string
  - body: mintRequest (receiver defaults to the caller)
  - X-Attached-Deposit: uint64 (Header)
  - X-Entropy-Seed: uint64 (Header, optional)

Response:
  - 201: {token_id: string, owner_id: string}
  - 401: 401: ErrUnauthorized: Caller is not the series owner
  - 402: 402: ErrInsufficientDeposit: Deposit does not cover storage
  - 404: 404: ErrNotFound: Series not found or pool empty
  - 409: 409: ErrSupplyExhausted: All copies minted
*/
func (handler *Handler) Mint(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Param(request, "title")

	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The body is optional: an absent receiver mints to the caller.
	var input mintRequest
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	v := &validate.Validator{}
	if input.ReceiverID != "" {
		v.AccountID("receiver_id", input.ReceiverID)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Mint(request.Context(), caller, title, input.ReceiverID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{
		"token_id": record.ID,
		"owner_id": record.Owner,
	})
}
