// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/satori-hq/nft-series/internal/platform/constants"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	requestutil "github.com/satori-hq/nft-series/internal/platform/request"
	"github.com/satori-hq/nft-series/internal/platform/respond"
	"github.com/satori-hq/nft-series/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for contract-level metadata.
type Handler struct {
	service *Service
}

// NewHandler constructs a new registry [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches metadata endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/metadata", handler.GetMetadata)
	api.Get("/metadata/source", handler.GetSource)
	api.Get("/format", handler.GetFormat)

	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)
		owner.Patch("/metadata/base-uri", handler.PatchBaseURI)
		owner.Patch("/metadata/source", handler.PatchSource)
	})
}

/*
GET /api/v1/metadata.

Description: Returns the registry's contract-level metadata.

Response:
  - 200: Registry
  - 404: 404: ErrNotFound: Registry not initialized
*/
func (handler *Handler) GetMetadata(writer http.ResponseWriter, request *http.Request) {
	registry, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, registry)
}

/*
GET /api/v1/format.

Description: Returns the delimiters composing token ids and edition titles,
so clients can parse and render them without hard-coding.

Response:
  - 200: {token_delimiter, title_delimiter, edition_delimiter}
*/
func (handler *Handler) GetFormat(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		"token_delimiter":   constants.TokenDelimiter,
		"title_delimiter":   constants.TitleDelimiter,
		"edition_delimiter": constants.EditionDelimiter,
	})
}

/*
GET /api/v1/metadata/source.

Description: Returns the registry's source metadata (code version, commit
hash, source link).

Response:
  - 200: Source
  - 404: 404: ErrNotFound: Registry not initialized
*/
func (handler *Handler) GetSource(writer http.ResponseWriter, request *http.Request) {
	registry, err := handler.service.Get(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, registry.Source)
}

// patchSourceRequest defines the inbound JSON schema for source metadata
// changes. Absent fields are left untouched.
type patchSourceRequest struct {
	Version    *string `json:"version"`
	CommitHash *string `json:"commit_hash"`
	Link       *string `json:"link"`
}

/*
PATCH /api/v1/metadata/source.

Description: Updates the registry's source metadata field-wise. Registry
owner only.

Request:
  - body: patchSourceRequest

Response:
  - 200: Registry: Updated record
  - 401: 401: ErrUnauthorized: Caller is not the registry owner
  - 404: 404: ErrNotFound: Registry not initialized
*/
func (handler *Handler) PatchSource(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patchSourceRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if input.Version != nil {
		v.MaxLen("version", *input.Version, 64)
	}
	if input.CommitHash != nil {
		v.MaxLen("commit_hash", *input.CommitHash, 64)
	}
	if input.Link != nil {
		v.MaxLen("link", *input.Link, 2048)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registry, err := handler.service.PatchSource(request.Context(), caller, Source{
		Version:    input.Version,
		CommitHash: input.CommitHash,
		Link:       input.Link,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, registry)
}

// patchBaseURIRequest defines the inbound JSON schema for base URI changes.
type patchBaseURIRequest struct {
	BaseURI string `json:"base_uri"`
}

/*
PATCH /api/v1/metadata/base-uri.

Description: Overwrites the media base URI. Registry owner only.

Request:
  - body: patchBaseURIRequest

Response:
  - 200: Registry: Updated record
  - 401: 401: ErrUnauthorized: Caller is not the registry owner
  - 404: 404: ErrNotFound: Registry not initialized
*/
func (handler *Handler) PatchBaseURI(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input patchBaseURIRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("base_uri", input.BaseURI)
	v.MaxLen("base_uri", input.BaseURI, 2048)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	registry, err := handler.service.PatchBaseURI(request.Context(), caller, input.BaseURI)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, registry)
}
