// Copyright (c) 2026 Satori HQ. All rights reserved.

package webhook

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/middleware"
	requestutil "github.com/satori-hq/nft-series/internal/platform/request"
	"github.com/satori-hq/nft-series/internal/platform/respond"
	"github.com/satori-hq/nft-series/internal/platform/validate"
)

// Registrar stores receiver endpoint registrations.
type Registrar interface {
	Register(ctx context.Context, account, url string) error
}

// Handler exposes the receiver directory over HTTP.
type Handler struct {
	registrar Registrar
}

// NewHandler creates a webhook Handler.
func NewHandler(registrar Registrar) *Handler {
	return &Handler{registrar: registrar}
}

// RegisterRoutes mounts the receiver endpoints on the router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireAuth)
		protected.Put("/{account}", handler.registerReceiver)
	})
}

type registerReceiverRequest struct {
	URL string `json:"url"`
}

type registerReceiverResponse struct {
	Account string `json:"account"`
	URL     string `json:"url"`
}

func (handler *Handler) registerReceiver(writer http.ResponseWriter, request *http.Request) {
	caller, err := requestutil.RequiredCaller(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account := requestutil.Param(request, "account")
	if account != caller {
		respond.Error(writer, request, apperr.Forbidden("Receivers can only be registered for your own account"))
		return
	}

	var body registerReceiverRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.Required("url", body.URL).MaxLen("url", body.URL, 2048).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	parsed, err := url.Parse(body.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		respond.Error(writer, request, validate.RequiredError("url", "Must be a valid http(s) URL"))
		return
	}

	if err := handler.registrar.Register(request.Context(), account, body.URL); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, registerReceiverResponse{Account: account, URL: body.URL})
}
