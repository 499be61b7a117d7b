// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import (
	"context"
	"log/slog"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
)

// # Service Layer

// Service manages the registry record and answers ownership queries for the
// other domains.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new registry [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// InitInput carries the bootstrap values for a fresh registry.
type InitInput struct {
	Name    string
	Symbol  string
	Icon    string
	BaseURI string
	Owner   string
}

/*
Initialize writes the registry record on first startup. An already
initialized registry is left untouched.

Parameters:
  - context: context.Context
  - input: InitInput (from configuration)

Returns:
  - error: Storage errors
*/
func (service *Service) Initialize(context context.Context, input InitInput) error {
	err := service.repo.Init(context, &Registry{
		Spec:    SpecVersion,
		Name:    input.Name,
		Symbol:  input.Symbol,
		Icon:    input.Icon,
		BaseURI: input.BaseURI,
		Owner:   input.Owner,
	})
	if err != nil {
		return err
	}

	service.logger.InfoContext(context, "registry_ready",
		slog.String("name", input.Name),
		slog.String("owner", input.Owner),
	)
	return nil
}

/*
Get retrieves the registry metadata.
*/
func (service *Service) Get(context context.Context) (*Registry, error) {
	return service.repo.Get(context)
}

/*
PatchBaseURI overwrites the media base URI. Only the registry owner may.

Parameters:
  - context: context.Context
  - caller: string (must be the registry owner)
  - baseURI: string

Returns:
  - *Registry: The updated record
  - error: NOT_FOUND or UNAUTHORIZED
*/
func (service *Service) PatchBaseURI(context context.Context, caller, baseURI string) (*Registry, error) {
	registry, err := service.repo.Get(context)
	if err != nil {
		return nil, err
	}
	if registry.Owner != caller {
		return nil, apperr.Unauthorized("Only the registry owner can change the base URI")
	}

	if err := service.repo.SetBaseURI(context, baseURI); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "registry_base_uri_changed",
		slog.String("base_uri", baseURI),
	)
	return service.repo.Get(context)
}

/*
PatchSource updates the registry's source metadata. Only the registry owner
may. Fields absent from the patch keep their current value.

Parameters:
  - context: context.Context
  - caller: string (must be the registry owner)
  - patch: Source (nil fields are left untouched)

Returns:
  - *Registry: The updated record
  - error: NOT_FOUND or UNAUTHORIZED
*/
func (service *Service) PatchSource(context context.Context, caller string, patch Source) (*Registry, error) {
	registry, err := service.repo.Get(context)
	if err != nil {
		return nil, err
	}
	if registry.Owner != caller {
		return nil, apperr.Unauthorized("Only the registry owner can change the source metadata")
	}

	merged := registry.Source
	if patch.Version != nil {
		merged.Version = patch.Version
	}
	if patch.CommitHash != nil {
		merged.CommitHash = patch.CommitHash
	}
	if patch.Link != nil {
		merged.Link = patch.Link
	}

	if err := service.repo.SetSource(context, merged); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "registry_source_changed")
	return service.repo.Get(context)
}

/*
RegistryOwner returns the account that owns the registry. Implements the
ownership gate the series package publishes behind.
*/
func (service *Service) RegistryOwner(context context.Context) (string, error) {
	registry, err := service.repo.Get(context)
	if err != nil {
		return "", err
	}
	return registry.Owner, nil
}
