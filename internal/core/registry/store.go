// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import "context"

// # Repository Contract

// Repository defines the persistence contract for the singleton registry
// record.
type Repository interface {
	/*
		Get retrieves the registry record.

		Returns:
		  - *Registry: The record
		  - error: NOT_FOUND when the registry was never initialized
	*/
	Get(context context.Context) (*Registry, error)

	/*
		Init writes the registry record if none exists yet. An existing
		record is left untouched, so configuration changes never overwrite
		live registry state.

		Returns:
		  - error: Storage errors
	*/
	Init(context context.Context, registry *Registry) error

	/*
		SetBaseURI overwrites the media base URI.

		Returns:
		  - error: NOT_FOUND when the registry was never initialized
	*/
	SetBaseURI(context context.Context, baseURI string) error

	/*
		SetSource overwrites the source metadata record.

		Returns:
		  - error: NOT_FOUND when the registry was never initialized
	*/
	SetSource(context context.Context, source Source) error
}
