// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satori-hq/nft-series/internal/platform/apperr"
)

func newService() *Service {
	return NewService(NewMemoryRepository(), slog.New(slog.DiscardHandler))
}

func TestInitialize(t *testing.T) {
	service := newService()

	require.NoError(t, service.Initialize(context.Background(), InitInput{
		Name:   "Satori Series Registry",
		Symbol: "SATORI",
		Owner:  "satori",
	}))

	registry, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SpecVersion, registry.Spec)
	assert.Equal(t, "satori", registry.Owner)

	// A second initialization never overwrites live state.
	require.NoError(t, service.Initialize(context.Background(), InitInput{
		Name:   "Other",
		Symbol: "OTHER",
		Owner:  "mallory",
	}))
	registry, err = service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "satori", registry.Owner)
}

func TestPatchBaseURI(t *testing.T) {
	service := newService()
	require.NoError(t, service.Initialize(context.Background(), InitInput{
		Name: "Satori Series Registry", Symbol: "SATORI", Owner: "satori",
	}))

	// 1. Only the registry owner may patch.
	_, err := service.PatchBaseURI(context.Background(), "mallory", "https://cdn.example.com")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 2. The owner's patch lands.
	registry, err := service.PatchBaseURI(context.Background(), "satori", "https://cdn.example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com", registry.BaseURI)
}

func TestPatchSource(t *testing.T) {
	service := newService()
	require.NoError(t, service.Initialize(context.Background(), InitInput{
		Name: "Satori Series Registry", Symbol: "SATORI", Owner: "satori",
	}))

	// 1. Only the registry owner may patch.
	version := "1.2.0"
	_, err := service.PatchSource(context.Background(), "mallory", Source{Version: &version})
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 2. The owner's patch lands.
	link := "https://github.com/satori-hq/nft-series"
	registry, err := service.PatchSource(context.Background(), "satori", Source{
		Version: &version,
		Link:    &link,
	})
	require.NoError(t, err)
	require.NotNil(t, registry.Source.Version)
	assert.Equal(t, "1.2.0", *registry.Source.Version)
	assert.Nil(t, registry.Source.CommitHash)

	// 3. A later patch only touches the fields it carries.
	commit := "4f2a91c"
	registry, err = service.PatchSource(context.Background(), "satori", Source{CommitHash: &commit})
	require.NoError(t, err)
	require.NotNil(t, registry.Source.Version)
	assert.Equal(t, "1.2.0", *registry.Source.Version)
	require.NotNil(t, registry.Source.CommitHash)
	assert.Equal(t, "4f2a91c", *registry.Source.CommitHash)
	require.NotNil(t, registry.Source.Link)
	assert.Equal(t, "https://github.com/satori-hq/nft-series", *registry.Source.Link)
}

func TestGet_Uninitialized(t *testing.T) {
	service := newService()

	_, err := service.Get(context.Background())
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}
