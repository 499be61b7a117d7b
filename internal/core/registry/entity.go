// Copyright (c) 2026 Satori HQ. All rights reserved.

/*
Package registry manages the contract-level metadata of the token registry:
its NFT spec version, display name, symbol and media base URI, plus the
owning account that gates series publication.
*/
package registry

import "time"

// SpecVersion is the metadata standard the registry implements.
const SpecVersion = "nft-1.0.0"

// Source describes where the registry's deployed code comes from. All
// fields are optional; a patch only touches the fields it carries.
type Source struct {
	Version    *string `json:"version,omitempty"`
	CommitHash *string `json:"commit_hash,omitempty"`
	Link       *string `json:"link,omitempty"`
}

// Registry is the singleton contract-level metadata record.
type Registry struct {
	Spec      string    `json:"spec"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Icon      string    `json:"icon,omitempty"`
	BaseURI   string    `json:"base_uri,omitempty"`
	Owner     string    `json:"owner_id"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
