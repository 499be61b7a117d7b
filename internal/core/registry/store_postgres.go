// Copyright (c) 2026 Satori HQ. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satori-hq/nft-series/internal/platform/database/schema"
	"github.com/satori-hq/nft-series/internal/platform/dberr"
)

// registryRowID pins the singleton row.
const registryRowID = 1

// PostgresRepository implements [Repository] on top of pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Get(context context.Context) (*Registry, error) {
	t := schema.NFTRegistry
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		t.Spec, t.Name, t.Symbol, t.Icon, t.BaseURI, t.Owner, t.Source,
		t.CreatedAt, t.UpdatedAt, t.Table, t.ID,
	)

	registry := &Registry{}
	var sourceRaw []byte
	err := repository.db.QueryRow(context, query, registryRowID).Scan(
		&registry.Spec, &registry.Name, &registry.Symbol, &registry.Icon,
		&registry.BaseURI, &registry.Owner, &sourceRaw,
		&registry.CreatedAt, &registry.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_registry")
	}
	if len(sourceRaw) > 0 {
		if err := json.Unmarshal(sourceRaw, &registry.Source); err != nil {
			return nil, fmt.Errorf("registry: corrupt source metadata: %w", err)
		}
	}
	return registry, nil
}

func (repository *PostgresRepository) Init(context context.Context, registry *Registry) error {
	t := schema.NFTRegistry
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (%s) DO NOTHING`,
		t.Table, t.ID, t.Spec, t.Name, t.Symbol, t.Icon, t.BaseURI, t.Owner, t.ID,
	)

	_, err := repository.db.Exec(context, query,
		registryRowID, registry.Spec, registry.Name, registry.Symbol,
		registry.Icon, registry.BaseURI, registry.Owner,
	)
	if err != nil {
		return dberr.Wrap(err, "init_registry")
	}
	return nil
}

func (repository *PostgresRepository) SetSource(context context.Context, source Source) error {
	raw, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("registry: failed to marshal source metadata: %w", err)
	}

	t := schema.NFTRegistry
	query := fmt.Sprintf(`UPDATE %s SET %s = $2::jsonb, %s = now() WHERE %s = $1`,
		t.Table, t.Source, t.UpdatedAt, t.ID)

	tag, err := repository.db.Exec(context, query, registryRowID, raw)
	if err != nil {
		return dberr.Wrap(err, "set_registry_source")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetBaseURI(context context.Context, baseURI string) error {
	t := schema.NFTRegistry
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		t.Table, t.BaseURI, t.UpdatedAt, t.ID)

	tag, err := repository.db.Exec(context, query, registryRowID, baseURI)
	if err != nil {
		return dberr.Wrap(err, "set_registry_base_uri")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
