// Copyright (c) 2026 Satori HQ. All rights reserved.

package series

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satori-hq/nft-series/internal/core/token"
	"github.com/satori-hq/nft-series/internal/platform/apperr"
	"github.com/satori-hq/nft-series/internal/platform/database/schema"
	"github.com/satori-hq/nft-series/internal/platform/dberr"
	"github.com/satori-hq/nft-series/internal/platform/entropy"
)

// PostgresRepository implements [Repository] on top of pgx.
//
// Mint runs inside a transaction with the series row locked, so the pool
// draw, the depletion and the sequence assignment always move together.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// seriesColumns is the SELECT list shared by every read query.
func seriesColumns() string {
	t := schema.NFTSeries
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Title, t.Slug, t.Description, t.Media, t.Copies,
		t.CoverAsset, t.Owner, t.Royalty, t.AssetPool, t.CreatedAt, t.UpdatedAt,
	)
}

// scanSeries hydrates a Series from a row produced by seriesColumns.
func scanSeries(row pgx.Row) (*Series, error) {
	series := &Series{}
	var royaltyRaw, poolRaw []byte

	err := row.Scan(
		&series.ID, &series.Title, &series.Slug, &series.Description,
		&series.Media, &series.Copies, &series.CoverAsset, &series.Owner,
		&royaltyRaw, &poolRaw, &series.CreatedAt, &series.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(royaltyRaw) > 0 {
		if err := json.Unmarshal(royaltyRaw, &series.Royalty); err != nil {
			return nil, fmt.Errorf("series: corrupt royalty table for %d: %w", series.ID, err)
		}
	}
	if len(poolRaw) > 0 {
		if err := json.Unmarshal(poolRaw, &series.AssetPool); err != nil {
			return nil, fmt.Errorf("series: corrupt asset pool for %d: %w", series.ID, err)
		}
	}
	return series, nil
}

func (repository *PostgresRepository) Create(context context.Context, series *Series) error {
	royaltyRaw, err := json.Marshal(series.Royalty)
	if err != nil {
		return fmt.Errorf("series: failed to marshal royalty table: %w", err)
	}
	poolRaw, err := json.Marshal(series.AssetPool)
	if err != nil {
		return fmt.Errorf("series: failed to marshal asset pool: %w", err)
	}

	t := schema.NFTSeries
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb)
		RETURNING %s, %s, %s`,
		t.Table, t.Title, t.Slug, t.Description, t.Media, t.Copies,
		t.CoverAsset, t.Owner, t.Royalty, t.AssetPool,
		t.ID, t.CreatedAt, t.UpdatedAt,
	)

	err = repository.db.QueryRow(context, query,
		series.Title, series.Slug, series.Description, series.Media,
		series.Copies, series.CoverAsset, series.Owner, royaltyRaw, poolRaw,
	).Scan(&series.ID, &series.CreatedAt, &series.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_series")
	}
	return nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id uint64) (*Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		seriesColumns(), schema.NFTSeries.Table, schema.NFTSeries.ID)

	series, err := scanSeries(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_series")
	}
	return series, nil
}

func (repository *PostgresRepository) GetByTitle(context context.Context, title string) (*Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		seriesColumns(), schema.NFTSeries.Table, schema.NFTSeries.Title)

	series, err := scanSeries(repository.db.QueryRow(context, query, title))
	if err != nil {
		return nil, dberr.Wrap(err, "get_series_by_title")
	}
	return series, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Series, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s LIMIT $1 OFFSET $2`,
		seriesColumns(), schema.NFTSeries.Table, schema.NFTSeries.ID)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_series")
	}
	defer rows.Close()

	all := make([]*Series, 0)
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_series")
		}
		all = append(all, series)
	}
	rows.Close()

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.NFTSeries.Table)
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_series")
	}

	return all, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, series *Series) error {
	royaltyRaw, err := json.Marshal(series.Royalty)
	if err != nil {
		return fmt.Errorf("series: failed to marshal royalty table: %w", err)
	}

	t := schema.NFTSeries
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5::jsonb, %s = now()
		WHERE %s = $1`,
		t.Table, t.Title, t.Slug, t.Description, t.Royalty, t.UpdatedAt, t.ID,
	)

	tag, err := repository.db.Exec(context, query,
		series.ID, series.Title, series.Slug, series.Description, royaltyRaw,
	)
	if err != nil {
		return dberr.Wrap(err, "update_series")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) SetCopies(context context.Context, id uint64, copies uint64) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = now() WHERE %s = $1`,
		schema.NFTSeries.Table, schema.NFTSeries.Copies,
		schema.NFTSeries.UpdatedAt, schema.NFTSeries.ID)

	tag, err := repository.db.Exec(context, query, id, copies)
	if err != nil {
		return dberr.Wrap(err, "cap_series_copies")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id uint64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.NFTSeries.Table, schema.NFTSeries.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_series")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) CountMinted(context context.Context, id uint64) (uint64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.SeriesID)

	var minted uint64
	if err := repository.db.QueryRow(context, query, id).Scan(&minted); err != nil {
		return 0, dberr.Wrap(err, "count_minted")
	}
	return minted, nil
}

func (repository *PostgresRepository) Mint(context context.Context, id uint64, owner string, seed uint64) (*token.Record, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_mint")
	}
	defer func() { _ = tx.Rollback(context) }()

	lockQuery := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.NFTSeries.Copies, schema.NFTSeries.AssetPool,
		schema.NFTSeries.Table, schema.NFTSeries.ID)

	var copies *uint64
	var poolRaw []byte
	if err := tx.QueryRow(context, lockQuery, id).Scan(&copies, &poolRaw); err != nil {
		return nil, dberr.Wrap(err, "lock_series_for_mint")
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.SeriesID)
	var minted uint64
	if err := tx.QueryRow(context, countQuery, id).Scan(&minted); err != nil {
		return nil, dberr.Wrap(err, "count_minted")
	}
	if copies != nil && minted >= *copies {
		return nil, apperr.SupplyExhausted("All copies of this series have been minted")
	}

	var pool []PoolEntry
	if len(poolRaw) > 0 {
		if err := json.Unmarshal(poolRaw, &pool); err != nil {
			return nil, fmt.Errorf("series: corrupt asset pool for %d: %w", id, err)
		}
	}
	if len(pool) == 0 {
		return nil, apperr.NotFound("Asset pool")
	}

	// Every mint consumes one unit from the drawn entry; entries at zero are
	// removed so the pool empties exactly when all copies are minted.
	index := entropy.Draw(seed, len(pool))
	entry := pool[index]
	entry.Remaining--
	if entry.Remaining == 0 {
		pool = append(pool[:index], pool[index+1:]...)
	} else {
		pool[index] = entry
	}

	updatedPool, err := json.Marshal(pool)
	if err != nil {
		return nil, fmt.Errorf("series: failed to marshal asset pool: %w", err)
	}
	poolQuery := fmt.Sprintf(`UPDATE %s SET %s = $2::jsonb, %s = now() WHERE %s = $1`,
		schema.NFTSeries.Table, schema.NFTSeries.AssetPool,
		schema.NFTSeries.UpdatedAt, schema.NFTSeries.ID)
	if _, err := tx.Exec(context, poolQuery, id, updatedPool); err != nil {
		return nil, dberr.Wrap(err, "deplete_asset_pool")
	}

	record := &token.Record{
		ID:             token.MakeID(id, minted+1),
		SeriesID:       id,
		Seq:            minted + 1,
		Owner:          owner,
		Approvals:      make(map[string]uint64),
		NextApprovalID: 1,
		Metadata: token.MetadataRecord{
			Version:  token.MetadataVersionCurrent,
			AssetID:  entry.AssetID,
			Filetype: entry.Filetype,
			Extra:    entry.Extra,
		},
	}

	t := schema.NFTToken
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, '{}'::jsonb, 1, $5, $6, $7, $8)`,
		t.Table, t.ID, t.SeriesID, t.Seq, t.Owner, t.Approvals,
		t.NextApprovalID, t.MetaVersion, t.AssetID, t.Filetype, t.Extra,
	)
	_, err = tx.Exec(context, insertQuery,
		record.ID, record.SeriesID, record.Seq, record.Owner,
		record.Metadata.Version, record.Metadata.AssetID,
		record.Metadata.Filetype, record.Metadata.Extra,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_token")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_mint")
	}
	return record, nil
}
