// Copyright (c) 2026 Satori HQ. All rights reserved.

package token

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satori-hq/nft-series/internal/platform/database/schema"
	"github.com/satori-hq/nft-series/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on top of pgx.
//
// Multi-field mutations (approve, transfer) run inside a transaction with a
// row lock so the approval counter and map always move together.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// recordColumns is the SELECT list shared by every read query.
func recordColumns() string {
	t := schema.NFTToken
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.SeriesID, t.Seq, t.Owner, t.Approvals, t.NextApprovalID,
		t.MetaVersion, t.AssetID, t.Filetype, t.Extra,
	)
}

// scanRecord hydrates a Record from a row produced by recordColumns.
func scanRecord(row pgx.Row) (*Record, error) {
	record := &Record{}
	var approvalsRaw []byte

	err := row.Scan(
		&record.ID, &record.SeriesID, &record.Seq, &record.Owner,
		&approvalsRaw, &record.NextApprovalID,
		&record.Metadata.Version, &record.Metadata.AssetID,
		&record.Metadata.Filetype, &record.Metadata.Extra,
	)
	if err != nil {
		return nil, err
	}

	record.Approvals = make(map[string]uint64)
	if len(approvalsRaw) > 0 {
		if err := json.Unmarshal(approvalsRaw, &record.Approvals); err != nil {
			return nil, fmt.Errorf("token: corrupt approvals map for %s: %w", record.ID, err)
		}
	}

	record.Metadata = record.Metadata.Normalize()
	return record, nil
}

func (repository *PostgresRepository) Get(context context.Context, id string) (*Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		recordColumns(), schema.NFTToken.Table, schema.NFTToken.ID)

	record, err := scanRecord(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_token")
	}
	return record, nil
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Record, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s LIMIT $1 OFFSET $2`,
		recordColumns(), schema.NFTToken.Table, schema.NFTToken.SeriesID, schema.NFTToken.Seq)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.NFTToken.Table)

	return repository.page(context, query, countQuery, []any{limit, offset}, nil)
}

func (repository *PostgresRepository) ListByOwner(context context.Context, owner string, limit, offset int) ([]*Record, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s, %s LIMIT $2 OFFSET $3`,
		recordColumns(), schema.NFTToken.Table, schema.NFTToken.Owner,
		schema.NFTToken.SeriesID, schema.NFTToken.Seq)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.Owner)

	return repository.page(context, query, countQuery, []any{owner, limit, offset}, []any{owner})
}

func (repository *PostgresRepository) ListBySeries(context context.Context, seriesID uint64, limit, offset int) ([]*Record, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s LIMIT $2 OFFSET $3`,
		recordColumns(), schema.NFTToken.Table, schema.NFTToken.SeriesID, schema.NFTToken.Seq)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.SeriesID)

	return repository.page(context, query, countQuery, []any{seriesID, limit, offset}, []any{seriesID})
}

// page runs a record query plus its count query.
func (repository *PostgresRepository) page(context context.Context, query, countQuery string, args, countArgs []any) ([]*Record, int, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tokens")
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_token")
		}
		records = append(records, record)
	}
	rows.Close()

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_tokens")
	}

	return records, total, nil
}

func (repository *PostgresRepository) CountByOwner(context context.Context, owner string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.Owner)

	var total int
	if err := repository.db.QueryRow(context, query, owner).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count_tokens_by_owner")
	}
	return total, nil
}

func (repository *PostgresRepository) Approve(context context.Context, id, account string) (uint64, bool, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return 0, false, dberr.Wrap(err, "begin_approve")
	}
	defer func() { _ = tx.Rollback(context) }()

	lockQuery := fmt.Sprintf(`SELECT %s ? $2, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.NFTToken.Approvals, schema.NFTToken.NextApprovalID,
		schema.NFTToken.Table, schema.NFTToken.ID)

	var wasPresent bool
	var approvalID uint64
	if err := tx.QueryRow(context, lockQuery, id, account).Scan(&wasPresent, &approvalID); err != nil {
		return 0, false, dberr.Wrap(err, "lock_token_for_approve")
	}

	updateQuery := fmt.Sprintf(
		`UPDATE %s SET %s = jsonb_set(%s, ARRAY[$2], to_jsonb($3::bigint)), %s = $3 + 1, %s = now() WHERE %s = $1`,
		schema.NFTToken.Table,
		schema.NFTToken.Approvals, schema.NFTToken.Approvals,
		schema.NFTToken.NextApprovalID, schema.NFTToken.UpdatedAt, schema.NFTToken.ID,
	)
	if _, err := tx.Exec(context, updateQuery, id, account, approvalID); err != nil {
		return 0, false, dberr.Wrap(err, "approve_token")
	}

	if err := tx.Commit(context); err != nil {
		return 0, false, dberr.Wrap(err, "commit_approve")
	}
	return approvalID, wasPresent, nil
}

func (repository *PostgresRepository) RemoveApproval(context context.Context, id, account string) (bool, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return false, dberr.Wrap(err, "begin_revoke")
	}
	defer func() { _ = tx.Rollback(context) }()

	lockQuery := fmt.Sprintf(`SELECT %s ? $2 FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.NFTToken.Approvals, schema.NFTToken.Table, schema.NFTToken.ID)

	var present bool
	if err := tx.QueryRow(context, lockQuery, id, account).Scan(&present); err != nil {
		return false, dberr.Wrap(err, "lock_token_for_revoke")
	}
	if !present {
		return false, tx.Commit(context)
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET %s = %s - $2, %s = now() WHERE %s = $1`,
		schema.NFTToken.Table,
		schema.NFTToken.Approvals, schema.NFTToken.Approvals,
		schema.NFTToken.UpdatedAt, schema.NFTToken.ID,
	)
	if _, err := tx.Exec(context, updateQuery, id, account); err != nil {
		return false, dberr.Wrap(err, "revoke_approval")
	}

	if err := tx.Commit(context); err != nil {
		return false, dberr.Wrap(err, "commit_revoke")
	}
	return true, nil
}

func (repository *PostgresRepository) ClearApprovals(context context.Context, id string) (map[string]uint64, error) {
	return repository.clearAndAssign(context, id, "", "")
}

func (repository *PostgresRepository) Transfer(context context.Context, id, expectedOwner, newOwner string) (map[string]uint64, error) {
	return repository.clearAndAssign(context, id, expectedOwner, newOwner)
}

// clearAndAssign clears the approval map and, when newOwner is non-empty,
// reassigns ownership guarded by expectedOwner. It returns the approvals as
// they were before clearing.
func (repository *PostgresRepository) clearAndAssign(context context.Context, id, expectedOwner, newOwner string) (map[string]uint64, error) {
	tx, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_transfer")
	}
	defer func() { _ = tx.Rollback(context) }()

	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.NFTToken.Approvals, schema.NFTToken.Table, schema.NFTToken.ID)
	lockArgs := []any{id}
	if newOwner != "" {
		lockQuery += fmt.Sprintf(` AND %s = $2`, schema.NFTToken.Owner)
		lockArgs = append(lockArgs, expectedOwner)
	}
	lockQuery += ` FOR UPDATE`

	var approvalsRaw []byte
	if err := tx.QueryRow(context, lockQuery, lockArgs...).Scan(&approvalsRaw); err != nil {
		return nil, dberr.Wrap(err, "lock_token_for_transfer")
	}

	cleared := make(map[string]uint64)
	if len(approvalsRaw) > 0 {
		if err := json.Unmarshal(approvalsRaw, &cleared); err != nil {
			return nil, fmt.Errorf("token: corrupt approvals map for %s: %w", id, err)
		}
	}

	var updateQuery string
	updateArgs := []any{id}
	if newOwner != "" {
		updateQuery = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = '{}'::jsonb, %s = now() WHERE %s = $1`,
			schema.NFTToken.Table, schema.NFTToken.Owner,
			schema.NFTToken.Approvals, schema.NFTToken.UpdatedAt, schema.NFTToken.ID)
		updateArgs = append(updateArgs, newOwner)
	} else {
		updateQuery = fmt.Sprintf(`UPDATE %s SET %s = '{}'::jsonb, %s = now() WHERE %s = $1`,
			schema.NFTToken.Table, schema.NFTToken.Approvals,
			schema.NFTToken.UpdatedAt, schema.NFTToken.ID)
	}
	if _, err := tx.Exec(context, updateQuery, updateArgs...); err != nil {
		return nil, dberr.Wrap(err, "apply_transfer")
	}

	if err := tx.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_transfer")
	}
	return cleared, nil
}

func (repository *PostgresRepository) Restore(context context.Context, id, owner string, approvals map[string]uint64) error {
	if approvals == nil {
		approvals = make(map[string]uint64)
	}
	approvalsRaw, err := json.Marshal(approvals)
	if err != nil {
		return fmt.Errorf("token: failed to marshal approvals: %w", err)
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3::jsonb, %s = now() WHERE %s = $1`,
		schema.NFTToken.Table, schema.NFTToken.Owner,
		schema.NFTToken.Approvals, schema.NFTToken.UpdatedAt, schema.NFTToken.ID,
	)

	tag, err := repository.db.Exec(context, query, id, owner, approvalsRaw)
	if err != nil {
		return dberr.Wrap(err, "restore_token")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
