// Copyright (c) 2026 Satori HQ. All rights reserved.

package deposit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satori-hq/nft-series/internal/platform/database/schema"
	"github.com/satori-hq/nft-series/internal/platform/dberr"
	"github.com/satori-hq/nft-series/pkg/uuidv7"
)

// PostgresBank persists refunds into the nft.paymentrefund ledger.
type PostgresBank struct {
	db *pgxpool.Pool
}

// NewPostgresBank creates a PostgresBank backed by the given pool.
func NewPostgresBank(db *pgxpool.Pool) *PostgresBank {
	return &PostgresBank{db: db}
}

// Refund appends a ledger entry crediting the amount back to the account.
func (bank *PostgresBank) Refund(context context.Context, account string, amount uint64, reason string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.NFTPaymentRefund.Table,
		schema.NFTPaymentRefund.ID, schema.NFTPaymentRefund.Account,
		schema.NFTPaymentRefund.Amount, schema.NFTPaymentRefund.Reason,
	)

	if _, err := bank.db.Exec(context, query, uuidv7.New(), account, amount, reason); err != nil {
		return dberr.Wrap(err, "insert_refund")
	}
	return nil
}
