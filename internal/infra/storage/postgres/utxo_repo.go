package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

const listUnspent = `SELECT txid, vout, value, block_height
FROM utxos
WHERE chain_id = $1 AND address = $2 AND spent_at IS NULL
ORDER BY block_height NULLS LAST, txid, vout`

type utxoRow struct {
	TxID        string        `db:"txid"`
	Vout        int64         `db:"vout"`
	Value       int64         `db:"value"`
	BlockHeight sql.NullInt64 `db:"block_height"`
}

// UTXORepo reads unspent outputs maintained by an external indexer.
type UTXORepo struct {
	db *DB
}

// NewUTXORepo creates a new PostgreSQL UTXO repository.
func NewUTXORepo(db *DB) *UTXORepo {
	return &UTXORepo{db: db}
}

// ListUnspent returns the unspent outputs of address on chain.
// Rows without a block height are unconfirmed.
func (r *UTXORepo) ListUnspent(
	ctx context.Context,
	chain domain.ChainID,
	address string,
) ([]domain.UTXO, error) {
	var rows []utxoRow
	if err := r.db.SelectContext(ctx, &rows, listUnspent, chain.String(), address); err != nil {
		return nil, fmt.Errorf("failed to list utxos: %w", err)
	}

	utxos := make([]domain.UTXO, 0, len(rows))
	for _, row := range rows {
		if row.Value < 0 || row.Vout < 0 {
			return nil, fmt.Errorf("corrupt utxo row %s:%d", row.TxID, row.Vout)
		}
		u := domain.UTXO{
			TxID:  row.TxID,
			Vout:  uint32(row.Vout),
			Value: uint64(row.Value),
		}
		if row.BlockHeight.Valid {
			u.Confirmed = true
			u.BlockHeight = uint64(row.BlockHeight.Int64)
		}
		utxos = append(utxos, u)
	}
	return utxos, nil
}

// DeleteSpentBefore removes outputs spent before the cutoff.
func (r *UTXORepo) DeleteSpentBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM utxos WHERE spent_at IS NOT NULL AND spent_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune utxos: %w", err)
	}
	return res.RowsAffected()
}
