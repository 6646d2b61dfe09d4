package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })
	return &DB{DB: sqlx.NewDb(raw, "postgres")}, mock
}

func TestUTXORepo_ListUnspent(t *testing.T) {
	db, mock := newMockDB(t)
	chain := domain.MustParseChainID("bip122:000000000019d6689c085ae165831e93")

	rows := sqlmock.NewRows([]string{"txid", "vout", "value", "block_height"}).
		AddRow("aa", 0, 10000, 800000).
		AddRow("bb", 3, 20000, nil)
	mock.ExpectQuery(`FROM utxos`).
		WithArgs(chain.String(), "bc1qaddr").
		WillReturnRows(rows)

	utxos, err := NewUTXORepo(db).ListUnspent(context.Background(), chain, "bc1qaddr")
	require.NoError(t, err)
	assert.Equal(t, []domain.UTXO{
		{TxID: "aa", Vout: 0, Value: 10000, Confirmed: true, BlockHeight: 800000},
		{TxID: "bb", Vout: 3, Value: 20000},
	}, utxos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUTXORepo_ListUnspent_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	chain := domain.MustParseChainID("bip122:000000000933ea01ad0ee984209779ba")

	mock.ExpectQuery(`FROM utxos`).
		WithArgs(chain.String(), "tb1qaddr").
		WillReturnRows(sqlmock.NewRows([]string{"txid", "vout", "value", "block_height"}))

	utxos, err := NewUTXORepo(db).ListUnspent(context.Background(), chain, "tb1qaddr")
	require.NoError(t, err)
	assert.Empty(t, utxos)
}

func TestUTXORepo_ListUnspent_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	chain := domain.MustParseChainID("bip122:000000000019d6689c085ae165831e93")
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT txid`).WillReturnError(boom)

	_, err := NewUTXORepo(db).ListUnspent(context.Background(), chain, "bc1qaddr")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestUTXORepo_ListUnspent_NegativeValue(t *testing.T) {
	db, mock := newMockDB(t)
	chain := domain.MustParseChainID("bip122:000000000019d6689c085ae165831e93")

	mock.ExpectQuery(`SELECT txid`).
		WillReturnRows(sqlmock.NewRows([]string{"txid", "vout", "value", "block_height"}).
			AddRow("aa", 0, -1, nil))

	_, err := NewUTXORepo(db).ListUnspent(context.Background(), chain, "bc1qaddr")
	assert.ErrorContains(t, err, "corrupt utxo row")
}

func TestUTXORepo_DeleteSpentBefore(t *testing.T) {
	db, mock := newMockDB(t)
	before := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM utxos WHERE spent_at IS NOT NULL`).
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := NewUTXORepo(db).DeleteSpentBefore(context.Background(), before)
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
