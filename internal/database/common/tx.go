package common

import (
	"context"
	"database/sql"
)

// Tx is the statement surface available inside a transaction scope.
type Tx interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SQLTx adapts *sql.Tx for the database/sql based adapters.
type SQLTx struct {
	Tx *sql.Tx
}

func (t *SQLTx) Exec(ctx context.Context, query string, args ...interface{}) error {
	_, err := t.Tx.ExecContext(ctx, query, args...)
	return err
}

func (t *SQLTx) Commit(ctx context.Context) error {
	return t.Tx.Commit()
}

func (t *SQLTx) Rollback(ctx context.Context) error {
	return t.Tx.Rollback()
}

// QueryInt64 runs a single-value query on db.
func QueryInt64(ctx context.Context, db *sql.DB, query string, args ...interface{}) (int64, error) {
	var value int64
	if err := db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}
