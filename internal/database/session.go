package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

// validIdentifier validates SQL identifiers (table/column names)
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Session holds the single database session shared by the schema manager,
// the generator's resume lookups and the batch loader.
type Session struct {
	cfg     config.Database
	adapter DatabaseAdapter
	log     *zap.Logger
}

func NewSession(cfg config.Database, log *zap.Logger) *Session {
	return NewSessionWithAdapter(cfg, NewAdapter(cfg.Provider), log)
}

func NewSessionWithAdapter(cfg config.Database, adapter DatabaseAdapter, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{cfg: cfg, adapter: adapter, log: log}
}

func (s *Session) Provider() string {
	return s.cfg.Provider
}

// Ensure opens the session if none is open and verifies it with a ping.
// An open session is reused as is.
func (s *Session) Ensure(ctx context.Context) error {
	if s.adapter.IsConnected() {
		return nil
	}

	s.log.Debug("opening database session",
		zap.String("provider", s.cfg.Provider),
		zap.String("target", s.cfg.Redacted()))

	if err := s.adapter.Connect(ctx, s.cfg.URL()); err != nil {
		return s.connectionError(err)
	}
	if err := s.adapter.Ping(ctx); err != nil {
		s.adapter.Close()
		return s.connectionError(err)
	}

	s.log.Info("database session opened", zap.String("provider", s.cfg.Provider))
	return nil
}

func (s *Session) connectionError(err error) error {
	return &ConnectionError{
		Provider: s.cfg.Provider,
		Target:   s.cfg.Redacted(),
		Reason:   connectionReason(err),
		Err:      err,
	}
}

func (s *Session) IsOpen() bool {
	return s.adapter.IsConnected()
}

func (s *Session) Close() error {
	if !s.adapter.IsConnected() {
		return nil
	}
	s.log.Debug("closing database session")
	return s.adapter.Close()
}

// WithTx runs fn inside one transaction. The transaction is committed when
// fn returns nil and rolled back when it returns an error or panics.
func (s *Session) WithTx(ctx context.Context, fn func(tx common.Tx) error) error {
	if err := s.Ensure(ctx); err != nil {
		return err
	}

	tx, err := s.adapter.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		s.log.Warn("rolling back transaction", zap.Error(err))
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Exec runs a statement outside any explicit transaction.
func (s *Session) Exec(ctx context.Context, query string, args ...interface{}) error {
	if err := s.Ensure(ctx); err != nil {
		return err
	}
	return s.adapter.Exec(ctx, query, args...)
}

// MaxID returns the largest stored value of column in table, or 0 for an
// empty table.
func (s *Session) MaxID(ctx context.Context, table, column string) (int64, error) {
	if !validIdentifier.MatchString(table) || !validIdentifier.MatchString(column) {
		return 0, fmt.Errorf("invalid identifier: %s.%s", table, column)
	}
	if err := s.Ensure(ctx); err != nil {
		return 0, err
	}

	query, args, err := s.adapter.StatementBuilder().
		Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", s.adapter.QuoteIdentifier(column))).
		From(s.adapter.QuoteIdentifier(table)).
		ToSql()
	if err != nil {
		return 0, err
	}

	maxID, err := s.adapter.QueryInt64(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to read max %s from %s: %w", column, table, err)
	}
	return maxID, nil
}

func (s *Session) CountRows(ctx context.Context, table string) (int64, error) {
	if !validIdentifier.MatchString(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	if err := s.Ensure(ctx); err != nil {
		return 0, err
	}

	query, args, err := s.adapter.StatementBuilder().
		Select("COUNT(*)").
		From(s.adapter.QuoteIdentifier(table)).
		ToSql()
	if err != nil {
		return 0, err
	}

	count, err := s.adapter.QueryInt64(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// InsertBuilder starts a multi-row INSERT for table in the session dialect.
func (s *Session) InsertBuilder(table string, columns []string) (squirrel.InsertBuilder, error) {
	if !validIdentifier.MatchString(table) {
		return squirrel.InsertBuilder{}, fmt.Errorf("invalid table name: %s", table)
	}
	for _, col := range columns {
		if !validIdentifier.MatchString(col) {
			return squirrel.InsertBuilder{}, fmt.Errorf("invalid column name in table %s: %s", table, col)
		}
	}
	return s.adapter.StatementBuilder().
		Insert(s.adapter.QuoteIdentifier(table)).
		Columns(columns...), nil
}

func (s *Session) MaxBindParams() int {
	return s.adapter.MaxBindParams()
}

func (s *Session) StatementBuilder() squirrel.StatementBuilderType {
	return s.adapter.StatementBuilder()
}

func (s *Session) QuoteIdentifier(name string) string {
	return s.adapter.QuoteIdentifier(name)
}

func (s *Session) GenerateCreateTableSQL(table types.SchemaTable) string {
	return s.adapter.GenerateCreateTableSQL(table)
}
