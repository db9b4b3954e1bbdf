package schema

import (
	"context"
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"go.uber.org/zap"
)

// Executor is the part of a database session the manager needs.
type Executor interface {
	Exec(ctx context.Context, query string, args ...interface{}) error
	GenerateCreateTableSQL(table types.SchemaTable) string
}

type Manager struct {
	db  Executor
	log *zap.Logger
}

func NewManager(db Executor, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{db: db, log: log}
}

// Ensure creates every missing table in dependency order. Tables that
// already exist are left untouched.
func (m *Manager) Ensure(ctx context.Context) error {
	order, err := InsertionOrder()
	if err != nil {
		return err
	}

	for _, name := range order {
		table, _ := Lookup(name)
		stmt := m.db.GenerateCreateTableSQL(table)
		m.log.Debug("ensuring table", zap.String("table", name))
		if err := m.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
	}

	m.log.Info("schema ready", zap.Strings("tables", order))
	return nil
}

// Statements renders the CREATE TABLE statements without executing them.
func (m *Manager) Statements() ([]string, error) {
	order, err := InsertionOrder()
	if err != nil {
		return nil, err
	}
	stmts := make([]string, 0, len(order))
	for _, name := range order {
		table, _ := Lookup(name)
		stmts = append(stmts, m.db.GenerateCreateTableSQL(table))
	}
	return stmts, nil
}
