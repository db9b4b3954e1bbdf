package database

import (
	"context"

	"github.com/Lumos-Labs-HQ/flowseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/Masterminds/squirrel"
)

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
	IsConnected() bool

	Exec(ctx context.Context, query string, args ...interface{}) error
	QueryInt64(ctx context.Context, query string, args ...interface{}) (int64, error)
	Begin(ctx context.Context) (common.Tx, error)
	// MaxBindParams is the most placeholders one statement may carry.
	MaxBindParams() int

	// SQL generation
	StatementBuilder() squirrel.StatementBuilderType
	QuoteIdentifier(name string) string
	GenerateCreateTableSQL(table types.SchemaTable) string
	FormatColumnType(column types.SchemaColumn) string
}
