package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectInMemory(t *testing.T) {
	ctx := context.Background()
	adapter := New()
	require.NoError(t, adapter.Connect(ctx, "sqlite://:memory:"))
	defer adapter.Close()

	assert.True(t, adapter.IsConnected())
	require.NoError(t, adapter.Ping(ctx))

	require.NoError(t, adapter.Exec(ctx, `CREATE TABLE "parent" ("id" BIGINT PRIMARY KEY)`))
	require.NoError(t, adapter.Exec(ctx, `CREATE TABLE "child" ("id" BIGINT PRIMARY KEY, "parent_id" BIGINT NOT NULL, FOREIGN KEY ("parent_id") REFERENCES "parent"("id"))`))

	maxID, err := adapter.QueryInt64(ctx, `SELECT COALESCE(MAX("id"), 0) FROM "parent"`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), maxID)

	// foreign keys are enforced
	assert.Error(t, adapter.Exec(ctx, `INSERT INTO "child" ("id", "parent_id") VALUES (1, 99)`))
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	adapter := New()
	require.NoError(t, adapter.Connect(ctx, "sqlite://:memory:"))
	defer adapter.Close()

	require.NoError(t, adapter.Exec(ctx, `CREATE TABLE "t" ("id" BIGINT PRIMARY KEY)`))

	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, `INSERT INTO "t" ("id") VALUES (?), (?)`, 1, 2))
	assert.Error(t, tx.Exec(ctx, `INSERT INTO "t" ("id") VALUES (?)`, 1))
	require.NoError(t, tx.Rollback(ctx))

	count, err := adapter.QueryInt64(ctx, `SELECT COUNT(*) FROM "t"`)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"data_sources"`, New().QuoteIdentifier("data_sources"))
	assert.Equal(t, `"we""ird"`, New().QuoteIdentifier(`we"ird`))
}
