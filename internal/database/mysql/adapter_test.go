package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"driver dsn", "root:pw@tcp(localhost:3306)/master_db", "root:pw@tcp(localhost:3306)/master_db?parseTime=true"},
		{"url form", "mysql://root:pw@localhost:3306/master_db", "root:pw@tcp(localhost:3306)/master_db?parseTime=true"},
		{"keeps parseTime", "root:pw@tcp(db:3306)/x?parseTime=true", "root:pw@tcp(db:3306)/x?parseTime=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeDSN(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryInt64AndTx(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewWithDB(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(`flow_id`), 0) FROM `data_flows`")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(12))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `data_flows`")).
		WithArgs(int64(13), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	maxID, err := adapter.QueryInt64(ctx, "SELECT COALESCE(MAX(`flow_id`), 0) FROM `data_flows`")
	require.NoError(t, err)
	assert.Equal(t, int64(12), maxID)

	tx, err := adapter.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "INSERT INTO `data_flows` (flow_id,source_id) VALUES (?,?)", int64(13), int64(4)))
	require.NoError(t, tx.Commit(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateCreateTableSQL(t *testing.T) {
	table := types.SchemaTable{
		Name: "analyses",
		Columns: []types.SchemaColumn{
			{Name: "analysis_id", Type: "BIGINT", IsPrimary: true},
			{Name: "flow_id", Type: "BIGINT", ForeignKeyTable: "data_flows", ForeignKeyColumn: "flow_id"},
			{Name: "analyzed_at", Type: "TIMESTAMP"},
		},
	}

	sql := New().GenerateCreateTableSQL(table)

	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS `analyses` (")
	assert.Contains(t, sql, "`analyzed_at` DATETIME NOT NULL,")
	assert.Contains(t, sql, "FOREIGN KEY (`flow_id`) REFERENCES `data_flows`(`flow_id`)")
	assert.Contains(t, sql, "ENGINE=InnoDB")
}
