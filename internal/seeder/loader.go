package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/database"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database/common"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"go.uber.org/zap"
)

// Loader writes a Dataset into the store in a single transaction.
type Loader struct {
	session   *database.Session
	batchSize int
	log       *zap.Logger
}

// NewLoader returns a loader. A batchSize of zero inserts each table with
// as few statements as the dialect's placeholder limit allows.
func NewLoader(session *database.Session, batchSize int, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{session: session, batchSize: batchSize, log: log}
}

// Load inserts sources, flows and analyses in that order and commits once.
// Any failed insert rolls back the whole dataset.
func (l *Loader) Load(ctx context.Context, ds Dataset) error {
	if len(ds.Sources) == 0 || len(ds.Flows) == 0 || len(ds.Analyses) == 0 {
		return precondition("generate all three before loading (sources=%d flows=%d analyses=%d)",
			len(ds.Sources), len(ds.Flows), len(ds.Analyses))
	}

	if err := l.session.Ensure(ctx); err != nil {
		return err
	}

	err := l.session.WithTx(ctx, func(tx common.Tx) error {
		if err := l.insert(ctx, tx, types.SourcesTable, types.SourceColumns, sourceRows(ds.Sources)); err != nil {
			return err
		}
		if err := l.insert(ctx, tx, types.FlowsTable, types.FlowColumns, flowRows(ds.Flows)); err != nil {
			return err
		}
		return l.insert(ctx, tx, types.AnalysesTable, types.AnalysisColumns, analysisRows(ds.Analyses))
	})
	if err != nil {
		var persistErr *PersistenceError
		var connErr *database.ConnectionError
		if errors.As(err, &persistErr) || errors.As(err, &connErr) {
			return err
		}
		return &PersistenceError{Err: err}
	}

	l.log.Info("dataset committed",
		zap.Int("sources", len(ds.Sources)),
		zap.Int("flows", len(ds.Flows)),
		zap.Int("analyses", len(ds.Analyses)))
	return nil
}

func (l *Loader) insert(ctx context.Context, tx common.Tx, table string, columns []string, rows [][]interface{}) error {
	batchSize := chunkSize(l.batchSize, len(rows), len(columns), l.session.MaxBindParams())

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		ib, err := l.session.InsertBuilder(table, columns)
		if err != nil {
			return &PersistenceError{Table: table, Err: err}
		}
		for _, row := range rows[start:end] {
			ib = ib.Values(row...)
		}

		query, args, err := ib.ToSql()
		if err != nil {
			return &PersistenceError{Table: table, Err: fmt.Errorf("failed to build insert: %w", err)}
		}
		if err := tx.Exec(ctx, query, args...); err != nil {
			return &PersistenceError{Table: table, Err: err}
		}
	}

	l.log.Debug("inserted rows", zap.String("table", table), zap.Int("rows", len(rows)))
	return nil
}

// chunkSize is the number of rows per INSERT: the requested size, or all
// rows when none is requested, never more than maxParams placeholders.
func chunkSize(requested, rows, columns, maxParams int) int {
	size := requested
	if size <= 0 {
		size = rows
	}
	if columns > 0 && maxParams > 0 && size*columns > maxParams {
		size = maxParams / columns
	}
	if size < 1 {
		size = 1
	}
	return size
}

func sourceRows(sources []types.Source) [][]interface{} {
	rows := make([][]interface{}, len(sources))
	for i, s := range sources {
		rows[i] = s.Row()
	}
	return rows
}

func flowRows(flows []types.Flow) [][]interface{} {
	rows := make([][]interface{}, len(flows))
	for i, f := range flows {
		rows[i] = f.Row()
	}
	return rows
}

func analysisRows(analyses []types.Analysis) [][]interface{} {
	rows := make([][]interface{}, len(analyses))
	for i, a := range analyses {
		rows[i] = a.Row()
	}
	return rows
}
