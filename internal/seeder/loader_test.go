package seeder

import (
	"context"
	"testing"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database"
	"github.com/Lumos-Labs-HQ/flowseed/internal/schema"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore opens an in-memory SQLite session with the three tables created.
func newStore(t *testing.T) *database.Session {
	t.Helper()
	session := database.NewSession(config.Database{Provider: "sqlite", Name: ":memory:"}, nil)
	t.Cleanup(func() { session.Close() })
	require.NoError(t, schema.NewManager(session, nil).Ensure(context.Background()))
	return session
}

func generateDataset(t *testing.T, session *database.Session, counts Counts) Dataset {
	t.Helper()
	ctx := context.Background()
	g := NewGenerator(session.MaxID, GeneratorOptions{RandSeed: 3})

	sources, err := g.GenerateSources(ctx, counts.Sources)
	require.NoError(t, err)
	flows, err := g.GenerateFlows(ctx, sources, counts.Flows)
	require.NoError(t, err)
	analyses, err := g.GenerateAnalyses(ctx, flows, counts.Analyses)
	require.NoError(t, err)
	return Dataset{Sources: sources, Flows: flows, Analyses: analyses}
}

func rowCounts(t *testing.T, session *database.Session) [3]int64 {
	t.Helper()
	var counts [3]int64
	for i, table := range []string{types.SourcesTable, types.FlowsTable, types.AnalysesTable} {
		n, err := session.CountRows(context.Background(), table)
		require.NoError(t, err, table)
		counts[i] = n
	}
	return counts
}

func TestLoadCommitsAllTables(t *testing.T) {
	session := newStore(t)
	ds := generateDataset(t, session, Counts{Sources: 5, Flows: 10, Analyses: 15})

	require.NoError(t, NewLoader(session, 0, nil).Load(context.Background(), ds))
	assert.Equal(t, [3]int64{5, 10, 15}, rowCounts(t, session))
}

func TestLoadInBatches(t *testing.T) {
	session := newStore(t)
	ds := generateDataset(t, session, Counts{Sources: 7, Flows: 13, Analyses: 21})

	require.NoError(t, NewLoader(session, 4, nil).Load(context.Background(), ds))
	assert.Equal(t, [3]int64{7, 13, 21}, rowCounts(t, session))

	maxID, err := session.MaxID(context.Background(), types.AnalysesTable, "analysis_id")
	require.NoError(t, err)
	assert.Equal(t, int64(21), maxID)
}

func TestLoadRollsBackWhenFlowInsertFails(t *testing.T) {
	session := newStore(t)
	ds := generateDataset(t, session, Counts{Sources: 5, Flows: 10, Analyses: 15})

	// dangling parent, rejected by the foreign key
	ds.Flows[3].SourceID = 9999

	err := NewLoader(session, 0, nil).Load(context.Background(), ds)
	require.Error(t, err)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, types.FlowsTable, persistErr.Table)
	assert.NotNil(t, persistErr.Unwrap())
	assert.Equal(t, [3]int64{0, 0, 0}, rowCounts(t, session))
}

func TestLoadRollsBackWithinTable(t *testing.T) {
	session := newStore(t)
	ds := generateDataset(t, session, Counts{Sources: 3, Flows: 3, Analyses: 3})

	ds.Analyses[2].ID = ds.Analyses[0].ID

	err := NewLoader(session, 1, nil).Load(context.Background(), ds)
	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, types.AnalysesTable, persistErr.Table)
	assert.Equal(t, [3]int64{0, 0, 0}, rowCounts(t, session))
}

func TestLoadRequiresAllThreeSets(t *testing.T) {
	ds := Dataset{
		Sources:  []types.Source{{ID: 1}},
		Flows:    []types.Flow{{ID: 1}},
		Analyses: []types.Analysis{{ID: 1}},
	}

	tests := []struct {
		name                                string
		mutate func(*Dataset)
	}{
		{"no sources", func(d *Dataset) { d.Sources = nil }},
		{"no flows", func(d *Dataset) { d.Flows = []types.Flow{} }},
		{"no analyses", func(d *Dataset) { d.Analyses = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// unreachable server: a connection attempt would surface as ConnectionError
			session := database.NewSession(config.Database{
				Provider: "postgresql", Name: "x", User: "u", Host: "127.0.0.1", Port: "1",
			}, nil)

			in := ds
			tt.mutate(&in)
			err := NewLoader(session, 0, nil).Load(context.Background(), in)
			require.ErrorIs(t, err, ErrPrecondition)
			assert.Contains(t, err.Error(), "generate all three before loading")
			assert.False(t, session.IsOpen())
		})
	}
}

func TestLoadReconnectsClosedSession(t *testing.T) {
	ctx := context.Background()
	session := database.NewSession(config.Database{Provider: "sqlite", Name: t.TempDir() + "/flowseed.db"}, nil)
	t.Cleanup(func() { session.Close() })
	require.NoError(t, schema.NewManager(session, nil).Ensure(ctx))

	ds := generateDataset(t, session, Counts{Sources: 2, Flows: 2, Analyses: 2})
	require.NoError(t, session.Close())

	require.NoError(t, NewLoader(session, 0, nil).Load(ctx, ds))
	assert.True(t, session.IsOpen())
	assert.Equal(t, [3]int64{2, 2, 2}, rowCounts(t, session))
}

func TestLoadLargeTableWithDefaultBatch(t *testing.T) {
	session := newStore(t)
	// 5000 sources x 8 columns is past SQLite's placeholder limit
	ds := generateDataset(t, session, Counts{Sources: 5000, Flows: 10, Analyses: 10})

	require.NoError(t, NewLoader(session, 0, nil).Load(context.Background(), ds))
	assert.Equal(t, [3]int64{5000, 10, 10}, rowCounts(t, session))
}

func TestChunkSize(t *testing.T) {
	tests := []struct {
		name                                string
		requested, rows, columns, maxParams int
		want                                int
	}{
		{"whole table fits", 0, 100, 8, 32766, 100},
		{"whole table capped", 0, 5000, 8, 32766, 4095},
		{"requested kept", 50, 5000, 8, 32766, 50},
		{"requested capped", 10000, 20000, 6, 65535, 10922},
		{"empty table", 0, 0, 8, 32766, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkSize(tt.requested, tt.rows, tt.columns, tt.maxParams))
		})
	}
}
