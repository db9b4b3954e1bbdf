package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestSeeder(session *database.Session) *Seeder {
	return NewSeeder(session, Options{Generator: GeneratorOptions{RandSeed: 11}, Quiet: true}, nil)
}

func TestGenerateAndLoadResumesIdentifiers(t *testing.T) {
	ctx := context.Background()
	session := newStore(t)
	s := newTestSeeder(session)
	counts := Counts{Sources: 5, Flows: 10, Analyses: 15}

	first, err := s.GenerateAndLoad(ctx, counts)
	require.NoError(t, err)
	assert.True(t, first.Persisted)
	assert.NotEqual(t, uuid.Nil, first.RunID)
	assert.Equal(t, 30, first.Total())
	assert.Equal(t, [3]int64{5, 10, 15}, rowCounts(t, session))
	assert.Equal(t, int64(1), first.Sources[0].ID)
	assert.Equal(t, int64(5), first.Sources[4].ID)

	second, err := s.GenerateAndLoad(ctx, counts)
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, [3]int64{10, 20, 30}, rowCounts(t, session))

	for i, src := range second.Sources {
		assert.Equal(t, int64(6+i), src.ID)
	}
	for i, f := range second.Flows {
		assert.Equal(t, int64(11+i), f.ID)
		assert.GreaterOrEqual(t, f.SourceID, int64(6), "flow %d must reference this run's sources", f.ID)
	}
	for i, a := range second.Analyses {
		assert.Equal(t, int64(16+i), a.ID)
		assert.GreaterOrEqual(t, a.FlowID, int64(11))
	}
}

func TestGenerateAndLoadReturnsSetsUnchanged(t *testing.T) {
	session := newStore(t)

	result, err := newTestSeeder(session).GenerateAndLoad(context.Background(), Counts{Sources: 2, Flows: 3, Analyses: 4})
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)
	require.Len(t, result.Flows, 3)
	require.Len(t, result.Analyses, 4)

	maxID, err := session.MaxID(context.Background(), types.FlowsTable, "flow_id")
	require.NoError(t, err)
	assert.Equal(t, result.Flows[len(result.Flows)-1].ID, maxID)
}

func TestGenerateAndLoadPropagatesPrecondition(t *testing.T) {
	session := newStore(t)

	_, err := newTestSeeder(session).GenerateAndLoad(context.Background(), Counts{Sources: 0, Flows: 10, Analyses: 10})
	require.ErrorIs(t, err, ErrPrecondition)
	assert.Contains(t, err.Error(), "generate_sources")
	assert.Equal(t, [3]int64{0, 0, 0}, rowCounts(t, session))
}

func TestGenerateAndLoadConnectionError(t *testing.T) {
	session := database.NewSession(config.Database{
		Provider: "postgresql", Name: "test_db", User: "postgres", Password: "postgres", Host: "127.0.0.1", Port: "1",
	}, nil)

	_, err := newTestSeeder(session).GenerateAndLoad(context.Background(), DefaultCounts)
	require.Error(t, err)

	var connErr *database.ConnectionError
	assert.True(t, errors.As(err, &connErr))
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	session := newStore(t)

	result, err := newTestSeeder(session).Generate(context.Background(), Counts{Sources: 4, Flows: 4, Analyses: 4})
	require.NoError(t, err)
	assert.False(t, result.Persisted)
	assert.Equal(t, 12, result.Total())
	assert.Equal(t, [3]int64{0, 0, 0}, rowCounts(t, session))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Generation{TextSeed: 7, RandSeed: 9, BatchSize: 25})
	assert.Equal(t, int64(7), opts.Generator.TextSeed)
	assert.Equal(t, int64(9), opts.Generator.RandSeed)
	assert.Equal(t, 25, opts.BatchSize)
}

func TestRunLoggerScopedToRun(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.DebugLevel)
	base := zap.New(core)
	s := NewSeeder(newStore(t), Options{Generator: GeneratorOptions{RandSeed: 5}, Quiet: true}, base)

	first, err := s.Generate(ctx, Counts{Sources: 1, Flows: 1, Analyses: 1})
	require.NoError(t, err)
	second, err := s.Generate(ctx, Counts{Sources: 1, Flows: 1, Analyses: 1})
	require.NoError(t, err)

	assert.Same(t, base, s.generator.log)

	runIDs := make([]string, 0, 2)
	for _, entry := range logs.FilterMessage("generated sources").All() {
		runIDs = append(runIDs, entry.ContextMap()["run_id"].(string))
	}
	assert.Equal(t, []string{first.RunID.String(), second.RunID.String()}, runIDs)
}
