package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Lumos-Labs-HQ/flowseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() *seeder.Result {
	created := time.Date(2023, 1, 4, 10, 30, 0, 0, time.UTC)
	return &seeder.Result{
		RunID:     uuid.MustParse("6f1c1a52-3c4e-4d8a-9d43-8f0e6a9f2b11"),
		StartedAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		Persisted: true,
		Dataset: seeder.Dataset{
			Sources: []types.Source{{
				ID: 1, Name: "System ERP - Acme", DataKind: "log", Volume: 12000, Latency: "daily",
				Description: "Nightly ledger dump", CreatedAt: created, UpdatedAt: created.Add(time.Hour),
			}},
			Flows: []types.Flow{{
				ID: 1, SourceID: 1, Destination: "Data Lake", Status: "active",
				CreatedAt: created, UpdatedAt: created.Add(time.Minute),
			}},
			Analyses: []types.Analysis{{
				ID: 1, FlowID: 1, Hypothesis: "Hypothesis: Churn Analysis - x", Result: "ok",
				AnalyzedAt: created.AddDate(0, 0, 3), Responsible: "Ana Souza",
			}},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	path, err := Write(sampleResult(), t.TempDir(), "json")
	require.NoError(t, err)
	assert.Equal(t, "run_2024-05-06_07-08-09.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		RunID   string         `json:"run_id"`
		Sources []types.Source `json:"sources"`
		Flows   []types.Flow   `json:"flows"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "6f1c1a52-3c4e-4d8a-9d43-8f0e6a9f2b11", decoded.RunID)
	require.Len(t, decoded.Sources, 1)
	assert.Equal(t, "System ERP - Acme", decoded.Sources[0].Name)
	require.Len(t, decoded.Flows, 1)
	assert.Equal(t, "Data Lake", decoded.Flows[0].Destination)
}

func TestWriteYAML(t *testing.T) {
	path, err := Write(sampleResult(), t.TempDir(), "yaml")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "sources")
	assert.Contains(t, decoded, "flows")
	assert.Contains(t, decoded, "analyses")
	assert.Equal(t, true, decoded["persisted"])
}

func TestWriteCSV(t *testing.T) {
	dir, err := Write(sampleResult(), t.TempDir(), "csv")
	require.NoError(t, err)

	for table, header := range map[string][]string{
		types.SourcesTable:  types.SourceColumns,
		types.FlowsTable:    types.FlowColumns,
		types.AnalysesTable: types.AnalysisColumns,
	} {
		f, err := os.Open(filepath.Join(dir, table+".csv"))
		require.NoError(t, err, table)
		records, err := csv.NewReader(f).ReadAll()
		f.Close()
		require.NoError(t, err)
		require.Len(t, records, 2, table)
		assert.Equal(t, header, records[0])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	_, err := Write(sampleResult(), t.TempDir(), "xml")
	assert.ErrorContains(t, err, "unsupported export format")
}
