package schema

import "github.com/Lumos-Labs-HQ/flowseed/internal/types"

// Tables returns the three generated tables in declaration order.
func Tables() []types.SchemaTable {
	return []types.SchemaTable{
		{
			Name: types.SourcesTable,
			Columns: []types.SchemaColumn{
				{Name: "source_id", Type: "BIGINT", IsPrimary: true},
				{Name: "source_name", Type: "VARCHAR(255)"},
				{Name: "data_kind", Type: "VARCHAR(50)"},
				{Name: "volume", Type: "BIGINT"},
				{Name: "latency", Type: "VARCHAR(50)"},
				{Name: "description", Type: "TEXT"},
				{Name: "created_at", Type: "TIMESTAMP"},
				{Name: "updated_at", Type: "TIMESTAMP"},
			},
		},
		{
			Name: types.FlowsTable,
			Columns: []types.SchemaColumn{
				{Name: "flow_id", Type: "BIGINT", IsPrimary: true},
				{Name: "source_id", Type: "BIGINT", ForeignKeyTable: types.SourcesTable, ForeignKeyColumn: "source_id", OnDeleteAction: "RESTRICT"},
				{Name: "destination", Type: "VARCHAR(255)"},
				{Name: "status", Type: "VARCHAR(50)"},
				{Name: "created_at", Type: "TIMESTAMP"},
				{Name: "updated_at", Type: "TIMESTAMP"},
			},
		},
		{
			Name: types.AnalysesTable,
			Columns: []types.SchemaColumn{
				{Name: "analysis_id", Type: "BIGINT", IsPrimary: true},
				{Name: "flow_id", Type: "BIGINT", ForeignKeyTable: types.FlowsTable, ForeignKeyColumn: "flow_id", OnDeleteAction: "RESTRICT"},
				{Name: "hypothesis", Type: "TEXT"},
				{Name: "result", Type: "TEXT"},
				{Name: "analyzed_at", Type: "TIMESTAMP"},
				{Name: "responsible", Type: "VARCHAR(255)"},
			},
		},
	}
}

// Lookup returns the table description by name.
func Lookup(name string) (types.SchemaTable, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return types.SchemaTable{}, false
}
