package types

type SchemaTable struct {
	Name    string
	Columns []SchemaColumn
}

type SchemaColumn struct {
	Name             string
	Type             string
	IsPrimary        bool
	ForeignKeyTable  string
	ForeignKeyColumn string
	OnDeleteAction   string
}

// PrimaryKey returns the name of the first primary key column, or "".
func (t SchemaTable) PrimaryKey() string {
	for _, col := range t.Columns {
		if col.IsPrimary {
			return col.Name
		}
	}
	return ""
}

// Dependencies lists the tables t references through foreign keys.
func (t SchemaTable) Dependencies() []string {
	var deps []string
	for _, col := range t.Columns {
		if col.ForeignKeyTable != "" && col.ForeignKeyTable != t.Name {
			deps = append(deps, col.ForeignKeyTable)
		}
	}
	return deps
}

// ColumnNames returns column names in declaration order.
func (t SchemaTable) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

type TableStatus struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
	MaxID int64  `json:"max_id"`
}
