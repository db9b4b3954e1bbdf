package mysql

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
)

func (m *Adapter) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (m *Adapter) GenerateCreateTableSQL(table types.SchemaTable) string {
	var lines []string
	var foreignKeys []string

	for _, column := range table.Columns {
		if column.ForeignKeyTable != "" && column.ForeignKeyColumn != "" {
			fk := fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
				m.QuoteIdentifier(column.Name), m.QuoteIdentifier(column.ForeignKeyTable), m.QuoteIdentifier(column.ForeignKeyColumn))
			if column.OnDeleteAction != "" {
				fk += fmt.Sprintf(" ON DELETE %s", column.OnDeleteAction)
			}
			foreignKeys = append(foreignKeys, fk)
		}
	}

	lines = append(lines, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (", m.QuoteIdentifier(table.Name)))

	for i, column := range table.Columns {
		comma := ","
		if i == len(table.Columns)-1 && len(foreignKeys) == 0 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("  %s %s%s", m.QuoteIdentifier(column.Name), m.FormatColumnType(column), comma))
	}

	for i, fk := range foreignKeys {
		comma := ","
		if i == len(foreignKeys)-1 {
			comma = ""
		}
		lines = append(lines, fmt.Sprintf("%s%s", fk, comma))
	}

	lines = append(lines, ") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;")
	return strings.Join(lines, "\n")
}

func (m *Adapter) FormatColumnType(column types.SchemaColumn) string {
	var parts []string
	parts = append(parts, m.convertTypeToMySQL(column.Type))

	if column.IsPrimary {
		parts = append(parts, "PRIMARY KEY")
	}

	if !column.IsPrimary {
		parts = append(parts, "NOT NULL")
	}

	return strings.Join(parts, " ")
}

func (m *Adapter) convertTypeToMySQL(pgType string) string {
	upperType := strings.ToUpper(pgType)

	if upperType == "SERIAL" {
		return "INT"
	}
	if upperType == "BIGSERIAL" {
		return "BIGINT"
	}

	// MySQL TIMESTAMP stops at 2038 and auto-updates; DATETIME stores the value as given.
	if strings.HasPrefix(upperType, "TIMESTAMP") {
		return "DATETIME"
	}

	if upperType == "BOOLEAN" || upperType == "BOOL" {
		return "TINYINT(1)"
	}

	return pgType
}
