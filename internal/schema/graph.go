package schema

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
)

type DependencyGraph struct {
	tables map[string]types.SchemaTable
	names  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]types.SchemaTable),
	}
}

func (g *DependencyGraph) AddTable(table types.SchemaTable) {
	if _, ok := g.tables[table.Name]; !ok {
		g.names = append(g.names, table.Name)
	}
	g.tables[table.Name] = table
}

// BuildInsertionOrder returns table names so that every table comes after the
// tables it references. Ties keep the order tables were added in.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		table, ok := g.tables[tableName]
		if !ok {
			return fmt.Errorf("table %s is referenced but not declared", tableName)
		}

		for _, dep := range table.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// InsertionOrder is the dependency order of the generated tables.
func InsertionOrder() ([]string, error) {
	g := NewDependencyGraph()
	for _, t := range Tables() {
		g.AddTable(t)
	}
	return g.BuildInsertionOrder()
}
