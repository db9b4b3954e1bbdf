package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Lumos-Labs-HQ/flowseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"gopkg.in/yaml.v3"
)

var Formats = []string{"json", "yaml", "csv"}

// Write stores a run's records under exportPath and returns the file (or,
// for csv, the directory) it created.
func Write(result *seeder.Result, exportPath, format string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	base := fileBase(result)
	switch format {
	case "csv":
		return exportToCSV(result, filepath.Join(exportPath, base+"_csv"))
	case "yaml", "yml":
		return exportToYAML(result, filepath.Join(exportPath, base+".yaml"))
	case "json", "":
		return exportToJSON(result, filepath.Join(exportPath, base+".json"))
	default:
		return "", fmt.Errorf("unsupported export format: %s. Supported formats: %v", format, Formats)
	}
}

func fileBase(result *seeder.Result) string {
	started := result.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	return fmt.Sprintf("run_%s", started.Format("2006-01-02_15-04-05"))
}

func exportToJSON(result *seeder.Result, filePath string) (string, error) {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToYAML(result *seeder.Result, filePath string) (string, error) {
	yamlData, err := yaml.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := os.WriteFile(filePath, yamlData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return filePath, nil
}

func exportToCSV(result *seeder.Result, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	tables := []struct {
		name    string
		columns []string
		rows    [][]interface{}
	}{
		{types.SourcesTable, types.SourceColumns, make([][]interface{}, 0, len(result.Sources))},
		{types.FlowsTable, types.FlowColumns, make([][]interface{}, 0, len(result.Flows))},
		{types.AnalysesTable, types.AnalysisColumns, make([][]interface{}, 0, len(result.Analyses))},
	}
	for _, s := range result.Sources {
		tables[0].rows = append(tables[0].rows, s.Row())
	}
	for _, f := range result.Flows {
		tables[1].rows = append(tables[1].rows, f.Row())
	}
	for _, a := range result.Analyses {
		tables[2].rows = append(tables[2].rows, a.Row())
	}

	for _, table := range tables {
		if len(table.rows) == 0 {
			continue
		}
		if err := writeCSV(filepath.Join(dirPath, table.name+".csv"), table.columns, table.rows); err != nil {
			return "", fmt.Errorf("failed to write CSV file for %s: %w", table.name, err)
		}
	}

	return dirPath, nil
}

func writeCSV(filePath string, headers []string, rows [][]interface{}) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = formatValue(v)
		}
		if err := writer.Write(values); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(v interface{}) string {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprintf("%v", v)
}
