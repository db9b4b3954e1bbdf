package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRecord = errors.New("invalid record")

const (
	SourcesTable  = "data_sources"
	FlowsTable    = "data_flows"
	AnalysesTable = "analyses"
)

// Column order used for inserts; matches the Row methods below.
var (
	SourceColumns   = []string{"source_id", "source_name", "data_kind", "volume", "latency", "description", "created_at", "updated_at"}
	FlowColumns     = []string{"flow_id", "source_id", "destination", "status", "created_at", "updated_at"}
	AnalysisColumns = []string{"analysis_id", "flow_id", "hypothesis", "result", "analyzed_at", "responsible"}
)

// Source is a synthetic upstream system producing data.
type Source struct {
	ID          int64     `json:"source_id" yaml:"source_id"`
	Name        string    `json:"source_name" yaml:"source_name"`
	DataKind    string    `json:"data_kind" yaml:"data_kind"`
	Volume      int64     `json:"volume" yaml:"volume"`
	Latency     string    `json:"latency" yaml:"latency"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Flow moves data from one Source to a destination system.
type Flow struct {
	ID          int64     `json:"flow_id" yaml:"flow_id"`
	SourceID    int64     `json:"source_id" yaml:"source_id"`
	Destination string    `json:"destination" yaml:"destination"`
	Status      string    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Analysis is a study performed on the data of one Flow.
type Analysis struct {
	ID          int64     `json:"analysis_id" yaml:"analysis_id"`
	FlowID      int64     `json:"flow_id" yaml:"flow_id"`
	Hypothesis  string    `json:"hypothesis" yaml:"hypothesis"`
	Result      string    `json:"result" yaml:"result"`
	AnalyzedAt  time.Time `json:"analyzed_at" yaml:"analyzed_at"`
	Responsible string    `json:"responsible" yaml:"responsible"`
}

func invalid(entity, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, entity, fmt.Sprintf(format, args...))
}

func NewSource(s Source) (Source, error) {
	switch {
	case s.ID <= 0:
		return Source{}, invalid("source", "id must be positive, got %d", s.ID)
	case strings.TrimSpace(s.Name) == "":
		return Source{}, invalid("source", "name is empty (id %d)", s.ID)
	case !contains(DataKinds, s.DataKind):
		return Source{}, invalid("source", "unknown data kind %q (id %d)", s.DataKind, s.ID)
	case s.Volume <= 0:
		return Source{}, invalid("source", "volume must be positive, got %d (id %d)", s.Volume, s.ID)
	case !contains(LatencyClasses, s.Latency):
		return Source{}, invalid("source", "unknown latency class %q (id %d)", s.Latency, s.ID)
	case !s.UpdatedAt.After(s.CreatedAt):
		return Source{}, invalid("source", "updated_at %s must be after created_at %s (id %d)",
			s.UpdatedAt.Format(time.RFC3339), s.CreatedAt.Format(time.RFC3339), s.ID)
	}
	return s, nil
}

func NewFlow(f Flow) (Flow, error) {
	switch {
	case f.ID <= 0:
		return Flow{}, invalid("flow", "id must be positive, got %d", f.ID)
	case f.SourceID <= 0:
		return Flow{}, invalid("flow", "source id must be positive, got %d (id %d)", f.SourceID, f.ID)
	case !contains(Destinations, f.Destination):
		return Flow{}, invalid("flow", "unknown destination %q (id %d)", f.Destination, f.ID)
	case !contains(FlowStatuses, f.Status):
		return Flow{}, invalid("flow", "unknown status %q (id %d)", f.Status, f.ID)
	case !f.UpdatedAt.After(f.CreatedAt):
		return Flow{}, invalid("flow", "updated_at %s must be after created_at %s (id %d)",
			f.UpdatedAt.Format(time.RFC3339), f.CreatedAt.Format(time.RFC3339), f.ID)
	}
	return f, nil
}

// NewAnalysis validates a against the flow it references.
func NewAnalysis(a Analysis, flow Flow) (Analysis, error) {
	switch {
	case a.ID <= 0:
		return Analysis{}, invalid("analysis", "id must be positive, got %d", a.ID)
	case a.FlowID != flow.ID:
		return Analysis{}, invalid("analysis", "flow id %d does not match referenced flow %d (id %d)", a.FlowID, flow.ID, a.ID)
	case strings.TrimSpace(a.Hypothesis) == "":
		return Analysis{}, invalid("analysis", "hypothesis is empty (id %d)", a.ID)
	case strings.TrimSpace(a.Responsible) == "":
		return Analysis{}, invalid("analysis", "responsible party is empty (id %d)", a.ID)
	case !a.AnalyzedAt.After(flow.CreatedAt):
		return Analysis{}, invalid("analysis", "analyzed_at %s must be after flow created_at %s (id %d)",
			a.AnalyzedAt.Format(time.RFC3339), flow.CreatedAt.Format(time.RFC3339), a.ID)
	}
	return a, nil
}

func (s Source) Row() []interface{} {
	return []interface{}{s.ID, s.Name, s.DataKind, s.Volume, s.Latency, s.Description, s.CreatedAt, s.UpdatedAt}
}

func (f Flow) Row() []interface{} {
	return []interface{}{f.ID, f.SourceID, f.Destination, f.Status, f.CreatedAt, f.UpdatedAt}
}

func (a Analysis) Row() []interface{} {
	return []interface{}{a.ID, a.FlowID, a.Hypothesis, a.Result, a.AnalyzedAt, a.Responsible}
}
