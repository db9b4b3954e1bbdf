package seeder

import (
	"time"

	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/google/uuid"
)

// Counts is the number of records generated per table in one run.
type Counts struct {
	Sources  int
	Flows    int
	Analyses int
}

// DefaultCounts mirrors the batch sizes used by the reporting pipeline.
var DefaultCounts = Counts{Sources: 100, Flows: 200, Analyses: 300}

// Dataset is one run's generated records, in insertion order.
type Dataset struct {
	Sources  []types.Source   `json:"sources" yaml:"sources"`
	Flows    []types.Flow     `json:"flows" yaml:"flows"`
	Analyses []types.Analysis `json:"analyses" yaml:"analyses"`
}

func (d Dataset) Total() int {
	return len(d.Sources) + len(d.Flows) + len(d.Analyses)
}

type Result struct {
	RunID     uuid.UUID `json:"run_id" yaml:"run_id"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Persisted bool      `json:"persisted" yaml:"persisted"`
	Dataset   `yaml:",inline"`
}
