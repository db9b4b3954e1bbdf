package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/Lumos-Labs-HQ/flowseed/internal/types"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
)

const (
	maxTextLength = 200
	minVolume     = 10_000
	maxVolume     = 10_000_000
)

// DefaultBaseline anchors every generated timestamp.
var DefaultBaseline = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// IDSource returns the largest identifier already stored in table.column.
// Session.MaxID satisfies it.
type IDSource func(ctx context.Context, table, column string) (int64, error)

type GeneratorOptions struct {
	// TextSeed seeds names, companies and sentences. Zero means 42.
	TextSeed int64
	// RandSeed seeds enum picks, parent picks, volumes and time offsets.
	// Zero leaves them time based.
	RandSeed int64
	Baseline time.Time
	Logger   *zap.Logger
}

type Generator struct {
	ids      IDSource
	fake     *gofakeit.Faker
	rand     *rand.Rand
	baseline time.Time
	log      *zap.Logger
}

func NewGenerator(ids IDSource, opts GeneratorOptions) *Generator {
	textSeed := opts.TextSeed
	if textSeed == 0 {
		textSeed = 42
	}
	randSeed := opts.RandSeed
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	baseline := opts.Baseline
	if baseline.IsZero() {
		baseline = DefaultBaseline
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Generator{
		ids:      ids,
		fake:     gofakeit.New(textSeed),
		rand:     rand.New(rand.NewSource(randSeed)),
		baseline: baseline,
		log:      log,
	}
}

// WithLogger returns a generator that logs to log and shares g's text and
// random streams.
func (g *Generator) WithLogger(log *zap.Logger) *Generator {
	clone := *g
	clone.log = log
	return &clone
}

// lastID reads the resume point for a table. A failed lookup is logged and
// numbering starts from 1.
func (g *Generator) lastID(ctx context.Context, table, column string) int64 {
	if g.ids == nil {
		return 0
	}
	last, err := g.ids(ctx, table, column)
	if err != nil {
		g.log.Warn("could not read last identifier, numbering from 1",
			zap.String("table", table), zap.Error(err))
		return 0
	}
	return last
}

func (g *Generator) GenerateSources(ctx context.Context, count int) ([]types.Source, error) {
	if count < 0 {
		return nil, precondition("source count must not be negative, got %d", count)
	}
	sources := make([]types.Source, 0, count)
	if count == 0 {
		return sources, nil
	}

	last := g.lastID(ctx, types.SourcesTable, "source_id")
	for i := 1; i <= count; i++ {
		created := g.baseline.
			AddDate(0, 0, g.rand.Intn(366)).
			Add(g.hours(0) + g.minutes(0))
		updated := created.
			AddDate(0, 0, 1+g.rand.Intn(30)).
			Add(g.hours(0) + g.minutes(0))

		src, err := types.NewSource(types.Source{
			ID:          last + int64(i),
			Name:        fmt.Sprintf("System %s - %s", pick(g.rand, types.SystemTypes), g.fake.Company()),
			DataKind:    pick(g.rand, types.DataKinds),
			Volume:      minVolume + g.rand.Int63n(maxVolume-minVolume+1),
			Latency:     pick(g.rand, types.LatencyClasses),
			Description: truncate(g.fake.Sentence(12), maxTextLength),
			CreatedAt:   created,
			UpdatedAt:   updated,
		})
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	g.log.Debug("generated sources",
		zap.Int("count", count),
		zap.Int64("first_id", last+1),
		zap.Int64("last_id", last+int64(count)))
	return sources, nil
}

// GenerateFlows builds count flows whose parents are drawn from sources.
func (g *Generator) GenerateFlows(ctx context.Context, sources []types.Source, count int) ([]types.Flow, error) {
	if len(sources) == 0 {
		return nil, precondition("no sources available, run generate_sources first")
	}
	if count < 0 {
		return nil, precondition("flow count must not be negative, got %d", count)
	}
	flows := make([]types.Flow, 0, count)
	if count == 0 {
		return flows, nil
	}

	last := g.lastID(ctx, types.FlowsTable, "flow_id")
	for i := 1; i <= count; i++ {
		created := g.baseline.
			AddDate(0, 0, g.rand.Intn(31)).
			Add(g.hours(0) + g.minutes(0))
		// at least one minute so updated_at is strictly later
		updated := created.
			AddDate(0, 0, g.rand.Intn(31)).
			Add(g.hours(0) + g.minutes(1))

		flow, err := types.NewFlow(types.Flow{
			ID:          last + int64(i),
			SourceID:    sources[g.rand.Intn(len(sources))].ID,
			Destination: pick(g.rand, types.Destinations),
			Status:      pick(g.rand, types.FlowStatuses),
			CreatedAt:   created,
			UpdatedAt:   updated,
		})
		if err != nil {
			return nil, err
		}
		flows = append(flows, flow)
	}

	g.log.Debug("generated flows",
		zap.Int("count", count),
		zap.Int64("first_id", last+1),
		zap.Int("parents", len(sources)))
	return flows, nil
}

// GenerateAnalyses builds count analyses, each referencing one of flows.
func (g *Generator) GenerateAnalyses(ctx context.Context, flows []types.Flow, count int) ([]types.Analysis, error) {
	if len(flows) == 0 {
		return nil, precondition("no flows available, run generate_flows first")
	}
	if count < 0 {
		return nil, precondition("analysis count must not be negative, got %d", count)
	}
	analyses := make([]types.Analysis, 0, count)
	if count == 0 {
		return analyses, nil
	}

	last := g.lastID(ctx, types.AnalysesTable, "analysis_id")
	for i := 1; i <= count; i++ {
		flow := flows[g.rand.Intn(len(flows))]

		analysis, err := types.NewAnalysis(types.Analysis{
			ID:          last + int64(i),
			FlowID:      flow.ID,
			Hypothesis:  fmt.Sprintf("Hypothesis: %s - %s", pick(g.rand, types.AnalysisTypes), truncate(g.fake.Sentence(8), maxTextLength)),
			Result:      truncate(g.fake.Sentence(10), maxTextLength),
			AnalyzedAt:  flow.CreatedAt.AddDate(0, 0, 1+g.rand.Intn(60)),
			Responsible: g.fake.Name(),
		}, flow)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	g.log.Debug("generated analyses",
		zap.Int("count", count),
		zap.Int64("first_id", last+1),
		zap.Int("parents", len(flows)))
	return analyses, nil
}

// hours returns a random offset in [floor, 23] hours.
func (g *Generator) hours(floor int) time.Duration {
	return time.Duration(floor+g.rand.Intn(24-floor)) * time.Hour
}

// minutes returns a random offset in [floor, 59] minutes.
func (g *Generator) minutes(floor int) time.Duration {
	return time.Duration(floor+g.rand.Intn(60-floor)) * time.Minute
}

func pick(r *rand.Rand, vocab []string) string {
	return vocab[r.Intn(len(vocab))]
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
