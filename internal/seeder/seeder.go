package seeder

import (
	"context"
	"time"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Seeder struct {
	session   *database.Session
	generator *Generator
	loader    *Loader
	log       *zap.Logger
	quiet     bool
}

type Options struct {
	Generator GeneratorOptions
	BatchSize int
	// Quiet suppresses the colored progress lines.
	Quiet bool
}

// OptionsFromConfig maps the generation settings onto seeder options.
func OptionsFromConfig(cfg config.Generation) Options {
	return Options{
		Generator: GeneratorOptions{
			TextSeed: cfg.TextSeed,
			RandSeed: cfg.RandSeed,
		},
		BatchSize: cfg.BatchSize,
	}
}

func NewSeeder(session *database.Session, opts Options, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	opts.Generator.Logger = log
	return &Seeder{
		session:   session,
		generator: NewGenerator(session.MaxID, opts.Generator),
		loader:    NewLoader(session, opts.BatchSize, log),
		log:       log,
		quiet:     opts.Quiet,
	}
}

func (s *Seeder) Close() error {
	return s.session.Close()
}

// Generate builds one dataset without writing it. Identifiers still resume
// from the store when it is reachable.
func (s *Seeder) Generate(ctx context.Context, counts Counts) (*Result, error) {
	result := s.newResult()
	ds, err := s.generate(ctx, counts, s.log.With(zap.String("run_id", result.RunID.String())))
	if err != nil {
		return nil, err
	}
	result.Dataset = ds
	return result, nil
}

// GenerateAndLoad generates sources, flows and analyses and persists them in
// one transaction.
func (s *Seeder) GenerateAndLoad(ctx context.Context, counts Counts) (*Result, error) {
	result := s.newResult()
	runLog := s.log.With(zap.String("run_id", result.RunID.String()))

	s.progress(color.Cyan, "🌱 Starting run %s...", result.RunID)
	if err := s.session.Ensure(ctx); err != nil {
		return nil, err
	}

	ds, err := s.generate(ctx, counts, runLog)
	if err != nil {
		return nil, err
	}

	s.progress(color.Cyan, "🔒 Loading %d records in one transaction...", ds.Total())
	if err := s.loader.Load(ctx, ds); err != nil {
		runLog.Error("load failed, run rolled back", zap.Error(err))
		s.progress(color.Yellow, "🔄 Run rolled back")
		return nil, err
	}

	result.Dataset = ds
	result.Persisted = true
	runLog.Info("run committed",
		zap.Int("sources", len(ds.Sources)),
		zap.Int("flows", len(ds.Flows)),
		zap.Int("analyses", len(ds.Analyses)),
		zap.Duration("elapsed", time.Since(result.StartedAt)))
	s.progress(color.Green, "✅ Committed %d sources, %d flows, %d analyses",
		len(ds.Sources), len(ds.Flows), len(ds.Analyses))
	return result, nil
}

func (s *Seeder) generate(ctx context.Context, counts Counts, runLog *zap.Logger) (Dataset, error) {
	gen := s.generator.WithLogger(runLog)

	sources, err := gen.GenerateSources(ctx, counts.Sources)
	if err != nil {
		return Dataset{}, err
	}
	s.progress(color.Green, "  📝 Generated %d sources", len(sources))

	flows, err := gen.GenerateFlows(ctx, sources, counts.Flows)
	if err != nil {
		return Dataset{}, err
	}
	s.progress(color.Green, "  📝 Generated %d flows", len(flows))

	analyses, err := gen.GenerateAnalyses(ctx, flows, counts.Analyses)
	if err != nil {
		return Dataset{}, err
	}
	s.progress(color.Green, "  📝 Generated %d analyses", len(analyses))

	return Dataset{Sources: sources, Flows: flows, Analyses: analyses}, nil
}

func (s *Seeder) newResult() *Result {
	return &Result{RunID: uuid.New(), StartedAt: time.Now().UTC()}
}

func (s *Seeder) progress(print func(format string, a ...interface{}), format string, args ...interface{}) {
	if s.quiet {
		return
	}
	print(format, args...)
}
