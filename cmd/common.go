package cmd

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/flowseed/internal/config"
	"github.com/Lumos-Labs-HQ/flowseed/internal/database"
	"github.com/Lumos-Labs-HQ/flowseed/internal/logging"
	"go.uber.org/zap"
)

// runtime is what every database command needs: validated config, the
// operations logger and an unopened session.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	session *database.Session
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		log:     log,
		session: database.NewSession(cfg.Database, log),
	}, nil
}

func (r *runtime) Close() {
	if err := r.session.Close(); err != nil {
		r.log.Warn("failed to close database session", zap.Error(err))
	}
	_ = r.log.Sync()
}
