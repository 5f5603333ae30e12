// Package common holds the shared wiring used by every subcommand: config
// loading, logger construction, and the application dependency graph.
package common

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/easyinterns/internal/config"
	"github.com/jonesrussell/easyinterns/internal/logger"
)

var (
	errLoggerRequired = errors.New("logger is required")
	errConfigRequired = errors.New("config is required")
)

// Deps holds the dependencies every command starts from.
type Deps struct {
	Logger logger.Interface
	Config *config.Config
}

// NewDeps loads configuration from Viper and creates the logger.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Development: cfg.Logger.Development,
		OutputPaths: cfg.Logger.OutputPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	deps := &Deps{Logger: log, Config: cfg}
	if err := deps.validate(); err != nil {
		return nil, fmt.Errorf("validate deps: %w", err)
	}
	return deps, nil
}

func (d *Deps) validate() error {
	if d.Logger == nil {
		return errLoggerRequired
	}
	if d.Config == nil {
		return errConfigRequired
	}
	return nil
}
