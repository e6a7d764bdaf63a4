package main

import (
	"go.uber.org/zap"
)

// newLogger returns a JSON logger writing to path. The terminal belongs to
// the editor, so with no path nothing is logged.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
