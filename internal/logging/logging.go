// Package logging builds the structured logger used for scan/edit/batch
// diagnostics (D3), grounded on the teacher-adjacent `zap.NewProductionConfig`
// / `zap.NewAtomicLevelAt` pattern (codenerd `cmd/nerd/main.go`).
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger: development-friendly console encoding when
// verbose is set, production JSON encoding otherwise.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return cfg.Build()
}

// Nop returns a no-op logger, used by tests and library callers that
// don't want vlt's own logging.
func Nop() *zap.Logger {
	return zap.NewNop()
}
