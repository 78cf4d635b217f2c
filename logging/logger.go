// Package logging builds the shared zap logger used by the courtroom
// client and TUI.
package logging

import "go.uber.org/zap"

// New creates a sugared zap logger
func New() *zap.SugaredLogger {
	logger := zap.NewExample()
	defer logger.Sync()
	return logger.Sugar()
}
