package app

import "go.uber.org/zap"

// NewLogger returns a console logger in development and a JSON logger
// everywhere else.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
