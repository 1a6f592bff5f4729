// Package utils holds the small ambient helpers shared across handlers:
// the process-wide logger constructor and the JSON response envelope.
package utils

import (
	"go.uber.org/zap"
)

// NewLogger builds the sugared logger the whole service shares. dev
// selects the human-readable development encoder; production gets
// sampled JSON output.
func NewLogger(dev bool) (*zap.SugaredLogger, error) {
	build := zap.NewProduction
	if dev {
		build = zap.NewDevelopment
	}
	z, err := build()
	if err != nil {
		return nil, err
	}
	return z.Sugar(), nil
}
