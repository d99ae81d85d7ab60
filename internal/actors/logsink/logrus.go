package logsink

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

// LogrusSink writes each audit record as one JSON line through a logrus
// logger. It is the process-local sink used when no remote vendor is
// configured; its Flush is a trivial successful no-op kept for lifecycle
// symmetry with remote sinks.
type LogrusSink struct {
	logger *logrus.Logger
}

// NewLogrusSink creates a new LogrusSink.
func NewLogrusSink(logger *logrus.Logger) (*LogrusSink, error) {
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	return &LogrusSink{logger: logger}, nil
}

// Write emits the record as a single structured line. The record's own level
// field drives the logrus severity.
func (s *LogrusSink) Write(ctx context.Context, record map[string]any) error {
	entry := s.logger.WithFields(logrus.Fields(record))
	if record["level"] == "error" {
		entry.Error("request")
		return nil
	}
	entry.Info("request")
	return nil
}

// Flush is a no-op. Safe to call any number of times.
func (s *LogrusSink) Flush(ctx context.Context) error {
	return nil
}
