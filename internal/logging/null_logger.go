package logging

import "github.com/kaltura/kal-metadata-utils/pkg/kmeta"

// NullLogger discards all log messages.
type NullLogger struct{}

// NewNullLogger creates a logger that produces no output.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (NullLogger) Verbose(format string, args ...interface{}) {}
func (NullLogger) Info(format string, args ...interface{})    {}
func (NullLogger) Warn(format string, args ...interface{})    {}
func (NullLogger) Error(format string, args ...interface{})   {}

var _ kmeta.Logger = NullLogger{}
