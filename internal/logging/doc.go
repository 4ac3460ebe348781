// Package logging provides concrete implementations of the kmeta.Logger interface.
//
// ZapLogger writes through go.uber.org/zap; NullLogger discards everything and is
// meant for tests and library callers that do not want output.
package logging
