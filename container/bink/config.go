/*
NAME
  config.go

DESCRIPTION
  config.go defines Config, the handful of caller-tunable knobs a Decoder
  accepts: a logger and whether GetNextFrame should allocate a fresh Frame
  each call or hand back the same one it reuses internally.

AUTHOR
  AusOcean av contributors.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bink

import "github.com/ausocean/utils/logging"

// discardLogger drops everything logged through it. Used when a Decoder is
// built without an explicit logger.
type discardLogger struct{}

func (discardLogger) Log(int8, string, ...interface{}) {}
func (discardLogger) SetLevel(int8)                    {}
func (discardLogger) Debug(string, ...interface{})     {}
func (discardLogger) Info(string, ...interface{})      {}
func (discardLogger) Warning(string, ...interface{})   {}
func (discardLogger) Error(string, ...interface{})     {}
func (discardLogger) Fatal(string, ...interface{})     {}

// Config holds a Decoder's caller-tunable options.
type Config struct {
	// Logger receives decode progress and warnings. Defaults to a logger
	// that discards everything.
	Logger logging.Logger

	// CopyFrames makes GetNextFrame return a fresh copy of the decoded
	// frame each call, safe to retain past the next call. When false (the
	// default) the returned Frame is reused internally and its contents
	// are only valid until the next GetNextFrame/SkipFrame/Reset call.
	CopyFrames bool
}

// Option configures a Decoder at construction time.
type Option func(*Config)

// WithLogger sets the Decoder's logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithCopyFrames makes GetNextFrame hand back an independent copy of the
// decoded frame rather than a buffer the Decoder reuses.
func WithCopyFrames(copy bool) Option {
	return func(c *Config) { c.CopyFrames = copy }
}

func newConfig(opts []Option) Config {
	c := Config{Logger: discardLogger{}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
