//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the OKVS modules.
package env

import (
	"crypto/rand"
	"io"
	"runtime"

	"github.com/markkurossi/okvs/timing"
	"github.com/sirupsen/logrus"
)

// Config defines the global system configuration. It configures the
// random source, logging, and parallelism for all modules. Config
// must not be modified after being passed to any module. It is safe
// for concurrent use by multiple modules as they do not modify it.
// The Timing is the exception: if set, the encoding phases are
// recorded into it and the config must not be shared between
// concurrent encodings.
type Config struct {
	Rand    io.Reader
	Log     *logrus.Logger
	Workers int
	Timing  *timing.Timing
}

var discard = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}

// GetRandom returns the source of entropy for PRF keys and fresh
// storage cells.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLog returns the logger. If no logger is configured, the function
// returns a logger that discards all output.
func (config *Config) GetLog() *logrus.Logger {
	if config != nil && config.Log != nil {
		return config.Log
	}
	return discard
}

// GetWorkers returns the maximum number of concurrent workers.
func (config *Config) GetWorkers() int {
	if config != nil && config.Workers > 0 {
		return config.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// GetTiming returns the timing that records the encoding phases or
// nil if timing is not enabled.
func (config *Config) GetTiming() *timing.Timing {
	if config != nil {
		return config.Timing
	}
	return nil
}
