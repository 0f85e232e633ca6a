package extsort

import (
	"go.uber.org/zap"

	"github.com/duskline/extsort/internal/progress"
	"github.com/duskline/extsort/internal/scratch"
	"github.com/duskline/extsort/internal/scratch/diskscratch"
	"github.com/duskline/extsort/internal/stats"
)

// DefaultMaxBuffered is the buffer capacity used when no
// WithMaxBuffered option is given.
const DefaultMaxBuffered = 10000

// Option configures a Sorter.
type Option interface {
	apply(*config)
}

// config holds a Sorter's configuration. It does not depend on the
// item type: none of these fields care what T is.
type config struct {
	maxBuffered   int
	scratchDir    string
	scratchHandle scratch.Handle
	stats         stats.Collector
	logger        *zap.Logger
	progress      progress.Func
}

// defaultConfig returns the default configuration.
func defaultConfig() config {
	return config{
		maxBuffered: DefaultMaxBuffered,
		stats:       stats.NewNoop(),
		logger:      zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*config)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(c *config) { f(c) }

// WithMaxBuffered sets the number of items buffered in memory before a
// run is spilled. Default is DefaultMaxBuffered.
func WithMaxBuffered(n int) Option {
	return optionFunc(func(c *config) {
		c.maxBuffered = n
	})
}

// WithScratchDir sets the directory spilled runs are written to. The
// directory must already exist and is never deleted by the engine. If
// not set, a fresh private directory is created and removed once the
// resulting MergeIterator is closed.
func WithScratchDir(dir string) Option {
	return optionFunc(func(c *config) {
		c.scratchDir = dir
	})
}

// WithScratchHandle sets a prebuilt scratch backend directly, bypassing
// the default disk-backed one. This is how non-filesystem backends
// (in-memory, S3, GCS) are wired in without this package importing
// their client libraries.
func WithScratchHandle(h scratch.Handle) Option {
	return optionFunc(func(c *config) {
		c.scratchHandle = h
	})
}

// WithStats sets the metrics collector. If not set, a no-op collector
// is used.
func WithStats(s stats.Collector) Option {
	return optionFunc(func(c *config) {
		c.stats = s
	})
}

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = l
	})
}

// WithProgress sets a callback invoked after each run is spilled
// (PhaseFlush) and once when Sort returns its iterator (PhaseDone). The
// buffer and merge phases are not reported.
func WithProgress(fn progress.Func) Option {
	return optionFunc(func(c *config) {
		c.progress = fn
	})
}

// openScratch resolves the scratch backend to use for one Sort call.
func (c *config) openScratch() (scratch.Handle, error) {
	if c.scratchHandle != nil {
		return c.scratchHandle, nil
	}
	if c.scratchDir != "" {
		return diskscratch.OpenIn(c.scratchDir)
	}
	return diskscratch.Open()
}
