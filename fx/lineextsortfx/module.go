// Package lineextsortfx provides an fx module for a line-oriented extsort
// sorter backed by a disk scratch directory.
package lineextsortfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/duskline/extsort"
	"github.com/duskline/extsort/codec/linecodec"
	"github.com/duskline/extsort/internal/stats"
	"github.com/duskline/extsort/internal/stats/logger"
)

// Config holds configuration for the line sorter.
type Config struct {
	// ScratchDir is the directory used for spilled run files. If empty,
	// each Sort creates a private temporary directory that is removed when
	// its MergeIterator is closed; the OnStop hook does no cleanup.
	ScratchDir string

	// MaxBuffered is the number of lines held in memory before a run is
	// spilled. Zero uses the package default.
	MaxBuffered int
}

// Module provides a *extsort.Sorter[linecodec.Item].
// Requires a *zap.Logger to be provided.
var Module = fx.Module("lineextsort",
	fx.Provide(
		newStatsCollector,
		newSorter,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("extsort.stats"))
}

// Params holds dependencies for creating the sorter.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided sorter.
type Result struct {
	fx.Out

	Sorter *extsort.Sorter[linecodec.Item]
}

func newSorter(p Params) (Result, error) {
	var opts []extsort.Option
	opts = append(opts,
		extsort.WithStats(p.Collector),
		extsort.WithLogger(p.Logger.Named("extsort")),
	)
	if p.Config.MaxBuffered > 0 {
		opts = append(opts, extsort.WithMaxBuffered(p.Config.MaxBuffered))
	}
	if p.Config.ScratchDir != "" {
		opts = append(opts, extsort.WithScratchDir(p.Config.ScratchDir))
	}

	sorter := extsort.New[linecodec.Item](linecodec.Codec{}, opts...)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return nil
		},
	})

	return Result{Sorter: sorter}, nil
}
