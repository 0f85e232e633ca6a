// Package stats provides a unified interface for collecting metrics about a sort.
package stats

// Metric names used throughout the library.
const (
	// MetricItemsConsumed counts items pulled from the input channel.
	MetricItemsConsumed = "extsort_items_consumed_total"
	// MetricRunsSpilled counts runs written to scratch storage.
	MetricRunsSpilled = "extsort_runs_spilled_total"
	// MetricRunsMerged counts runs opened by a merge iterator.
	MetricRunsMerged = "extsort_runs_merged_total"
	// MetricBytesSpilled sums the bytes written across all spilled runs.
	MetricBytesSpilled = "extsort_bytes_spilled_total"
	// MetricMergeHeapSize observes the merge heap's size on each refill.
	MetricMergeHeapSize = "extsort_merge_heap_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
