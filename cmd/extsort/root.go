package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags.
	maxBuffered int
	scratchDir  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "extsort",
	Short: "Sort large record streams using bounded memory",
	Long: `extsort sorts a stream of records into ascending order using a fixed
amount of memory, spilling presorted runs to disk and merging them back
when the input exceeds the in-memory buffer.

Examples:
  # Sort a newline-delimited file
  extsort sort --format lines --output sorted.txt input.txt

  # Sort little-endian uint32 values read from stdin
  cat numbers.bin | extsort sort --format uint32le > sorted.bin

  # Verify a file is sorted
  extsort verify --format lines sorted.txt`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&maxBuffered, "max-buffered", 0, "items held in memory before spilling a run (0 uses the default)")
	rootCmd.PersistentFlags().StringVar(&scratchDir, "scratch-dir", "", "directory for spilled run files (default: a temporary directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose progress output")
}
