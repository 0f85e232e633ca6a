package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duskline/extsort"
	"github.com/duskline/extsort/codec/linecodec"
	"github.com/duskline/extsort/codec/uint32codec"
	"github.com/duskline/extsort/internal/progress"
)

var sortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Sort a record stream into ascending order",
	Long: `Sort reads records from a file (or stdin, if no file is given), sorts
them into ascending order using bounded memory, and writes the result to
stdout or the file named by --output.

Supported formats:
  lines     newline-delimited strings, compared lexically
  uint32le  fixed 4-byte little-endian unsigned integers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSort,
}

var (
	sortFormat string
	sortOutput string
)

func init() {
	sortCmd.Flags().StringVar(&sortFormat, "format", "lines", "record format: lines, uint32le")
	sortCmd.Flags().StringVarP(&sortOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	in, closeIn, err := openInput(args)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(sortOutput)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ninterrupted, cleaning up...")
		cancel()
	}()

	opts := commonOptions()

	switch sortFormat {
	case "lines":
		return sortLines(ctx, in, out, opts)
	case "uint32le":
		return sortUint32LE(ctx, in, out, opts)
	default:
		return fmt.Errorf("unknown format: %s", sortFormat)
	}
}

func commonOptions() []extsort.Option {
	var opts []extsort.Option
	if maxBuffered > 0 {
		opts = append(opts, extsort.WithMaxBuffered(maxBuffered))
	}
	if scratchDir != "" {
		opts = append(opts, extsort.WithScratchDir(scratchDir))
	}
	if verbose {
		opts = append(opts, extsort.WithProgress(func(p progress.Progress) {
			progress.Default(p)
		}))
	}
	return opts
}

func sortLines(ctx context.Context, in *bufio.Reader, out *bufio.Writer, opts []extsort.Option) error {
	s := extsort.New[linecodec.Item](linecodec.Codec{}, opts...)

	ch := make(chan linecodec.Item)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case ch <- linecodec.Item(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	it, err := s.Sort(ctx, ch)
	if err != nil {
		return fmt.Errorf("sorting: %w", err)
	}
	defer it.Close()

	for line, ok := it.Next(); ok; line, ok = it.Next() {
		if _, err := out.WriteString(string(line)); err != nil {
			return err
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}

func sortUint32LE(ctx context.Context, in *bufio.Reader, out *bufio.Writer, opts []extsort.Option) error {
	s := extsort.New[uint32codec.Value](uint32codec.Codec{}, opts...)

	ch := make(chan uint32codec.Value)
	go func() {
		defer close(ch)
		var buf [4]byte
		for {
			if _, err := io.ReadFull(in, buf[:]); err != nil {
				return
			}
			v := uint32codec.Value(
				uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24,
			)
			select {
			case ch <- v:
			case <-ctx.Done():
				return
			}
		}
	}()

	it, err := s.Sort(ctx, ch)
	if err != nil {
		return fmt.Errorf("sorting: %w", err)
	}
	defer it.Close()

	var buf [4]byte
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		n := uint32(v)
		buf[0] = byte(n)
		buf[1] = byte(n >> 8)
		buf[2] = byte(n >> 16)
		buf[3] = byte(n >> 24)
		if _, err := out.Write(buf[:]); err != nil {
			return err
		}
	}
	return out.Flush()
}

func openInput(args []string) (*bufio.Reader, func() error, error) {
	if len(args) == 0 {
		return bufio.NewReader(os.Stdin), func() error { return nil }, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return bufio.NewReader(f), f.Close, nil
}

func openOutput(path string) (*bufio.Writer, func() error, error) {
	if path == "" {
		w := bufio.NewWriter(os.Stdout)
		return w, w.Flush, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output: %w", err)
	}
	w := bufio.NewWriter(f)
	return w, func() error {
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}
