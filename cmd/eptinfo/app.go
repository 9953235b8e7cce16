package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/arloliu/ept/compress"
	"github.com/arloliu/ept/errs"
	"github.com/arloliu/ept/reader"
)

const (
	flagVerbose     = "verbose"
	flagDepth       = "depth"
	flagThreads     = "threads"
	flagQueue       = "queue"
	flagAddon       = "addon"
	flagCache       = "cache"
	flagCacheBytes  = "cache-bytes"
	flagConcurrency = "hierarchy-concurrency"
)

func newApp(out io.Writer) *cli.App {
	logger := zap.NewNop()

	return &cli.App{
		Name:      "eptinfo",
		Usage:     "inspect Entwine Point Tile datasets",
		Writer:    out,
		ErrWriter: out,
		// errors are reported by main
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.Bool(flagVerbose) {
				return nil
			}
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l

			return nil
		},
		After: func(*cli.Context) error {
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "print the dataset descriptor",
				ArgsUsage: "<endpoint>",
				Flags:     sessionFlags(),
				Action: func(c *cli.Context) error {
					return withReader(c, logger, printInfo)
				},
			},
			{
				Name:      "hierarchy",
				Usage:     "print the non-empty nodes",
				ArgsUsage: "<endpoint>",
				Flags:     append(sessionFlags(), depthFlag()),
				Action: func(c *cli.Context) error {
					return withReader(c, logger, printHierarchy)
				},
			},
			{
				Name:      "read",
				Usage:     "read nodes and print per-column statistics",
				ArgsUsage: "<endpoint>",
				Flags: append(sessionFlags(),
					depthFlag(),
					&cli.IntFlag{Name: flagThreads, Value: 4, Usage: "node read workers"},
					&cli.IntFlag{Name: flagQueue, Value: 1, Usage: "queued node reads per worker pool"},
					&cli.StringSliceFlag{Name: flagAddon, Usage: "addon as `NAME=ENDPOINT`, repeatable"},
					&cli.StringFlag{Name: flagCache, Usage: "cache node payloads compressed with none, s2, lz4 or zstd"},
					&cli.Int64Flag{Name: flagCacheBytes, Value: 256 << 20, Usage: "cache size limit in bytes"},
				),
				Action: func(c *cli.Context) error {
					return withReader(c, logger, readNodes)
				},
			},
		},
	}
}

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: flagConcurrency, Value: 8, Usage: "hierarchy pages fetched at once"},
	}
}

func depthFlag() cli.Flag {
	return &cli.IntFlag{Name: flagDepth, Value: -1, Usage: "deepest node depth, -1 for all"}
}

func withReader(c *cli.Context, logger *zap.Logger, fn func(*cli.Context, *reader.Reader) error) error {
	if c.NArg() != 1 {
		return fmt.Errorf("%s: expected exactly one endpoint argument", c.Command.Name)
	}

	opts, err := readerOptions(c, logger)
	if err != nil {
		return err
	}

	r, err := reader.Open(c.Context, c.Args().First(), opts...)
	if err != nil {
		return err
	}
	defer r.Close()

	return fn(c, r)
}

func readerOptions(c *cli.Context, logger *zap.Logger) ([]reader.Option, error) {
	opts := []reader.Option{
		reader.WithLogger(logger),
		reader.WithHierarchyConcurrency(c.Int(flagConcurrency)),
	}

	if c.IsSet(flagThreads) || c.Command.Name == "read" {
		opts = append(opts, reader.WithThreads(c.Int(flagThreads)), reader.WithQueueSize(c.Int(flagQueue)))
	}

	for _, spec := range c.StringSlice(flagAddon) {
		name, endpoint, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("%w: addon %q, want NAME=ENDPOINT", errs.ErrMalformedMetadata, spec)
		}
		opts = append(opts, reader.WithAddon(name, endpoint))
	}

	if s := c.String(flagCache); s != "" {
		kind, err := compress.ParseCacheKind(s)
		if err != nil {
			return nil, err
		}
		opts = append(opts, reader.WithCache(kind, c.Int64(flagCacheBytes)))
	}

	return opts, nil
}

func printInfo(c *cli.Context, r *reader.Reader) error {
	w := c.App.Writer
	inf := r.Info()

	fmt.Fprintf(w, "endpoint:   %s\n", r.Endpoint())
	fmt.Fprintf(w, "version:    %s\n", inf.Version)
	fmt.Fprintf(w, "dataType:   %s\n", inf.DataType)
	fmt.Fprintf(w, "points:     %d\n", inf.Points)
	fmt.Fprintf(w, "span:       %d\n", inf.Span)
	fmt.Fprintf(w, "bounds:     %s\n", inf.Bounds)
	fmt.Fprintf(w, "conforming: %s\n", inf.BoundsConforming)
	fmt.Fprintf(w, "srs:        %s\n", inf.SRS)
	fmt.Fprintf(w, "nodes:      %d\n", r.Hierarchy().Len())
	fmt.Fprintf(w, "schema:     %d bytes per point\n", r.Layout().RecordSize())

	for _, f := range r.Layout().Fields() {
		line := fmt.Sprintf("  %-16s %-8s offset %d", f.Spec.Name, f.Spec.Type, f.Offset)
		if f.Spec.Scaled {
			line += fmt.Sprintf(" scale %g offset %g", f.Spec.Scale, f.Spec.Offset)
		}
		fmt.Fprintln(w, line)
	}

	return nil
}

func printHierarchy(c *cli.Context, r *reader.Reader) error {
	w := c.App.Writer

	keys := r.Select(c.Int(flagDepth), nil)
	for _, k := range keys {
		fmt.Fprintf(w, "%-24s %10d  %s\n", k.String(), r.Hierarchy().Get(k.ID), k.Bounds)
	}
	fmt.Fprintf(w, "%d nodes, %d points\n", len(keys), r.Points(keys))

	return nil
}

func readNodes(c *cli.Context, r *reader.Reader) error {
	w := c.App.Writer

	keys := r.Select(c.Int(flagDepth), nil)
	table := r.NewTable()

	start := time.Now()
	err := r.Read(c.Context, keys, table)
	elapsed := time.Since(start)

	fmt.Fprintf(w, "read %d points from %d nodes in %s\n", table.Len(), len(keys), elapsed.Round(time.Millisecond))
	for _, name := range table.Columns() {
		col, _ := table.Column(name)
		lo, hi := minMax(col)
		fmt.Fprintf(w, "  %-16s min %-14g max %g\n", name, lo, hi)
	}

	return err
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return lo, hi
}
