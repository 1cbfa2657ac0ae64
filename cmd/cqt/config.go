package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/hupe1980/cqt"
	"github.com/hupe1980/cqt/imageio"
)

const (
	version       = "1.1"
	defaultOutput = "output.png"
)

var errUsage = errors.New("usage")

type config struct {
	inputs       []string
	output       string
	format       string
	colors       int
	palette      string
	paletteOut   string
	dither       bool
	clampEdges   bool
	compression  imageio.Compression
	jpegQuality  int
	jobs         int
	memLimit     int64
	ioLimit      int64
	trainSize    int
	report       string
	logLevel     slog.Level
	logJSON      bool
	metricsAddr  string
	minioAddr    string
	minioSecure  bool
	quiet        bool
	printVersion bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("cqt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cqt [flags] input [input...]\n\n")
		fmt.Fprintf(fs.Output(), "Inputs and outputs are local paths, s3://bucket/key or minio://bucket/key.\n\n")
		fs.PrintDefaults()
	}

	var compression, logLevel string
	fs.StringVar(&cfg.output, "o", defaultOutput, "output image, or output directory when several inputs are given")
	fs.StringVar(&cfg.format, "format", "", "output format (png, jpeg, gif, bmp, tiff, cqt); default from the output name")
	fs.IntVar(&cfg.colors, "colors", cqt.DefaultColors, "target palette size")
	fs.StringVar(&cfg.palette, "palette", "", "fixed palette file (.hex, .gpl, .json)")
	fs.StringVar(&cfg.paletteOut, "palette-out", "", "write the palette of a single input to this file")
	fs.BoolVar(&cfg.dither, "dither", false, "enable Floyd-Steinberg dithering")
	fs.BoolVar(&cfg.clampEdges, "clamp-edges", false, "keep dither error from wrapping across rows")
	fs.StringVar(&compression, "compression", "zstd", "cqt index compression (none, lz4, zstd)")
	fs.IntVar(&cfg.jpegQuality, "jpeg-quality", 95, "JPEG quality 1-100")
	fs.IntVar(&cfg.jobs, "jobs", runtime.GOMAXPROCS(0), "images processed concurrently")
	fs.Int64Var(&cfg.memLimit, "mem-limit", 0, "working memory budget in bytes (0 = unlimited)")
	fs.Int64Var(&cfg.ioLimit, "io-limit", 0, "blob IO limit in bytes per second (0 = unlimited)")
	fs.IntVar(&cfg.trainSize, "train-size", 0, "build the palette from a copy at most this many pixels on its longest side (0 = full size)")
	fs.StringVar(&cfg.report, "report", "", "write a JSON run report to this location")
	fs.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "log as JSON")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fs.StringVar(&cfg.minioAddr, "minio-endpoint", "localhost:9000", "MinIO endpoint for minio:// locations")
	fs.BoolVar(&cfg.minioSecure, "minio-secure", false, "use TLS for MinIO")
	fs.BoolVar(&cfg.quiet, "q", false, "do not draw the progress bar")
	fs.BoolVar(&cfg.printVersion, "version", false, "print version and exit")
	fs.BoolVar(&cfg.printVersion, "v", false, "shorthand for -version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.printVersion {
		return cfg, nil
	}

	cfg.inputs = fs.Args()
	if len(cfg.inputs) == 0 {
		fs.Usage()
		return nil, errUsage
	}

	var err error
	if cfg.compression, err = imageio.ParseCompression(compression); err != nil {
		return nil, err
	}
	if err := cfg.logLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q: %w", logLevel, err)
	}
	if cfg.colors < 1 && cfg.palette == "" {
		return nil, fmt.Errorf("-colors must be at least 1, got %d", cfg.colors)
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}
	if cfg.paletteOut != "" && len(cfg.inputs) > 1 {
		return nil, errors.New("-palette-out needs a single input")
	}
	return cfg, nil
}

func (c *config) batch() bool { return len(c.inputs) > 1 }

func (c *config) logger(w io.Writer) *cqt.Logger {
	opts := &slog.HandlerOptions{Level: c.logLevel}
	if c.logJSON {
		return cqt.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return cqt.NewLogger(slog.NewTextHandler(w, opts))
}
