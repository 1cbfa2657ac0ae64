// Command cqt reduces images to a small color palette.
//
//	cqt -colors 16 -dither -o out.png photo.jpg
//	cqt -palette palettes/pico8.hex -o out.gif photo.jpg
//	cqt -jobs 4 -format cqt -o s3://bucket/quantized/ a.png b.png c.png
//
// A .cqt input is decoded and written out in the output format without
// quantizing again.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	switch {
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case err != nil:
		fmt.Fprintln(stderr, "cqt:", err)
		return 2
	}

	if cfg.printVersion {
		fmt.Fprintf(stdout, "cqt version %s\n", version)
		return 0
	}

	a := newApp(cfg, stdout, stderr)
	if err := a.run(ctx); err != nil {
		fmt.Fprintln(stderr, "cqt:", err)
		return 1
	}
	return 0
}
