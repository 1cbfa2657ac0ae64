package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/cqt"
	"github.com/hupe1980/cqt/blobstore"
	"github.com/hupe1980/cqt/dither"
	"github.com/hupe1980/cqt/imageio"
	"github.com/hupe1980/cqt/palette"
	"github.com/hupe1980/cqt/pixel"
	"github.com/hupe1980/cqt/resource"
)

type job struct {
	in     location
	out    location
	format imageio.Format
}

type app struct {
	cfg    *config
	stdout io.Writer
	stderr io.Writer
	log    *cqt.Logger
	rc     *resource.Controller
	stores *stores

	fixed palette.Palette
	prom  *promObserver

	outMu sync.Mutex
}

func newApp(cfg *config, stdout, stderr io.Writer) *app {
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:   cfg.memLimit,
		MaxWorkers:         int64(cfg.jobs),
		IOLimitBytesPerSec: cfg.ioLimit,
	})
	return &app{
		cfg:    cfg,
		stdout: stdout,
		stderr: stderr,
		log:    cfg.logger(stderr),
		rc:     rc,
		stores: newStores(cfg, rc),
	}
}

func (a *app) run(ctx context.Context) error {
	if a.cfg.metricsAddr != "" {
		reg := newMetricsRegistry()
		a.prom = newPromObserver(reg)
		stop, addr, err := serveMetrics(a.cfg.metricsAddr, reg)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		a.log.Info("serving metrics", "addr", "http://"+addr+"/metrics")
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = stop(sctx)
		}()
	}

	if a.cfg.palette != "" {
		p, err := a.loadPalette(ctx, a.cfg.palette)
		if err != nil {
			return fmt.Errorf("palette %s: %w", a.cfg.palette, err)
		}
		a.fixed = p
	}

	jobs, err := a.plan()
	if err != nil {
		return err
	}

	reports := make([]cqt.Report, len(jobs))
	errs := make([]error, len(jobs))

	var bar *progressBar
	if !a.cfg.quiet {
		bar = newProgressBar(a.stderr)
	}
	var done int
	var doneMu sync.Mutex

	var g errgroup.Group
	g.SetLimit(a.cfg.jobs)
	for i, j := range jobs {
		g.Go(func() error {
			start := time.Now()
			reports[i], errs[i] = a.process(ctx, j, bar)
			if errs[i] != nil {
				reports[i].Error = errs[i].Error()
				a.log.ErrorContext(ctx, "image failed", "image", j.in.String(), "error", errs[i])
			}
			if a.prom != nil {
				a.prom.imageDone(time.Since(start), errs[i])
			}
			if bar != nil && a.cfg.batch() {
				doneMu.Lock()
				done++
				bar.set(float64(done) / float64(len(jobs)))
				doneMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	if bar != nil && a.cfg.batch() {
		bar.finish()
	}

	if a.cfg.report != "" {
		if err := a.writeReport(ctx, reports); err != nil {
			errs = append(errs, fmt.Errorf("report: %w", err))
		}
	}
	return errors.Join(errs...)
}

// plan resolves inputs to jobs. With several inputs the output location is
// a directory and each result is named after its input.
func (a *app) plan() ([]job, error) {
	out, err := parseLocation(a.cfg.output)
	if err != nil {
		return nil, err
	}

	var forced *imageio.Format
	if a.cfg.format != "" {
		f, err := imageio.ParseFormat(a.cfg.format)
		if err != nil {
			return nil, err
		}
		forced = &f
	}

	if !a.cfg.batch() {
		in, err := parseLocation(a.cfg.inputs[0])
		if err != nil {
			return nil, err
		}
		f := imageio.FormatPNG
		if forced != nil {
			f = *forced
		} else if f, err = imageio.FormatFromName(out.key); err != nil {
			return nil, fmt.Errorf("output %s: %w (use -format)", out, err)
		}
		return []job{{in: in, out: out, format: f}}, nil
	}

	if a.cfg.output == defaultOutput {
		out = location{key: "."}
	}
	f := imageio.FormatPNG
	if forced != nil {
		f = *forced
	}

	jobs := make([]job, 0, len(a.cfg.inputs))
	seen := make(map[string]string, len(a.cfg.inputs))
	for _, s := range a.cfg.inputs {
		in, err := parseLocation(s)
		if err != nil {
			return nil, err
		}
		dst := out.join(in.base() + f.Ext())
		if prev, ok := seen[dst.String()]; ok {
			return nil, fmt.Errorf("inputs %s and %s both write %s", prev, s, dst)
		}
		seen[dst.String()] = s
		jobs = append(jobs, job{in: in, out: dst, format: f})
	}
	return jobs, nil
}

func (a *app) loadPalette(ctx context.Context, s string) (palette.Palette, error) {
	l, err := parseLocation(s)
	if err != nil {
		return nil, err
	}
	f, err := palette.FormatFromName(l.key)
	if err != nil {
		return nil, err
	}
	data, err := a.stores.read(ctx, l)
	if err != nil {
		return nil, err
	}
	return palette.Parse(data, f)
}

func (a *app) options(log *cqt.Logger, observer cqt.Observer) []cqt.Option {
	mode := dither.EdgeWrap
	if a.cfg.clampEdges {
		mode = dither.EdgeClamp
	}
	opts := []cqt.Option{
		cqt.WithColors(a.cfg.colors),
		cqt.WithDither(a.cfg.dither),
		cqt.WithEdgeMode(mode),
		cqt.WithParallelism(max(1, runtime.GOMAXPROCS(0)/a.cfg.jobs)),
		cqt.WithTrainingSize(a.cfg.trainSize),
		cqt.WithLogger(log),
		cqt.WithObserver(observer),
	}
	if a.fixed != nil {
		opts = append(opts, cqt.WithPalette(a.fixed))
	}
	return opts
}

func (a *app) observer(bar *progressBar) cqt.Observer {
	var obs cqt.MultiObserver
	if bar != nil && !a.cfg.batch() {
		obs = append(obs, roundProgress{bar: bar})
	}
	if a.prom != nil {
		obs = append(obs, a.prom)
	}
	if len(obs) == 0 {
		return nil
	}
	return obs
}

func (a *app) process(ctx context.Context, j job, bar *progressBar) (cqt.Report, error) {
	name := j.in.String()
	rep := cqt.Report{Name: name, Output: j.out.String()}
	log := a.log.WithImage(name)

	if err := a.rc.AcquireWorker(ctx); err != nil {
		return rep, err
	}
	defer a.rc.ReleaseWorker()

	var (
		buf    *pixel.Buffer
		ix     *imageio.Indexed
		format string
		held   int64
	)
	defer func() { a.rc.ReleaseMemory(held) }()

	err := a.stores.view(ctx, j.in, func(data []byte) error {
		w, h, f, err := imageio.DecodeConfig(data)
		if err != nil {
			return err
		}
		format = f
		// Reserve before decoding.
		if held, err = a.rc.AcquireMemory(ctx, resource.EstimateImageMemory(w, h)); err != nil {
			return err
		}
		if format == "cqt" {
			ix, err = imageio.DecodeCQT(data)
			return err
		}
		buf, _, err = imageio.DecodeBytes(data)
		return err
	})
	log.LogDecode(ctx, name, format, err)
	if err != nil {
		return rep, err
	}

	if ix != nil {
		rep.Width, rep.Height = ix.Width, ix.Height
		rep.Target = len(ix.Palette)
		rep.Palette = ix.Palette.Hex()
		rep.Fixed = true
	} else {
		res, err := cqt.Quantize(ctx, buf, a.options(log, a.observer(bar))...)
		if err != nil {
			return rep, err
		}
		if bar != nil && !a.cfg.batch() {
			bar.finish()
		}
		rep = res.Report(name)
		rep.Output = j.out.String()
		ix = res.Indexed()
		prefix := ""
		if a.cfg.batch() {
			prefix = name + ": "
		}
		a.printf("%s%d colors used out of palette of %d\n", prefix, res.UsedColors(), len(res.Palette))

		if a.cfg.paletteOut != "" {
			if err := a.savePalette(ctx, res.Palette); err != nil {
				return rep, fmt.Errorf("palette-out: %w", err)
			}
		}
	}

	err = a.encode(ctx, j, ix)
	log.LogEncode(ctx, j.out.String(), j.format.String(), err)
	return rep, err
}

func (a *app) encode(ctx context.Context, j job, ix *imageio.Indexed) error {
	st, err := a.stores.get(ctx, j.out)
	if err != nil {
		return err
	}
	return blobstore.WriteTo(ctx, st, j.out.key, func(w io.Writer) error {
		return imageio.Encode(w, ix, j.format,
			imageio.WithCompression(a.cfg.compression),
			imageio.WithJPEGQuality(a.cfg.jpegQuality),
		)
	})
}

func (a *app) savePalette(ctx context.Context, p palette.Palette) error {
	l, err := parseLocation(a.cfg.paletteOut)
	if err != nil {
		return err
	}
	f, err := palette.FormatFromName(l.key)
	if err != nil {
		return err
	}
	data, err := palette.Marshal(p, f)
	if err != nil {
		return err
	}
	return a.stores.write(ctx, l, data)
}

func (a *app) writeReport(ctx context.Context, reports []cqt.Report) error {
	l, err := parseLocation(a.cfg.report)
	if err != nil {
		return err
	}
	data, err := cqt.MarshalReports(nil, reports)
	if err != nil {
		return err
	}
	return a.stores.write(ctx, l, data)
}

func (a *app) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.stdout, format, args...)
}
