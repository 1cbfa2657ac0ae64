package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promObserver exports quantization progress as Prometheus metrics.
type promObserver struct {
	rounds       prometheus.Counter
	paletteSize  prometheus.Histogram
	truncated    prometheus.Counter
	colorsUsed   prometheus.Histogram
	mapDuration  *prometheus.HistogramVec
	images       *prometheus.CounterVec
	imageLatency prometheus.Histogram
}

func newPromObserver(reg prometheus.Registerer) *promObserver {
	colorBuckets := prometheus.ExponentialBuckets(2, 2, 9) // 2 .. 512
	o := &promObserver{
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cqt_partition_rounds_total",
			Help: "Cluster splits performed",
		}),
		paletteSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cqt_palette_size",
			Help:    "Final palette size per image",
			Buckets: colorBuckets,
		}),
		truncated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cqt_palette_truncated_total",
			Help: "Palettes that came out smaller than requested",
		}),
		colorsUsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cqt_colors_used",
			Help:    "Distinct palette entries used per directly mapped image",
			Buckets: colorBuckets,
		}),
		mapDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cqt_map_duration_seconds",
			Help:    "Time spent remapping pixels onto the palette",
			Buckets: prometheus.DefBuckets,
		}, []string{"mode"}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cqt_images_total",
			Help: "Images processed",
		}, []string{"status"}),
		imageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cqt_image_duration_seconds",
			Help:    "End-to-end time per image including IO",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(o.rounds, o.paletteSize, o.truncated, o.colorsUsed, o.mapDuration, o.images, o.imageLatency)
	return o
}

func (o *promObserver) OnPartitionRound(int, int) {
	o.rounds.Inc()
}

func (o *promObserver) OnPaletteReduced(size, target int) {
	o.paletteSize.Observe(float64(size))
	if size < target {
		o.truncated.Inc()
	}
}

func (o *promObserver) OnMapped(used, _ int, d time.Duration) {
	o.colorsUsed.Observe(float64(used))
	o.mapDuration.WithLabelValues("direct").Observe(d.Seconds())
}

func (o *promObserver) OnDithered(_ int, d time.Duration) {
	o.mapDuration.WithLabelValues("dither").Observe(d.Seconds())
}

func (o *promObserver) imageDone(d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.images.WithLabelValues(status).Inc()
	o.imageLatency.Observe(d.Seconds())
}

// newMetricsRegistry returns a registry with process and Go runtime collectors.
func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// serveMetrics exposes reg on addr until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry) (stop func(context.Context) error, bound string, err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = ln.Close()
		}
	}()
	return srv.Shutdown, ln.Addr().String(), nil
}
