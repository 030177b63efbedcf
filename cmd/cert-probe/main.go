package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/NordCoder/certprobe/internal/config/cert-probe"
	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/NordCoder/certprobe/internal/obs"
	"github.com/NordCoder/certprobe/internal/obs/retry"
	"github.com/NordCoder/certprobe/internal/repository/kafka"
	certprobe "github.com/NordCoder/certprobe/internal/services/cert-probe"
	proberepo "github.com/NordCoder/certprobe/internal/services/cert-probe/repo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func main() {
	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(root, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	// init
	cf := newFlags()
	if err := cf.fs.Parse(args); err != nil {
		return usage(stdout, cf.strict())
	}
	cfg, err := config.Load(cf.configPath, cf.fs)
	switch {
	case errors.Is(err, config.ErrMissingTarget):
		return usage(stdout, cfg != nil && cfg.Strict)
	case err != nil:
		return unknown(stdout, fmt.Errorf("load config: %w", err))
	}

	// logger
	runID := uuid.NewString()
	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig(cfg.App, runID))
	if err != nil {
		return unknown(stdout, fmt.Errorf("init logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	// otel
	otelCloser, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Warn("otel init", zap.Error(err))
		otelCloser = &obs.OTel{}
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = otelCloser.Shutdown(shCtx)
	}()

	// wiring
	h, closeSinks := wire(cfg, runID, l)
	defer closeSinks()

	// check
	res := h.Check(ctx, cfg.CheckTarget(), cfg.ProbeThresholds())
	if err := certprobe.WriteReport(stdout, res, cfg.Verbose); err != nil {
		l.Error("write report", zap.Error(err))
	}
	h.Publish(ctx, res)
	return res.Severity.ExitCode()
}

func wire(cfg *config.Config, runID string, l *zap.Logger) (*certprobe.Handler, func()) {
	metrics := certprobe.NewMetrics()
	fetcher := certprobe.NewFetcher(certprobe.FetcherConfig{Verify: cfg.TLS.Verify}).WithLogger(l)

	var (
		sinks   []probe.Sink
		closers []func() error
	)
	if cfg.Push.URL != "" {
		pusher := obs.NewMetricsPusher(obs.PushConfig{URL: cfg.Push.URL, Job: cfg.Push.Job}, metrics.Registry, l)
		sinks = append(sinks, proberepo.PushSink{P: pusher})
	}
	if cfg.Kafka.Enabled() {
		prod := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
		closers = append(closers, prod.Close)
		sinks = append(sinks, proberepo.KafkaSink{E: kafka.NewResultEventsKafka(prod), RunID: runID})
	}

	h := &certprobe.Handler{
		Log:         l,
		Fetcher:     fetcher,
		Clock:       systemClock{},
		Metrics:     metrics,
		Sinks:       sinks,
		SinkTimeout: cfg.Sinks.Timeout,
		SinkPolicy:  retry.DefaultSinkPolicy(l),
	}
	return h, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				l.Warn("close sink", zap.Error(err))
			}
		}
	}
}

func usage(w io.Writer, strict bool) int {
	printUsage(w)
	if strict {
		return probe.Unknown.ExitCode()
	}
	return probe.OK.ExitCode()
}

func unknown(w io.Writer, err error) int {
	_, _ = fmt.Fprintf(w, "%s: %v\n", probe.Unknown, err)
	return probe.Unknown.ExitCode()
}
