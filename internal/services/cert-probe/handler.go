package cert_probe

import (
	"context"
	"fmt"
	"time"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/NordCoder/certprobe/internal/obs"
	"github.com/NordCoder/certprobe/internal/obs/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Handler struct {
	Log         *zap.Logger
	Fetcher     probe.Fetcher
	Clock       probe.Clock
	Metrics     *Metrics
	Sinks       []probe.Sink
	SinkTimeout time.Duration
	SinkPolicy  retry.Policy
}

// Check runs one fetch and evaluation. It always returns a result; a panic in
// the pipeline is reported as UNKNOWN.
func (h *Handler) Check(ctx context.Context, target probe.CheckTarget, th probe.Thresholds) (res probe.Result) {
	log := obs.WithTrace(ctx, h.logger()).With(zap.String("target", target.Address()))
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("check panicked", zap.Any("panic", rec))
			res = probe.Result{
				Target:    target,
				Outcome:   probe.Failed(probe.OtherError, fmt.Sprint(rec)),
				Severity:  probe.Unknown,
				Message:   fmt.Sprintf("Internal error: %v", rec),
				CheckedAt: time.Now().UTC(),
			}
		}
	}()

	if !th.Sane() {
		log.Warn("critical threshold is above warning threshold; warning will never fire",
			zap.Int("warning_hours", th.WarningHours),
			zap.Int("critical_hours", th.CriticalHours),
		)
	}

	tr := otel.Tracer("cert-probe.handler")
	ctx, span := tr.Start(ctx, "probe.check")
	defer span.End()

	start := h.Clock.Now()
	out := h.Fetcher.Fetch(ctx, target)
	now := h.Clock.Now()

	ev := Evaluate(out, th, now)
	res = probe.Result{
		Target:         target,
		Outcome:        out,
		Severity:       ev.Severity,
		HoursRemaining: ev.HoursRemaining,
		Message:        ev.Message,
		Details:        Details(out, now),
		CheckedAt:      now.UTC(),
	}
	span.SetAttributes(
		attribute.String("probe.outcome", out.Kind.String()),
		attribute.String("probe.severity", ev.Severity.String()),
		attribute.Int64("probe.hours_remaining", ev.HoursRemaining),
	)
	h.Metrics.Observe(res, now.Sub(start))

	log.Debug("check done",
		zap.String("outcome", out.Kind.String()),
		zap.String("severity", ev.Severity.String()),
		zap.Int64("hours_remaining", ev.HoursRemaining),
		zap.String("detail", out.Message),
	)
	return res
}

// Publish hands the result to every configured sink. Failures are logged only.
func (h *Handler) Publish(ctx context.Context, res probe.Result) {
	for _, s := range h.Sinks {
		h.publishOne(ctx, s, res)
	}
}

func (h *Handler) publishOne(ctx context.Context, s probe.Sink, res probe.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger().Error("sink panicked", zap.String("sink", fmt.Sprintf("%T", s)), zap.Any("panic", rec))
		}
	}()

	timeout := h.SinkTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pol := h.SinkPolicy
	if pol.Name == "" {
		pol.Name = fmt.Sprintf("%T", s)
	}
	if err := retry.Do(sctx, func() error { return s.Publish(sctx, res) }, pol); err != nil {
		h.logger().Warn("publish result", zap.String("sink", pol.Name), zap.Error(err))
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
