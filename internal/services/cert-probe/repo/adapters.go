package repo

import (
	"context"
	"strconv"

	"github.com/NordCoder/certprobe/internal/domain/kafka"
	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/NordCoder/certprobe/internal/obs"
	"github.com/google/uuid"
)

type PushSink struct{ P *obs.MetricsPusher }

type KafkaSink struct {
	E     kafka.ResultEvents
	RunID string
}

var (
	_ probe.Sink = PushSink{}
	_ probe.Sink = KafkaSink{}
)

func (s PushSink) Publish(ctx context.Context, r probe.Result) error {
	return s.P.Push(ctx, map[string]string{
		"host": r.Target.Host,
		"port": strconv.Itoa(r.Target.Port),
	})
}

func (s KafkaSink) Publish(ctx context.Context, r probe.Result) error {
	return s.E.PublishResult(ctx, ResultEvent(r, s.RunID))
}

// ResultEvent maps a result to its wire event. An empty runID gets a fresh one.
func ResultEvent(r probe.Result, runID string) kafka.ResultEvent {
	if runID == "" {
		runID = uuid.NewString()
	}
	ev := kafka.ResultEvent{
		ID:        runID,
		Host:      r.Target.Host,
		Port:      r.Target.Port,
		Severity:  r.Severity.String(),
		ExitCode:  r.Severity.ExitCode(),
		Outcome:   r.Outcome.Kind.String(),
		Message:   r.Message,
		CheckedAt: r.CheckedAt,
	}
	if c := r.Outcome.Cert; c != nil {
		hours := r.HoursRemaining
		notAfter := c.NotAfter
		ev.HoursRemaining = &hours
		ev.NotAfter = &notAfter
		ev.Subject = c.Subject
		ev.Issuer = c.Issuer
		ev.SerialNumber = c.SerialNumber
	}
	return ev
}
