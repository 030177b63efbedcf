package obs

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.uber.org/zap"
)

type PushConfig struct {
	URL string
	Job string
}

// MetricsPusher sends one gatherer to a Prometheus Pushgateway. The probe
// never listens on a port, so this is its only way out for metrics.
type MetricsPusher struct {
	cfg PushConfig
	g   prometheus.Gatherer
	log *zap.Logger
}

func NewMetricsPusher(cfg PushConfig, g prometheus.Gatherer, l *zap.Logger) *MetricsPusher {
	if cfg.Job == "" {
		cfg.Job = "cert_probe"
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &MetricsPusher{cfg: cfg, g: g, log: l.With(zap.String("component", "obs.pusher"))}
}

// Push replaces the metrics of the group identified by grouping.
func (p *MetricsPusher) Push(ctx context.Context, grouping map[string]string) error {
	if p.cfg.URL == "" {
		return errors.New("pushgateway url is empty")
	}
	pu := push.New(p.cfg.URL, p.cfg.Job).Gatherer(p.g)
	for k, v := range grouping {
		pu = pu.Grouping(k, v)
	}
	if err := pu.PushContext(ctx); err != nil {
		p.log.Debug("push failed", zap.String("url", p.cfg.URL), zap.Error(err))
		return err
	}
	p.log.Debug("metrics pushed", zap.String("url", p.cfg.URL), zap.String("job", p.cfg.Job))
	return nil
}
