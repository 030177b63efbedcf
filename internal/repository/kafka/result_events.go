package kafka

import (
	"context"
	"net"
	"strconv"

	domain "github.com/NordCoder/certprobe/internal/domain/kafka"
)

type ResultEventsKafka struct {
	p *Producer
}

func NewResultEventsKafka(p *Producer) *ResultEventsKafka { return &ResultEventsKafka{p: p} }

var _ domain.ResultEvents = (*ResultEventsKafka)(nil)

// PublishResult keys events by host:port so results of one endpoint stay ordered.
func (e *ResultEventsKafka) PublishResult(ctx context.Context, ev domain.ResultEvent) error {
	key := []byte(net.JoinHostPort(ev.Host, strconv.Itoa(ev.Port)))
	return e.p.PublishJSON(ctx, key, ev)
}
