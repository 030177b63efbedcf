package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	domain "github.com/NordCoder/certprobe/internal/domain/kafka"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestResultEventsKafka_PublishResult(t *testing.T) {
	w := &fakeWriter{}
	events := NewResultEventsKafka(newProducer(w, "cert-probe.results"))

	ev := domain.ResultEvent{
		ID:        "run-1",
		Host:      "example.com",
		Port:      443,
		Severity:  "WARNING",
		ExitCode:  1,
		Outcome:   "success",
		Message:   "Certificate expires in 100 hours",
		CheckedAt: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, events.PublishResult(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "example.com:443", string(msg.Key))

	var got domain.ResultEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev, got)

	var contentType string
	for _, h := range msg.Headers {
		if h.Key == "content-type" {
			contentType = string(h.Value)
		}
	}
	assert.Equal(t, "application/json", contentType)
}

func TestProducer_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := newProducer(w, "t")

	err := p.PublishJSON(context.Background(), []byte("k"), map[string]int{"a": 1})
	require.ErrorContains(t, err, "broker unavailable")

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestHeaderCarrier_SortedHeaders(t *testing.T) {
	h := headerCarrier{"traceparent": "00-abc", "baggage": "k=v"}
	hs := h.ToKafka()
	require.Len(t, hs, 2)
	assert.Equal(t, "baggage", hs[0].Key)
	assert.Equal(t, "traceparent", hs[1].Key)
}
