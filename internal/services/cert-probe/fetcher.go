package cert_probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type FetcherConfig struct {
	Verify bool
}

// Fetcher performs exactly one TLS handshake per call and reads the leaf certificate.
type Fetcher struct {
	verify bool
	log    *zap.Logger
}

var _ probe.Fetcher = (*Fetcher)(nil)

func NewFetcher(cfg FetcherConfig) *Fetcher {
	return &Fetcher{
		verify: cfg.Verify,
		log:    zap.L().With(zap.String("component", "cert-probe.fetcher")),
	}
}

func (f *Fetcher) WithLogger(l *zap.Logger) *Fetcher {
	if l == nil {
		return f
	}
	cp := *f
	cp.log = l.With(zap.String("component", "cert-probe.fetcher"))
	return &cp
}

func (f *Fetcher) Fetch(ctx context.Context, target probe.CheckTarget) probe.Outcome {
	if target.Port <= 0 || target.Port > 65535 {
		return probe.Failed(probe.NoPortDefined, "no valid port defined")
	}
	host := strings.TrimSpace(target.Host)
	if host == "" {
		return probe.Failed(probe.OtherError, "no host defined")
	}
	timeout := target.Timeout
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	addr := target.Address()

	tr := otel.Tracer("cert-probe.fetcher")
	ctx, span := tr.Start(ctx, "probe.fetch", trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("net.peer.name", host),
			attribute.Int("net.peer.port", target.Port),
			attribute.String("probe.timeout", timeout.String()),
		),
	)
	defer span.End()

	out := f.fetch(ctx, host, addr, timeout)
	span.SetAttributes(attribute.String("probe.outcome", out.Kind.String()))
	if out.Kind != probe.Success {
		span.SetStatus(codes.Error, out.Message)
	}
	return out
}

func (f *Fetcher) fetch(ctx context.Context, host, addr string, timeout time.Duration) probe.Outcome {
	// The deadline covers resolution, connect and handshake; expiry closes the socket.
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := &tls.Dialer{
		NetDialer: &net.Dialer{},
		Config: &tls.Config{
			ServerName:         host,
			InsecureSkipVerify: !f.verify,
			// legacy endpoints still need their expiry reported
			MinVersion: tls.VersionTLS10,
		},
	}

	start := time.Now()
	conn, err := d.DialContext(dctx, "tcp", addr)
	if err != nil {
		out := classify(dctx, err, addr, timeout)
		f.log.Debug("tls dial failed",
			zap.String("addr", addr),
			zap.String("outcome", out.Kind.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return out
	}
	defer func() { _ = conn.Close() }()

	tc, ok := conn.(*tls.Conn)
	if !ok {
		return probe.Failed(probe.OtherError, fmt.Sprintf("unexpected connection type %T", conn))
	}
	state := tc.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return probe.Failed(probe.NoCertificateAvailable, fmt.Sprintf("%s presented no certificate", addr))
	}

	f.log.Debug("tls handshake done",
		zap.String("addr", addr),
		zap.Uint16("tls_version", state.Version),
		zap.Int("chain_len", len(state.PeerCertificates)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return probe.Succeeded(certificateInfo(state.PeerCertificates[0]))
}

func classify(ctx context.Context, err error, addr string, timeout time.Duration) probe.Outcome {
	var (
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return probe.Failed(probe.Timeout, fmt.Sprintf("connection to %s timed out after %s", addr, timeout))
	case errors.As(err, &dnsErr):
		return probe.Failed(probe.HostResolutionFailure, dnsErr.Error())
	case errors.Is(err, syscall.ECONNREFUSED):
		return probe.Failed(probe.ConnectionRefused, fmt.Sprintf("connection to %s refused", addr))
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE):
		return probe.Failed(probe.NoCertificateAvailable, fmt.Sprintf("%s closed the connection before presenting a certificate", addr))
	default:
		return probe.Failed(probe.OtherError, err.Error())
	}
}

func certificateInfo(c *x509.Certificate) probe.CertificateInfo {
	return probe.CertificateInfo{
		Subject:      c.Subject.String(),
		SerialNumber: serialHex(c.SerialNumber),
		Issuer:       c.Issuer.String(),
		NotAfter:     c.NotAfter.UTC(),
	}
}

// serialHex renders the serial the way openssl prints it: upper-case hex, even digit count.
func serialHex(n *big.Int) string {
	if n == nil {
		return ""
	}
	s := strings.ToUpper(n.Text(16))
	if strings.HasPrefix(s, "-") {
		return s
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return s
}
