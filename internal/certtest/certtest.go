// Package certtest starts loopback TLS servers with generated certificates.
package certtest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"testing"
	"time"
)

type Options struct {
	CommonName   string
	Organization string
	Serial       *big.Int
	NotAfter     time.Time
}

// Certificate returns a self-signed leaf for 127.0.0.1 and localhost.
func Certificate(tb testing.TB, o Options) tls.Certificate {
	tb.Helper()
	if o.CommonName == "" {
		o.CommonName = "localhost"
	}
	if o.Serial == nil {
		o.Serial = big.NewInt(0x0abc12)
	}
	if o.NotAfter.IsZero() {
		o.NotAfter = time.Now().Add(365 * 24 * time.Hour)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tb.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: o.Serial,
		Subject:      pkix.Name{CommonName: o.CommonName},
		NotBefore:    o.NotAfter.Add(-2 * 365 * 24 * time.Hour),
		NotAfter:     o.NotAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	if o.Organization != "" {
		tmpl.Subject.Organization = []string{o.Organization}
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		tb.Fatalf("create certificate: %v", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

// Server accepts TLS connections until the test ends and returns its address.
func Server(tb testing.TB, o Options) *net.TCPAddr {
	tb.Helper()
	cert := Certificate(tb, o)
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	if err != nil {
		tb.Fatalf("listen: %v", err)
	}
	serve(tb, ln, func(c net.Conn) {
		_ = c.(*tls.Conn).Handshake()
	})
	return ln.Addr().(*net.TCPAddr)
}

// Silent accepts TCP connections and never answers the handshake.
func Silent(tb testing.TB) *net.TCPAddr {
	tb.Helper()
	ln := listen(tb)
	hold := make(chan struct{})
	tb.Cleanup(func() { close(hold) })
	serve(tb, ln, func(net.Conn) { <-hold })
	return ln.Addr().(*net.TCPAddr)
}

// Hangup accepts TCP connections and closes them immediately.
func Hangup(tb testing.TB) *net.TCPAddr {
	tb.Helper()
	ln := listen(tb)
	serve(tb, ln, func(net.Conn) {})
	return ln.Addr().(*net.TCPAddr)
}

// ClosedPort returns a loopback port with nothing listening on it.
func ClosedPort(tb testing.TB) *net.TCPAddr {
	tb.Helper()
	ln := listen(tb)
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()
	return addr
}

func listen(tb testing.TB) net.Listener {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("listen: %v", err)
	}
	return ln
}

func serve(tb testing.TB, ln net.Listener, handle func(net.Conn)) {
	tb.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer c.Close()
				handle(c)
			}()
		}
	}()
}
