package main

import (
	"bytes"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/NordCoder/certprobe/internal/certtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	code := run(context.Background(), args, &out)
	return code, out.String()
}

func TestRun_Usage(t *testing.T) {
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, 0},
		{"missing port", []string{"-h", "example.com"}, 0},
		{"missing host", []string{"-p", "443"}, 0},
		{"unknown flag", []string{"-h", "example.com", "-p", "443", "--bogus"}, 0},
		{"missing flag value", []string{"-p", "443", "-h"}, 0},
		{"strict missing port", []string{"--strict", "-h", "example.com"}, 3},
		{"strict unknown flag", []string{"--strict", "--bogus"}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, out := runArgs(t, tc.args...)
			assert.Equal(t, tc.code, code)
			assert.Contains(t, out, "Usage: cert-probe")
		})
	}
}

func TestRun_OK(t *testing.T) {
	addr := certtest.Server(t, certtest.Options{NotAfter: time.Now().Add(30 * 24 * time.Hour)})

	code, out := runArgs(t, "-h", "127.0.0.1", "-p", strconv.Itoa(addr.Port), "-t", "5")
	require.Equal(t, 0, code, out)
	assert.Regexp(t, `^OK: Certificate expires in 7\d\d hours \(\w{3} [ \d]\d \d{2}:\d{2}:\d{2} \d{4} GMT\)\n$`, out)
}

func TestRun_Verbose(t *testing.T) {
	addr := certtest.Server(t, certtest.Options{CommonName: "probe.test", NotAfter: time.Now().Add(100 * time.Hour)})

	code, out := runArgs(t, "-h", "127.0.0.1", "-p", strconv.Itoa(addr.Port), "-v")
	require.Equal(t, 1, code, out)
	assert.Contains(t, out, "WARNING: Certificate expires in 99 hours")
	assert.Contains(t, out, "\nSubject: CN=probe.test\n")
	assert.Contains(t, out, "\nSerial: 0ABC12\n")
	assert.Contains(t, out, "\nIssuer: CN=probe.test\n")
	assert.Contains(t, out, "\nExpires: 4 days from now\n")
}

func TestRun_Thresholds(t *testing.T) {
	addr := certtest.Server(t, certtest.Options{NotAfter: time.Now().Add(100 * time.Hour)})
	port := strconv.Itoa(addr.Port)

	code, out := runArgs(t, "-h", "127.0.0.1", "-p", port, "-c", "150", "-w", "200")
	assert.Equal(t, 2, code, out)

	code, out = runArgs(t, "-h", "127.0.0.1", "-p", port, "-c", "10", "-w", "20")
	assert.Equal(t, 0, code, out)
}

func TestRun_Expired(t *testing.T) {
	addr := certtest.Server(t, certtest.Options{NotAfter: time.Now().Add(-10 * time.Hour)})

	code, out := runArgs(t, "-h", "127.0.0.1", "-p", strconv.Itoa(addr.Port))
	require.Equal(t, 2, code, out)
	assert.Contains(t, out, "CRITICAL: Certificate expired 10 hours ago")
}

func TestRun_MalformedPort(t *testing.T) {
	code, out := runArgs(t, "-h", "127.0.0.1", "-p", "https")
	assert.Equal(t, 2, code)
	assert.Equal(t, "CRITICAL: No port defined\n", out)
}

func TestRun_ConnectionRefused(t *testing.T) {
	addr := certtest.ClosedPort(t)

	code, out := runArgs(t, "-h", "127.0.0.1", "-p", strconv.Itoa(addr.Port))
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "UNKNOWN: Connection refused")
}
