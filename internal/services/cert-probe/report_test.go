package cert_probe

import (
	"bytes"
	"testing"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	res := probe.Result{
		Severity: probe.OK,
		Message:  "Certificate expires in 200 hours (Oct 22 20:00:00 2026 GMT)",
		Details:  []string{"Subject: CN=example.com", "Serial: 0ABC12", "Issuer: CN=Test CA"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, false))
	require.Equal(t, "OK: Certificate expires in 200 hours (Oct 22 20:00:00 2026 GMT)\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteReport(&buf, res, true))
	require.Equal(t,
		"OK: Certificate expires in 200 hours (Oct 22 20:00:00 2026 GMT)\n"+
			"Subject: CN=example.com\nSerial: 0ABC12\nIssuer: CN=Test CA\n",
		buf.String())
}

func TestWriteReport_VerboseFailureAddsNothing(t *testing.T) {
	res := probe.Result{Severity: probe.Unknown, Message: "Timed out: connection to x:443 timed out after 2s"}
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, res, true))
	require.Equal(t, "UNKNOWN: Timed out: connection to x:443 timed out after 2s\n", buf.String())
}
