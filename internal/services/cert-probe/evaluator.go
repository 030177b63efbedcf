package cert_probe

import (
	"fmt"
	"time"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/dustin/go-humanize"
)

// NotAfterLayout matches the notAfter rendering of openssl x509.
const NotAfterLayout = "Jan _2 15:04:05 2006 GMT"

type Evaluation struct {
	Severity       probe.Severity
	Message        string
	HoursRemaining int64
}

// Evaluate classifies a fetch outcome. Hours are truncated toward zero and the
// critical threshold is checked before the warning one.
func Evaluate(out probe.Outcome, th probe.Thresholds, now time.Time) Evaluation {
	switch out.Kind {
	case probe.Success:
	case probe.NoPortDefined:
		return Evaluation{Severity: probe.Critical, Message: "No port defined"}
	case probe.HostResolutionFailure:
		return unknown("Could not resolve host", out.Message)
	case probe.ConnectionRefused:
		return unknown("Connection refused", out.Message)
	case probe.NoCertificateAvailable:
		return unknown("No certificate available", out.Message)
	case probe.Timeout:
		return unknown("Timed out", out.Message)
	default:
		return unknown("Check failed", out.Message)
	}
	if out.Cert == nil {
		return unknown("Check failed", "handshake succeeded without a certificate")
	}

	hours := int64(out.Cert.NotAfter.Sub(now) / time.Hour)
	expiry := out.Cert.NotAfter.UTC().Format(NotAfterLayout)

	switch {
	case hours <= 0:
		return Evaluation{
			Severity:       probe.Critical,
			Message:        fmt.Sprintf("Certificate expired %d hours ago (%s)", -hours, expiry),
			HoursRemaining: hours,
		}
	case hours <= int64(th.CriticalHours):
		return expiresIn(probe.Critical, hours, expiry)
	case hours <= int64(th.WarningHours):
		return expiresIn(probe.Warning, hours, expiry)
	default:
		return expiresIn(probe.OK, hours, expiry)
	}
}

// Details returns the verbose lines. Only successful outcomes carry any.
func Details(out probe.Outcome, now time.Time) []string {
	if out.Kind != probe.Success || out.Cert == nil {
		return nil
	}
	c := out.Cert
	return []string{
		"Subject: " + c.Subject,
		"Serial: " + c.SerialNumber,
		"Issuer: " + c.Issuer,
		"Expires: " + humanize.RelTime(c.NotAfter, now, "ago", "from now"),
	}
}

func expiresIn(sev probe.Severity, hours int64, expiry string) Evaluation {
	return Evaluation{
		Severity:       sev,
		Message:        fmt.Sprintf("Certificate expires in %d hours (%s)", hours, expiry),
		HoursRemaining: hours,
	}
}

func unknown(summary, detail string) Evaluation {
	msg := summary
	if detail != "" {
		msg += ": " + detail
	}
	return Evaluation{Severity: probe.Unknown, Message: msg}
}
