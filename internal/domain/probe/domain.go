package probe

import (
	"net"
	"strconv"
	"time"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultWarningHours  = 120
	DefaultCriticalHours = 72
)

type CheckTarget struct {
	Host    string        `json:"host"`
	Port    int           `json:"port"`
	Timeout time.Duration `json:"timeout"`
}

func (t CheckTarget) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

type Thresholds struct {
	WarningHours  int `json:"warning_hours"`
	CriticalHours int `json:"critical_hours"`
}

// Sane reports whether the critical threshold does not exceed the warning one.
func (t Thresholds) Sane() bool { return t.CriticalHours <= t.WarningHours }

type CertificateInfo struct {
	Subject      string    `json:"subject"`
	SerialNumber string    `json:"serial_number"`
	Issuer       string    `json:"issuer"`
	NotAfter     time.Time `json:"not_after"`
}

type OutcomeKind int

const (
	Success OutcomeKind = iota
	HostResolutionFailure
	ConnectionRefused
	NoCertificateAvailable
	NoPortDefined
	Timeout
	OtherError
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case HostResolutionFailure:
		return "host_resolution_failure"
	case ConnectionRefused:
		return "connection_refused"
	case NoCertificateAvailable:
		return "no_certificate"
	case NoPortDefined:
		return "no_port_defined"
	case Timeout:
		return "timeout"
	default:
		return "other_error"
	}
}

// Outcome is the result of one fetch attempt. Cert is set only for Success.
type Outcome struct {
	Kind    OutcomeKind
	Cert    *CertificateInfo
	Message string
}

func Succeeded(cert CertificateInfo) Outcome {
	return Outcome{Kind: Success, Cert: &cert}
}

func Failed(kind OutcomeKind, msg string) Outcome {
	return Outcome{Kind: kind, Message: msg}
}

type Severity int

const (
	OK Severity = iota
	Warning
	Critical
	Unknown
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) ExitCode() int {
	switch s {
	case OK, Warning, Critical:
		return int(s)
	default:
		return int(Unknown)
	}
}

type Result struct {
	Target         CheckTarget
	Outcome        Outcome
	Severity       Severity
	HoursRemaining int64
	Message        string
	Details        []string
	CheckedAt      time.Time
}
