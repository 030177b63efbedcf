package cert_probe_config

import (
	"strconv"
	"strings"
	"time"

	"github.com/NordCoder/certprobe/internal/domain/probe"
	"github.com/NordCoder/certprobe/internal/obs"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// Target keeps the port as text so a malformed value reaches the fetcher as
// "no port defined" instead of failing flag parsing.
type Target struct {
	Host    string `mapstructure:"host" validate:"required"`
	Port    string `mapstructure:"port" validate:"required"`
	Timeout int    `mapstructure:"timeout"`
}

type Thresholds struct {
	WarningHours  int `mapstructure:"warning_hours"`
	CriticalHours int `mapstructure:"critical_hours"`
}

type TLS struct {
	Verify bool `mapstructure:"verify"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig(app App, runID string) obs.LogConfig {
	return obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    app.Name,
		Env:    app.Env,
		Ver:    app.Version,
		RunID:  runID,
	}
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Push struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
	Job string `mapstructure:"job"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers" validate:"omitempty,dive,hostname_port"`
	Topic   string   `mapstructure:"topic"`
}

func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 && k.Topic != "" }

type Sinks struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type Config struct {
	App        App        `mapstructure:"app"`
	Target     Target     `mapstructure:"target"`
	Thresholds Thresholds `mapstructure:"thresholds"`
	TLS        TLS        `mapstructure:"tls"`
	Log        Log        `mapstructure:"log"`
	OTEL       OTEL       `mapstructure:"otel"`
	Push       Push       `mapstructure:"push"`
	Kafka      Kafka      `mapstructure:"kafka"`
	Sinks      Sinks      `mapstructure:"sinks"`
	Verbose    bool       `mapstructure:"verbose"`
	Strict     bool       `mapstructure:"strict"`
}

// CheckTarget converts the loaded values. An unparsable port becomes 0.
func (c *Config) CheckTarget() probe.CheckTarget {
	port, err := strconv.Atoi(strings.TrimSpace(c.Target.Port))
	if err != nil {
		port = 0
	}
	timeout := time.Duration(c.Target.Timeout) * time.Second
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	return probe.CheckTarget{
		Host:    strings.TrimSpace(c.Target.Host),
		Port:    port,
		Timeout: timeout,
	}
}

func (c *Config) ProbeThresholds() probe.Thresholds {
	return probe.Thresholds{
		WarningHours:  c.Thresholds.WarningHours,
		CriticalHours: c.Thresholds.CriticalHours,
	}
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

const (
	ErrMissingTarget ErrConfig = "host and port are required"
	ErrInvalid       ErrConfig = "invalid configuration"
)
