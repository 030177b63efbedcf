package cert_probe_config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"host":     "target.host",
	"port":     "target.port",
	"timeout":  "target.timeout",
	"warning":  "thresholds.warning_hours",
	"critical": "thresholds.critical_hours",
	"verbose":  "verbose",
	"strict":   "strict",
}

// Load resolves flags, CERTPROBE_* env vars, the optional YAML file and defaults,
// in that order of precedence. The returned config is usable even when the
// error is ErrMissingTarget, so callers can honour strict mode.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalid, path, err)
		}
	}

	v.SetDefault("app.name", "cert-probe")
	v.SetDefault("app.env", "")
	v.SetDefault("app.version", "")

	v.SetDefault("target.timeout", 30)
	v.SetDefault("thresholds.warning_hours", 120)
	v.SetDefault("thresholds.critical_hours", 72)
	v.SetDefault("tls.verify", false)
	v.SetDefault("verbose", false)
	v.SetDefault("strict", false)

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.pretty", false)

	v.SetDefault("otel.enable", false)
	v.SetDefault("otel.service_name", "cert-probe")
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.otlp_endpoint", "localhost:4317")

	v.SetDefault("push.url", "")
	v.SetDefault("push.job", "cert_probe")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "")
	v.SetDefault("sinks.timeout", "5s")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetEnvPrefix("CERTPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	_ = v.BindEnv("target.host")
	_ = v.BindEnv("target.port")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate(&cfg); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

var validate = func() func(*Config) error {
	vd := validator.New(validator.WithRequiredStructEnabled())
	return func(cfg *Config) error {
		err := vd.Struct(cfg)
		if err == nil {
			return nil
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		for _, fe := range verrs {
			if fe.Tag() == "required" && strings.HasPrefix(fe.Namespace(), "Config.Target.") {
				return fmt.Errorf("%w: %s", ErrMissingTarget, strings.ToLower(fe.Field()))
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalid, verrs)
	}
}()
