// Package config loads tasktracker settings from a config file, TASKTRACKER_
// environment variables and command line flags, and turns them into
// subscribers.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/konveyor/tasktracker/tracker/subscriber"
)

const (
	EnvPrefix             = "TASKTRACKER"
	DefaultFile           = "tasktracker"
	DefaultJaegerEndpoint = "http://localhost:14268/api/traces"
)

// Output formats.
const (
	FormatBar      = "bar"
	FormatText     = "text"
	FormatJSON     = "json"
	FormatLog      = "log"
	FormatTemplate = "template"
	FormatNone     = "none"
)

var Formats = []string{FormatBar, FormatText, FormatJSON, FormatLog, FormatTemplate, FormatNone}

// Config captures every tasktracker setting.
type Config struct {
	Output   OutputConfig   `mapstructure:"output"`
	Throttle ThrottleConfig `mapstructure:"throttle"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Summary  SummaryConfig  `mapstructure:"summary"`
}

// OutputConfig selects and tunes the console subscriber.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	// Target is stderr, stdout or a file path.
	Target    string               `mapstructure:"target"`
	Verbosity int                  `mapstructure:"verbosity"`
	Template  subscriber.Templates `mapstructure:"template"`
	Prefix    PrefixConfig         `mapstructure:"prefix"`
}

// PrefixConfig overrides the text format line prefixes. Empty values keep
// the defaults.
type PrefixConfig struct {
	Success string `mapstructure:"success"`
	Fail    string `mapstructure:"fail"`
	Skip    string `mapstructure:"skip"`
}

// ThrottleConfig limits how often ticks reach the output. Zero disables
// throttling.
type ThrottleConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig enables the status server.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
	Task string `mapstructure:"task"`
}

type TracingConfig struct {
	JaegerEnabled  bool   `mapstructure:"jaeger_enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// SummaryConfig names a YAML file that receives the final report.
type SummaryConfig struct {
	File string `mapstructure:"file"`
}

// Load builds a Config from defaults, the config file, the environment and
// the flags of cmd, in increasing order of precedence. An empty path looks
// for tasktracker.yaml in the working directory and tolerates its absence.
// cmd may be nil.
func Load(path string, cmd *cobra.Command) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if cmd != nil {
		if err := bindFlags(v, cmd); err != nil {
			return Config{}, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.format", FormatBar)
	v.SetDefault("output.target", "stderr")
	v.SetDefault("output.verbosity", 0)
	v.SetDefault("output.template.start", subscriber.DefaultTemplates.Start)
	v.SetDefault("output.template.tick", subscriber.DefaultTemplates.Tick)
	v.SetDefault("output.template.finish", subscriber.DefaultTemplates.Finish)
	v.SetDefault("output.template.abort", subscriber.DefaultTemplates.Abort)
	v.SetDefault("output.prefix.success", "")
	v.SetDefault("output.prefix.fail", "")
	v.SetDefault("output.prefix.skip", "")
	v.SetDefault("throttle.interval", "0s")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.task", "")
	v.SetDefault("tracing.jaeger_enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", DefaultJaegerEndpoint)
	v.SetDefault("summary.file", "")
}

// Validate enforces known formats and sane limits.
func (c Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(Formats, ", "), c.Output.Format)
	}
	if c.Output.Format != FormatNone && c.Output.Target == "" {
		return fmt.Errorf("output.target must be set")
	}
	if c.Output.Verbosity < int(subscriber.Normal) || c.Output.Verbosity > int(subscriber.VeryVerbose) {
		return fmt.Errorf("output.verbosity must be between %d and %d", subscriber.Normal, subscriber.VeryVerbose)
	}
	if c.Throttle.Interval < 0 {
		return fmt.Errorf("throttle.interval must be >= 0")
	}
	if c.Tracing.JaegerEnabled && c.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint must be set when jaeger is enabled")
	}
	return nil
}
