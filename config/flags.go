package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"output-format":    "output.format",
	"output-target":    "output.target",
	"output-verbosity": "output.verbosity",
	"throttle":         "throttle.interval",
	"metrics-addr":     "metrics.addr",
	"metrics-task":     "metrics.task",
	"enable-jaeger":    "tracing.jaeger_enabled",
	"jaeger-endpoint":  "tracing.jaeger_endpoint",
	"summary-file":     "summary.file",
}

// AddFlags registers the config flags as persistent flags of cmd.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("output-format", FormatBar, "format for progress output: bar, text, json, log, template or none")
	flags.String("output-target", "stderr", "where to write progress output (stderr, stdout, or file path)")
	flags.Int("output-verbosity", 0, "progress output detail, 0 to 2")
	flags.Duration("throttle", 0, "minimum interval between rendered ticks, 0 renders every tick")
	flags.String("metrics-addr", "", "address for the /metrics, /report and /healthz server, empty disables it")
	flags.String("metrics-task", "", "value of the task label on exported metrics")
	flags.Bool("enable-jaeger", false, "enable tracer exports to jaeger endpoint")
	flags.String("jaeger-endpoint", DefaultJaegerEndpoint, "jaeger endpoint to collect tracing data")
	flags.String("summary-file", "", "path of a YAML file that receives the final report")
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
