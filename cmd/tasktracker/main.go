package main

import (
	"context"
	"os"
	"os/signal"

	logrusr "github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/konveyor/tasktracker/config"
)

var (
	configFile string
	logLevel   int
	cfg        config.Config
)

func RootCmd() *cobra.Command {
	var errLog logr.Logger

	rootCmd := &cobra.Command{
		Use:   "tasktracker",
		Short: "Track and report the progress of line oriented batch work",
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			logrusErrLog := logrus.New()
			logrusErrLog.SetOutput(os.Stderr)
			errLog = logrusr.New(logrusErrLog)

			var err error
			cfg, err = config.Load(configFile, c)
			if err != nil {
				errLog.Error(err, "failed to load configuration")
				return err
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a tasktracker config file, defaults to ./tasktracker.yaml when present")
	rootCmd.PersistentFlags().IntVar(&logLevel, "verbose", 0, "level for logging output")
	config.AddFlags(rootCmd)

	run := func(name string, total int, work workFunc) {
		log := newLogger()
		// This will globally prevent the yaml library from auto-wrapping lines at 80 characters
		yaml.FutureLineWrap()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		// Restore default signal handling so a second interrupt kills the process.
		go func() {
			<-ctx.Done()
			stop()
		}()

		if err := runTask(ctx, cfg, log, name, total, work); err != nil {
			errLog.Error(err, "task failed", "task", name)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(TrackCmd(run), DemoCmd(run))
	return rootCmd
}

func newLogger() logr.Logger {
	logrusLog := logrus.New()
	logrusLog.SetOutput(os.Stderr)
	logrusLog.SetFormatter(&logrus.TextFormatter{})
	// Adding 5 here to move logs to info level
	// setting verbose 1 -> V(2) logs show up
	// setting verbose 2 -> V(3) logs show up, tracker lifecycle
	// setting verbose 4 -> V(5) logs show up, every tick
	logrusLog.SetLevel(logrus.Level(logLevel + 5))
	return logrusr.New(logrusLog)
}

func main() {
	if err := RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
