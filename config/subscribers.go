package config

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/subscriber"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Open returns the writer named by Target. Closing stdout or stderr is a
// no-op.
func (c OutputConfig) Open() (io.WriteCloser, error) {
	switch c.Target {
	case "", "stderr":
		return nopCloser{os.Stderr}, nil
	case "stdout":
		return nopCloser{os.Stdout}, nil
	default:
		f, err := os.Create(c.Target)
		if err != nil {
			return nil, fmt.Errorf("create progress output file: %w", err)
		}
		return f, nil
	}
}

// Subscriber builds the subscriber for Format writing to w, wrapped in a
// throttle when throttle is positive. It returns nil for FormatNone.
func (c OutputConfig) Subscriber(w io.Writer, throttle ThrottleConfig) (tracker.Subscriber, error) {
	verbosity := subscriber.Verbosity(c.Verbosity)

	var s tracker.Subscriber
	switch c.Format {
	case FormatNone:
		return nil, nil
	case FormatText:
		s = subscriber.NewConsoleLog(w, verbosity, subscriber.WithPrefixes(c.Prefix.prefixes()))
	case FormatJSON:
		s = subscriber.NewJSON(w)
	case FormatLog:
		log := logrus.New()
		log.SetOutput(w)
		log.SetFormatter(&logrus.TextFormatter{})
		s = subscriber.NewLogger(log)
	case FormatTemplate:
		t, err := subscriber.NewTemplate(w, c.Template)
		if err != nil {
			return nil, err
		}
		s = t
	case FormatBar, "":
		s = subscriber.NewProgressBar(w, verbosity)
	default:
		return nil, fmt.Errorf("unknown output format %q", c.Format)
	}

	if throttle.Interval > 0 {
		s = subscriber.NewThrottled(s, throttle.Interval)
	}
	return s, nil
}

func (p PrefixConfig) prefixes() map[tracker.TickStatus]string {
	m := map[tracker.TickStatus]string{}
	if p.Success != "" {
		m[tracker.Success] = p.Success
	}
	if p.Fail != "" {
		m[tracker.Fail] = p.Fail
	}
	if p.Skip != "" {
		m[tracker.Skip] = p.Skip
	}
	return m
}
