package subscriber

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/konveyor/tasktracker/tracker"
)

// Logger forwards tracker events to a logrus logger. Every entry carries the
// report fields and the tracker ID. Failed ticks and aborts are logged as
// warnings, everything else as info.
type Logger struct {
	log logrus.FieldLogger
}

// NewLogger creates a Logger writing to log.
func NewLogger(log logrus.FieldLogger) *Logger {
	return &Logger{log: log}
}

// FieldLogger returns the underlying logger.
func (l *Logger) FieldLogger() logrus.FieldLogger {
	return l.log
}

func (l *Logger) OnStart(tick *tracker.Tick) error {
	l.entry(tick).Info(orDefault(tick.Message(), "Started"))
	return nil
}

func (l *Logger) OnTick(tick *tracker.Tick) error {
	msg := fmt.Sprintf("%s %s", progressCount(tick.Report()), orDefault(tick.Message(), "Tick"))
	if tick.Status() == tracker.Fail {
		l.entry(tick).Warn(msg)
	} else {
		l.entry(tick).Info(msg)
	}
	return nil
}

func (l *Logger) OnFinish(tick *tracker.Tick) error {
	l.entry(tick).Info(orDefault(tick.Message(), "Finished"))
	return nil
}

func (l *Logger) OnAbort(tick *tracker.Tick) error {
	l.entry(tick).Warn(orDefault(tick.Message(), "Aborted"))
	return nil
}

func (l *Logger) entry(tick *tracker.Tick) *logrus.Entry {
	report := tick.Report()
	fields := logrus.Fields(report.Fields())
	fields["tracker"] = report.TrackerID().String()
	return l.log.WithFields(fields)
}
