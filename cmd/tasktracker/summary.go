package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/konveyor/tasktracker/tracker"
	"github.com/konveyor/tasktracker/tracker/subscriber"
)

type summary struct {
	Task      string           `yaml:"task"`
	TrackerID string           `yaml:"trackerId"`
	Result    string           `yaml:"result"`
	Report    tracker.Snapshot `yaml:"report"`
}

func resultOf(event tracker.Event) string {
	switch event {
	case tracker.EventFinish:
		return tracker.Finished.String()
	case tracker.EventAbort:
		return tracker.Aborted.String()
	default:
		return tracker.Running.String()
	}
}

func writeSummary(path, task string, n subscriber.Notification) error {
	b, err := yaml.Marshal(summary{
		Task:      task,
		TrackerID: n.TrackerID.String(),
		Result:    resultOf(n.Event),
		Report:    n.Snapshot,
	})
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
