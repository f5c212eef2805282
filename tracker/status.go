package tracker

import "fmt"

// TickStatus is the outcome of the item or items a Tick represents.
type TickStatus int

const (
	// Skip marks items that were deliberately not processed.
	Skip TickStatus = -1
	// Fail marks items that failed to process.
	Fail TickStatus = 0
	// Success marks items that processed successfully.
	Success TickStatus = 1
)

// TickStatuses lists every valid TickStatus.
var TickStatuses = []TickStatus{Success, Fail, Skip}

// Valid reports whether s is one of Success, Fail or Skip.
func (s TickStatus) Valid() bool {
	switch s {
	case Success, Fail, Skip:
		return true
	}
	return false
}

func (s TickStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Fail:
		return "fail"
	case Skip:
		return "skip"
	}
	return fmt.Sprintf("TickStatus(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s TickStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name produced by MarshalText.
func (s *TickStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*s = Success
	case "fail":
		*s = Fail
	case "skip":
		*s = Skip
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(text))
	}
	return nil
}

// Status is the lifecycle state of a Tracker.
//
// Transitions only move forward:
//
//	NotStarted -> Running -> Finished
//	                      -> Aborted
type Status int

const (
	NotStarted Status = iota
	Running
	Finished
	Aborted
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Unknown is the total item count of an open-ended task.
const Unknown = -1
