package tracker

import "errors"

var (
	// ErrInvalidStatus is returned when a Tick is built with a status other
	// than Success, Fail or Skip.
	ErrInvalidStatus = errors.New("invalid tick status")

	// ErrInvalidIncrement is returned when a Tick is built with a negative
	// increment.
	ErrInvalidIncrement = errors.New("invalid tick increment")

	// ErrAlreadyStarted is returned by Start on a Tracker that has left the
	// NotStarted state.
	ErrAlreadyStarted = errors.New("tracker already started")

	// ErrNotRunning is returned by Finish and Abort on a Tracker that is not
	// Running, and by Tick on a Tracker that has Finished or Aborted.
	ErrNotRunning = errors.New("tracker not running")
)
