package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSubmitter is returned when Render reaches Submit without a
	// submission handler.
	ErrNoSubmitter = errors.New("tui: submit handler is nil")
	// ErrUnknownChoice is returned when the driver answers a menu with an
	// index outside its options.
	ErrUnknownChoice = errors.New("tui: unknown menu choice")
)
