package venue

import (
	"errors"
	"fmt"
)

// Error kinds for a failed conversation. Callers classify with
// errors.Is; the concrete cause stays in the wrap chain.
var (
	// ErrConnection is a transport-level failure (dial, read, write).
	ErrConnection = errors.New("venue: connection error")
	// ErrAuth is an application or account authentication rejection.
	ErrAuth = errors.New("venue: authentication rejected")
	// ErrProtocol is a malformed message or an unexpected sequence.
	ErrProtocol = errors.New("venue: protocol error")
	// ErrPartialData is a pagination run interrupted before reaching
	// the hard end timestamp.
	ErrPartialData = errors.New("venue: partial deal history")
)

// PartialDataError wraps a failure inside the deal-history pagination
// loop. Cursor is the window that failed, so a caller-level retry can
// in principle resume instead of restarting from the epoch.
type PartialDataError struct {
	Cursor Cursor
	Err    error
}

func (e *PartialDataError) Error() string {
	return fmt.Sprintf("%v: window [%d,%d): %v", ErrPartialData, e.Cursor.WindowStart, e.Cursor.WindowEnd, e.Err)
}

func (e *PartialDataError) Unwrap() error { return e.Err }

func (e *PartialDataError) Is(target error) bool { return target == ErrPartialData }
