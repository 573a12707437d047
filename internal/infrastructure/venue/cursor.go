package venue

import "time"

// Cursor bounds one deal-history page by a [WindowStart, WindowEnd)
// unix-millisecond window. WindowEnd is always WindowStart + Step;
// Advance slides the window forward by Step and pagination is done once
// WindowStart passes HardEnd. Rebuilding a cursor from the same inputs
// yields the same window sequence, so an interrupted run can be retried
// idempotently.
type Cursor struct {
	WindowStart int64
	WindowEnd   int64
	Step        time.Duration
	HardEnd     int64
}

func NewCursor(start time.Time, step time.Duration, hardEnd time.Time) Cursor {
	s := start.UnixMilli()
	return Cursor{
		WindowStart: s,
		WindowEnd:   s + step.Milliseconds(),
		Step:        step,
		HardEnd:     hardEnd.UnixMilli(),
	}
}

func (c Cursor) Done() bool {
	return c.WindowStart > c.HardEnd
}

func (c Cursor) Advance() Cursor {
	c.WindowStart += c.Step.Milliseconds()
	c.WindowEnd = c.WindowStart + c.Step.Milliseconds()
	return c
}
