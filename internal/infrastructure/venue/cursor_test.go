package venue

import (
	"testing"
	"time"
)

func TestCursorWindowInvariant(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	c := NewCursor(start, DealWindowStep, start.Add(100*24*time.Hour))

	for !c.Done() {
		if c.WindowEnd-c.WindowStart != DealWindowStep.Milliseconds() {
			t.Fatalf("window [%d,%d) is not one step wide", c.WindowStart, c.WindowEnd)
		}
		c = c.Advance()
	}
}

func TestCursorTerminatesAfterCeilPages(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	hardEnd := start.Add(20 * 24 * time.Hour) // ceil(20/7) = 3 pages

	c := NewCursor(start, DealWindowStep, hardEnd)
	pages := 0
	prev := c.WindowStart - 1
	for !c.Done() {
		if c.WindowStart <= prev {
			t.Fatalf("window start not strictly increasing: %d after %d", c.WindowStart, prev)
		}
		prev = c.WindowStart
		pages++
		if pages > 10 {
			t.Fatal("cursor failed to terminate")
		}
		c = c.Advance()
	}
	if pages != 3 {
		t.Errorf("expected 3 pages, got %d", pages)
	}
}

func TestCursorRestartIsIdempotent(t *testing.T) {
	start := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	hardEnd := start.Add(30 * 24 * time.Hour)

	a := NewCursor(start, DealWindowStep, hardEnd)
	b := NewCursor(start, DealWindowStep, hardEnd)
	for !a.Done() {
		if a != b {
			t.Fatalf("cursor sequences diverged: %+v vs %+v", a, b)
		}
		a, b = a.Advance(), b.Advance()
	}
	if !b.Done() {
		t.Error("rebuilt cursor did not finish in step with the first")
	}
}
