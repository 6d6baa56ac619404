package datefmt

import (
	"testing"
	"time"
)

func fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

func TestTodayZeroPads(t *testing.T) {
	f := New(fixed(time.Date(2026, 3, 7, 0, 0, 0, 0, time.Local)))
	got := f.Today()
	if got != "2026-03-07" {
		t.Fatalf("expected 2026-03-07, got %q", got)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 characters, got %d", len(got))
	}
}

func TestNowZeroPads(t *testing.T) {
	f := New(fixed(time.Date(2026, 3, 7, 4, 5, 9, 0, time.Local)))
	got := f.Now()
	if got != "2026-03-07 04:05:09" {
		t.Fatalf("expected 2026-03-07 04:05:09, got %q", got)
	}
	if len(got) != 19 {
		t.Fatalf("expected 19 characters, got %d", len(got))
	}
}

func TestNilClockUsesWallClock(t *testing.T) {
	f := New(nil)
	if len(f.Today()) != 10 {
		t.Fatalf("expected YYYY-MM-DD from wall clock")
	}
	if len(f.Now()) != 19 {
		t.Fatalf("expected YYYY-MM-DD HH:MM:SS from wall clock")
	}
}
