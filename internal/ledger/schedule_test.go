package ledger

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestRangesOverlap(t *testing.T) {
	cases := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", day(1), day(31), day(1), day(31), true},
		{"contained", day(1), day(31), day(10), day(20), true},
		{"partial left", day(1), day(15), day(10), day(25), true},
		{"partial right", day(10), day(25), day(1), day(15), true},
		{"disjoint", day(1), day(10), day(20), day(30), false},
		{"touching boundary", day(1), day(15), day(15), day(30), false},
		{"touching boundary reversed", day(15), day(30), day(1), day(15), false},
		{"one day inside", day(1), day(31), day(14), day(15), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RangesOverlap(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Fatalf("RangesOverlap(%v,%v,%v,%v) = %v, want %v", tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
			}
			// Overlap is symmetric
			if got := RangesOverlap(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
				t.Fatalf("overlap not symmetric for %s", tc.name)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	w := Window{Start: day(1), End: day(31)}
	if !w.Overlaps(Window{Start: day(15), End: day(45)}) {
		t.Fatal("expected overlap")
	}
	if w.Overlaps(Window{Start: day(31), End: day(45)}) {
		t.Fatal("touching windows must not overlap")
	}
}
