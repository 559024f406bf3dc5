package ledger

import "time"

// RangesOverlap reports whether the half-open windows [s1,e1) and [s2,e2)
// intersect. Touching boundaries (e1 == s2) do not conflict, so a rental
// ending on the 31st and one starting on the 31st can coexist.
func RangesOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Window is one billboard rental period.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two windows intersect.
func (w Window) Overlaps(o Window) bool {
	return RangesOverlap(w.Start, w.End, o.Start, o.End)
}
