package remix

import "fmt"

// Interval is a half-open time range [Start, End) in seconds
type Interval struct {
	Start float64
	End   float64
}

// Length returns End - Start
func (i Interval) Length() float64 {
	return i.End - i.Start
}

// Overlaps reports whether the two half-open ranges share any instant.
// Ranges that only touch at an endpoint do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Valid reports whether 0 <= Start < End
func (i Interval) Valid() bool {
	return i.Start >= 0 && i.Start < i.End
}

// String returns the interval as [HH:MM:SS.mmm, HH:MM:SS.mmm)
func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", FormatSeconds(i.Start), FormatSeconds(i.End))
}
