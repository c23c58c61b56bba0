package remix

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Timestamp is a position in a video with millisecond precision
type Timestamp struct {
	Hours   int
	Minutes int
	Seconds int
	Millis  int
}

// timestampRegex matches [H:]MM:SS[.mmm]
var timestampRegex = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?$`)

// ParseTimestamp parses a timestamp in HH:MM:SS, MM:SS or either with a .mmm fraction
func ParseTimestamp(s string) (Timestamp, error) {
	matches := timestampRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp format %q: expected HH:MM:SS[.mmm]", s)
	}

	hours := 0
	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	millis := 0
	if frac := matches[4]; frac != "" {
		frac += strings.Repeat("0", 3-len(frac))
		millis, _ = strconv.Atoi(frac)
	}

	if minutes > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: minutes must be 0-59", s)
	}
	if seconds > 59 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: seconds must be 0-59", s)
	}

	return Timestamp{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
		Millis:  millis,
	}, nil
}

// TimestampFromSeconds converts seconds to a Timestamp, rounding to the millisecond.
// Negative values clamp to zero.
func TimestampFromSeconds(sec float64) Timestamp {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	total := int64(math.Round(sec * 1000))
	return Timestamp{
		Hours:   int(total / 3_600_000),
		Minutes: int(total / 60_000 % 60),
		Seconds: int(total / 1000 % 60),
		Millis:  int(total % 1000),
	}
}

// String returns the timestamp in HH:MM:SS.mmm format
func (t Timestamp) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hours, t.Minutes, t.Seconds, t.Millis)
}

// TotalSeconds returns the timestamp as seconds
func (t Timestamp) TotalSeconds() float64 {
	return float64(t.Hours*3600+t.Minutes*60+t.Seconds) + float64(t.Millis)/1000
}

// FormatSeconds renders seconds as HH:MM:SS.mmm
func FormatSeconds(sec float64) string {
	return TimestampFromSeconds(sec).String()
}

// ParseSeconds accepts either a plain number of seconds ("12.5") or a timestamp ("00:01:30")
func ParseSeconds(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return v, nil
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: expected seconds or HH:MM:SS", s)
	}
	return ts.TotalSeconds(), nil
}
