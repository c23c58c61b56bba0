package remix

import (
	"strings"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
		errMsg  string
	}{
		{
			name:  "full timestamp",
			input: "01:30:45",
			want:  Timestamp{Hours: 1, Minutes: 30, Seconds: 45},
		},
		{
			name:  "minutes and seconds only",
			input: "02:05",
			want:  Timestamp{Minutes: 2, Seconds: 5},
		},
		{
			name:  "fraction is padded to milliseconds",
			input: "00:00:01.5",
			want:  Timestamp{Seconds: 1, Millis: 500},
		},
		{
			name:  "full milliseconds",
			input: "00:10:00.125",
			want:  Timestamp{Minutes: 10, Millis: 125},
		},
		{
			name:    "minutes too high",
			input:   "01:60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high",
			input:   "01:30:60",
			wantErr: true,
			errMsg:  "seconds must be 0-59",
		},
		{
			name:    "wrong separator",
			input:   "01-30-45",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got nil", tt.input)
					return
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseTimestamp(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00.000"},
		{1.5, "00:00:01.500"},
		{61.25, "00:01:01.250"},
		{3725.0004, "01:02:05.000"},
		{-3, "00:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.seconds); got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{"12.5", 12.5, false},
		{" 60 ", 60, false},
		{"00:01:30", 90, false},
		{"1:00", 60, false},
		{"", 0, true},
		{"ten", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSeconds(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSeconds(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeconds(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSeconds(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimestamp_TotalSeconds(t *testing.T) {
	ts := Timestamp{Hours: 1, Minutes: 30, Seconds: 45, Millis: 250}
	if got := ts.TotalSeconds(); got != 5445.25 {
		t.Errorf("TotalSeconds() = %v, want 5445.25", got)
	}
}
