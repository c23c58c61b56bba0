package remix

import "testing"

func TestInterval_Overlaps(t *testing.T) {
	tests := []struct {
		a, b Interval
		want bool
	}{
		{Interval{0, 10}, Interval{5, 15}, true},
		{Interval{5, 15}, Interval{0, 10}, true},
		{Interval{0, 10}, Interval{10, 20}, false},
		{Interval{10, 20}, Interval{0, 10}, false},
		{Interval{0, 30}, Interval{10, 20}, true},
		{Interval{0, 5}, Interval{6, 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+" "+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestInterval_Valid(t *testing.T) {
	if !(Interval{0, 1}).Valid() {
		t.Error("expected [0,1) to be valid")
	}
	if (Interval{1, 1}).Valid() {
		t.Error("expected empty interval to be invalid")
	}
	if (Interval{-1, 1}).Valid() {
		t.Error("expected negative start to be invalid")
	}
}
