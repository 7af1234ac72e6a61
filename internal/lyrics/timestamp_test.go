package lyrics

import "testing"

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"00:01:30,500", 90.5},
		{"00:00:00,000", 0},
		{"01:02:03,004", 3723.004},
		{"10:00:00,999", 36000.999},
		{"00:00:05,250 extra", 5.25},
		{"00:01:30.500", 0},
		{"0:01:30,500", 0},
		{"00:01:30", 0},
		{"", 0},
		{"garbage", 0},
		{" 00:01:30,500", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseTimestamp(tt.input); got != tt.want {
				t.Fatalf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
