package model

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2026, time.March, 10, h, m, 0, 0, time.UTC)
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{StartTime: at(10, 0), EndTime: at(11, 0)}

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical window", at(10, 0), at(11, 0), true},
		{"contained inside", at(10, 15), at(10, 45), true},
		{"straddles start", at(9, 30), at(10, 30), true},
		{"straddles end", at(10, 30), at(11, 30), true},
		{"covers entirely", at(9, 0), at(12, 0), true},
		{"ends exactly at start", at(9, 0), at(10, 0), false},
		{"starts exactly at end", at(11, 0), at(12, 0), false},
		{"well before", at(8, 0), at(9, 0), false},
		{"well after", at(12, 0), at(13, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Overlaps(tc.start, tc.end); got != tc.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
