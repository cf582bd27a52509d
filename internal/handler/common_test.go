package handler

import (
	"testing"
	"time"
)

func TestParseWireTime(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"full seconds form", "2026-03-10T09:30:00", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), false},
		{"minutes form", "2026-03-10T09:30", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), false},
		{"surrounding whitespace", " 2026-03-10T09:30:00 ", time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), false},
		{"date only", "2026-03-10", time.Time{}, true},
		{"zone offset rejected", "2026-03-10T09:30:00+02:00", time.Time{}, true},
		{"garbage", "next tuesday", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseWireTime(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseWireTime(%q) succeeded, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseWireTime(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("parseWireTime(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatWireTimeAlwaysCarriesSeconds(t *testing.T) {
	in := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	if got := formatWireTime(in); got != "2026-03-10T09:30:00" {
		t.Errorf("formatWireTime = %q, want %q", got, "2026-03-10T09:30:00")
	}
}

func TestWireTimeRoundTrip(t *testing.T) {
	in := "2026-03-10T14:00:00"
	parsed, err := parseWireTime(in)
	if err != nil {
		t.Fatalf("parseWireTime: %v", err)
	}
	if out := formatWireTime(parsed); out != in {
		t.Errorf("round trip changed value: %q -> %q", in, out)
	}
}
