package handler

import (
	"testing"
	"time"

	"github.com/wmu/thats-my-spot/internal/model"
)

func mustWire(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := parseWireTime(s)
	if err != nil {
		t.Fatalf("parseWireTime(%q): %v", s, err)
	}
	return ts
}

func TestCalendarEventsFrom(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, RoomID: 10, UserID: 7, StartTime: mustWire(t, "2026-03-10T09:00:00"), EndTime: mustWire(t, "2026-03-10T10:00:00"), Status: model.BookingActive},
		{ID: 2, RoomID: 11, UserID: 8, StartTime: mustWire(t, "2026-03-10T10:00:00"), EndTime: mustWire(t, "2026-03-10T11:30:00"), Status: model.BookingCancelled},
	}
	names := map[uint64]string{10: "War Room", 11: "Fishbowl"}

	events := calendarEventsFrom(bookings, names)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first := events[0]
	if first.Title != "War Room (Booked)" {
		t.Errorf("title = %q, want %q", first.Title, "War Room (Booked)")
	}
	if first.Start != "2026-03-10T09:00:00" || first.End != "2026-03-10T10:00:00" {
		t.Errorf("window = %q..%q, want wire-format bounds", first.Start, first.End)
	}
	if first.RoomID != 10 || first.UserID != 7 || first.ID != 1 {
		t.Errorf("identifiers not carried through: %+v", first)
	}

	// Cancelled bookings are projected like any other row.
	if events[1].Title != "Fishbowl (Booked)" {
		t.Errorf("cancelled booking title = %q", events[1].Title)
	}
}

func TestCalendarEventsFromPreservesOrder(t *testing.T) {
	bookings := []model.Booking{
		{ID: 3, RoomID: 10, StartTime: mustWire(t, "2026-03-10T08:00:00"), EndTime: mustWire(t, "2026-03-10T09:00:00")},
		{ID: 1, RoomID: 10, StartTime: mustWire(t, "2026-03-10T09:00:00"), EndTime: mustWire(t, "2026-03-10T10:00:00")},
		{ID: 2, RoomID: 10, StartTime: mustWire(t, "2026-03-10T13:00:00"), EndTime: mustWire(t, "2026-03-10T14:00:00")},
	}
	events := calendarEventsFrom(bookings, map[uint64]string{10: "War Room"})
	for i := 1; i < len(events); i++ {
		if events[i-1].Start > events[i].Start {
			t.Errorf("events out of order at %d: %q after %q", i, events[i].Start, events[i-1].Start)
		}
	}
	if events[0].ID != 3 {
		t.Errorf("input order not preserved, first id = %d", events[0].ID)
	}
}

func TestCalendarEventsFromUnknownRoom(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, RoomID: 99, StartTime: mustWire(t, "2026-03-10T09:00:00"), EndTime: mustWire(t, "2026-03-10T10:00:00")},
	}
	events := calendarEventsFrom(bookings, map[uint64]string{})
	if len(events) != 1 {
		t.Fatalf("booking with unknown room dropped")
	}
	if events[0].Title != " (Booked)" {
		t.Errorf("title = %q", events[0].Title)
	}
}

func TestCalendarEventsFromEmpty(t *testing.T) {
	events := calendarEventsFrom(nil, nil)
	if events == nil || len(events) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", events)
	}
}
