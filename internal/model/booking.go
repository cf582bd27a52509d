package model

import "time"

// Booking statuses.  A booking is created ACTIVE and may transition
// exactly once to CANCELLED; there is no transition out of CANCELLED
// and rows are never hard deleted.
const (
    BookingActive    = "ACTIVE"
    BookingCancelled = "CANCELLED"
)

// Booking records a user's reservation of a room for a time window.
// Intervals are half-open: [StartTime, EndTime).  Two bookings that
// merely touch at an endpoint do not overlap, so back-to-back
// reservations of the same room are allowed.
//
// Fields:
//  ID        – primary key identifier.
//  RoomID    – room being reserved (required, must exist).
//  UserID    – user who made the booking (required, must exist).
//  StartTime – start of the reserved window.
//  EndTime   – end of the reserved window; must be after StartTime.
//  Status    – ACTIVE or CANCELLED.
type Booking struct {
    ID        uint64    `json:"id"`        // bookings.id
    RoomID    uint64    `json:"roomId"`    // bookings.room_id
    UserID    uint64    `json:"userId"`    // bookings.user_id
    StartTime time.Time `json:"startTime"` // bookings.start_time
    EndTime   time.Time `json:"endTime"`   // bookings.end_time
    Status    string    `json:"status"`    // bookings.status
}

// Overlaps reports whether the half-open interval [b.StartTime, b.EndTime)
// intersects [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
    return b.StartTime.Before(end) && start.Before(b.EndTime)
}
