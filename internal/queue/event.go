// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking has been durably
// committed.  It carries everything the mail consumer needs to build the
// confirmation message without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64 `json:"booking_id"`
    RoomID      uint64 `json:"room_id"`
    RoomName    string `json:"room_name"`
    UserID      uint64 `json:"user_id"`
    UserEmail   string `json:"user_email"`
    StartTime   string `json:"start_time"`
    EndTime     string `json:"end_time"`
    ConfirmedAt string `json:"confirmed_at"`
}
