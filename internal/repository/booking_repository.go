package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/wmu/thats-my-spot/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides persistence for bookings and implements the
// overlap-free create protocol.  All reads are ordered by start_time
// ascending so calendar rendering is deterministic.  Timestamps are
// stored as DATETIME and assumed to share one implicit zone.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = "id, room_id, user_id, start_time, end_time, status"

// Create inserts a new ACTIVE booking, guaranteeing that at most one
// ACTIVE booking covers any instant for the room.  The check-then-insert
// pair runs in a single transaction that first locks the room row with
// SELECT ... FOR UPDATE, serializing concurrent creates per room: two
// simultaneous requests for the same room cannot both pass a stale
// overlap check.  Overlap uses half-open [start, end) semantics, so
// bookings that merely touch at an endpoint coexist.  CANCELLED rows
// never block.
//
// Returns ErrRoomNotFound when the room is absent or inactive, and
// ErrRoomUnavailable when the window overlaps an ACTIVE booking.  On
// success b.ID and b.Status are populated.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row. This is the per-room serialization point.
	var roomID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM rooms WHERE id = ? AND is_active = TRUE FOR UPDATE",
		b.RoomID).Scan(&roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoomNotFound
		}
		return err
	}

	// Overlap test against ACTIVE bookings only.  The candidates are
	// loaded and checked through Booking.Overlaps so the half-open
	// predicate has exactly one implementation.
	rows, err := tx.QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE room_id = ? AND status = ?",
		b.RoomID, model.BookingActive)
	if err != nil {
		return err
	}
	conflict := false
	for rows.Next() {
		var cur model.Booking
		if err := rows.Scan(&cur.ID, &cur.RoomID, &cur.UserID, &cur.StartTime, &cur.EndTime, &cur.Status); err != nil {
			rows.Close()
			return err
		}
		if cur.Overlaps(b.StartTime, b.EndTime) {
			conflict = true
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if conflict {
		return ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (room_id, user_id, start_time, end_time, status) VALUES (?,?,?,?,?)",
		b.RoomID, b.UserID, b.StartTime, b.EndTime, model.BookingActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.ID = uint64(id)
	b.Status = model.BookingActive
	return nil
}

// Cancel transitions a booking from ACTIVE to CANCELLED.  The operation is
// idempotent: cancelling an already-CANCELLED booking succeeds silently.
// Only a missing id is an error (ErrBookingNotFound).  Rows are never
// deleted, so a CANCELLED booking stays queryable forever.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		model.BookingCancelled, id, model.BookingActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var one int
		if err := r.db.QueryRowContext(ctx,
			"SELECT 1 FROM bookings WHERE id = ? LIMIT 1", id).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		// Row exists but was already CANCELLED; idempotent success.
	}
	return nil
}

// FindByID fetches a single booking.  Returns ErrBookingNotFound on miss.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id).
		Scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// FindByUser returns a user's bookings ordered by start_time ascending.
func (r *BookingRepo) FindByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = ? ORDER BY start_time", userID)
}

// FindByRoom returns a room's bookings ordered by start_time ascending.
func (r *BookingRepo) FindByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	return r.list(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE room_id = ? ORDER BY start_time", roomID)
}

// FindAll returns every booking ordered by start_time ascending.
func (r *BookingRepo) FindAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY start_time")
}

// FindInWindow returns the bookings whose half-open interval intersects
// [winStart, winEnd), optionally restricted to one room and/or to ACTIVE
// status.  Used by the calendar query; CANCELLED rows are included by
// default so the calendar doubles as a historical view.  The SQL window
// predicate is the push-down form of Booking.Overlaps; keep the two in
// step.
func (r *BookingRepo) FindInWindow(ctx context.Context, roomID *uint64, winStart, winEnd time.Time, activeOnly bool) ([]model.Booking, error) {
	q := "SELECT " + bookingColumns + " FROM bookings WHERE start_time < ? AND end_time > ?"
	args := []any{winEnd, winStart}
	if roomID != nil {
		q += " AND room_id = ?"
		args = append(args, *roomID)
	}
	if activeOnly {
		q += " AND status = ?"
		args = append(args, model.BookingActive)
	}
	q += " ORDER BY start_time"
	return r.list(ctx, q, args...)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.RoomID, &b.UserID, &b.StartTime, &b.EndTime, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
