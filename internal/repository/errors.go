// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrRoomUnavailable indicates that a booking cannot be
// created because the room already has an active booking over the
// requested window, while ErrConflict signals a uniqueness violation
// such as a duplicate room name within a building.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// they are not authorized for. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as creating a
// room whose (name, building) pair already exists. Handlers
// translate this into an HTTP 400 with a readable message.
var ErrConflict = errors.New("conflict")

// ErrRoomUnavailable is returned by the booking repository when the
// requested window overlaps an existing ACTIVE booking for the room.
var ErrRoomUnavailable = errors.New("room unavailable")
