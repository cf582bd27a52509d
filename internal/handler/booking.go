package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wmu/thats-my-spot/internal/model"
	"github.com/wmu/thats-my-spot/internal/notifier"
	"github.com/wmu/thats-my-spot/internal/queue"
	"github.com/wmu/thats-my-spot/internal/repository"
	queue_publisher "github.com/wmu/thats-my-spot/internal/service"
)

// BookingHandler fronts the reservation engine: create, cancel and list
// bookings, and project them onto the calendar.  Create goes through
// BookingRepo.Create, which is where the no-overlap guarantee lives; this
// layer only validates input, shapes JSON and fires the post-commit
// confirmation.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Rooms    *repository.RoomRepo
	Users    *repository.UserRepo
	Mailer   *notifier.Mailer

	// publish delivers the post-commit event; nil means the default
	// broker publisher.  Tests substitute their own.
	publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

func NewBookingHandler(b *repository.BookingRepo, r *repository.RoomRepo, u *repository.UserRepo, m *notifier.Mailer) *BookingHandler {
	return &BookingHandler{
		Bookings: b,
		Rooms:    r,
		Users:    u,
		Mailer:   m,
		publish:  queue_publisher.PublishBookingConfirmed,
	}
}

// roomUnavailableMsg is the exact message clients match on when a window
// collides with an existing ACTIVE booking.
const roomUnavailableMsg = "Room is already booked for this time."

// createBookingReq is the legacy create body, shaped like a Booking.
// userId may be omitted; the authenticated principal is used instead.
type createBookingReq struct {
	RoomID    uint64 `json:"roomId"`
	UserID    uint64 `json:"userId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// calendarCreateReq is the calendar UI's create body: same semantics,
// shorter time field names.
type calendarCreateReq struct {
	RoomID uint64 `json:"roomId"`
	UserID uint64 `json:"userId"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// bookingResp renders a booking with wire-format timestamps.  time.Time's
// own JSON form carries a zone offset, which the calendar clients do not
// expect.
type bookingResp struct {
	ID        uint64 `json:"id"`
	RoomID    uint64 `json:"roomId"`
	UserID    uint64 `json:"userId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		StartTime: formatWireTime(b.StartTime),
		EndTime:   formatWireTime(b.EndTime),
		Status:    b.Status,
	}
}

// calendarEvent is one entry of the calendar feed, shaped for direct
// consumption by FullCalendar-style clients.
type calendarEvent struct {
	ID     uint64 `json:"id"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	RoomID uint64 `json:"roomId"`
	UserID uint64 `json:"userId"`
}

// calendarEventsFrom projects bookings onto calendar events.  Input order
// is preserved, so callers passing start_time-ordered rows get an ordered
// feed.  A booking whose room is missing from roomNames gets an empty
// room name rather than being dropped.
func calendarEventsFrom(bookings []model.Booking, roomNames map[uint64]string) []calendarEvent {
	events := make([]calendarEvent, 0, len(bookings))
	for _, b := range bookings {
		events = append(events, calendarEvent{
			ID:     b.ID,
			Title:  roomNames[b.RoomID] + " (Booked)",
			Start:  formatWireTime(b.StartTime),
			End:    formatWireTime(b.EndTime),
			RoomID: b.RoomID,
			UserID: b.UserID,
		})
	}
	return events
}

// Create handles POST /api/bookings, the legacy create path.  It returns
// the persisted booking; the calendar route returns a success envelope.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.create(c, req.RoomID, req.UserID, req.StartTime, req.EndTime, func(b model.Booking) error {
		return c.JSON(http.StatusOK, toBookingResp(b))
	})
}

// CreateFromCalendar handles POST /api/bookings/calendar, the calendar
// UI's submit path.  Same semantics as Create; the body shape and the
// success response differ.
func (h *BookingHandler) CreateFromCalendar(c echo.Context) error {
	var req calendarCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.create(c, req.RoomID, req.UserID, req.Start, req.End, func(b model.Booking) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "bookingId": b.ID})
	})
}

func (h *BookingHandler) create(c echo.Context, roomID, bodyUserID uint64, rawStart, rawEnd string, respond func(b model.Booking) error) error {
	if roomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "roomId is required"})
	}
	start, err := parseWireTime(rawStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start time"})
	}
	end, err := parseWireTime(rawEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end time"})
	}
	if !start.Before(end) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end time must be after start time"})
	}

	// The body may name the booking user; otherwise it is the caller.
	// Booking on someone else's behalf is an admin action.
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if bodyUserID != 0 && bodyUserID != userID {
		if c.Get("role") != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
		}
		userID = bodyUserID
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	b := &model.Booking{RoomID: roomID, UserID: userID, StartTime: start, EndTime: end}
	if err := h.Bookings.Create(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrRoomNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "room does not exist or is not active"})
		case errors.Is(err, repository.ErrRoomUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": roomUnavailableMsg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}

	h.dispatchConfirmation(ctx, *b, u.Email)
	return respond(*b)
}

// dispatchConfirmation fires the booking.confirmed notification after the
// booking is committed.  Runs in a goroutine detached from the request
// context; a dead broker falls back to sending the email directly, and
// every failure is logged and swallowed so the committed booking always
// reaches the client.
func (h *BookingHandler) dispatchConfirmation(ctx context.Context, b model.Booking, email string) {
	roomName := ""
	if rm, err := h.Rooms.GetByID(ctx, b.RoomID); err == nil {
		roomName = rm.Name
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		RoomID:      b.RoomID,
		RoomName:    roomName,
		UserID:      b.UserID,
		UserEmail:   email,
		StartTime:   formatWireTime(b.StartTime),
		EndTime:     formatWireTime(b.EndTime),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	pub := h.publish
	if pub == nil {
		pub = queue_publisher.PublishBookingConfirmed
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pub(pubCtx, ev); err == nil {
			return
		}
		if h.Mailer != nil && h.Mailer.Enabled() {
			if err := h.Mailer.SendBookingConfirmation(ev); err != nil {
				log.Printf("warn: confirmation email for booking %d failed: %v", ev.BookingID, err)
			}
			return
		}
		log.Printf("warn: confirmation for booking %d dropped: broker unreachable and mail disabled", ev.BookingID)
	}()
}

// List handles GET /api/bookings.  A userId query parameter narrows the
// result; without one the caller's own bookings are returned.  Only an
// ADMIN may read another user's bookings.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if raw := c.QueryParam("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid userId"})
		}
		if id != userID && c.Get("role") != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
		}
		userID = id
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Bookings.FindByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]bookingResp, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, out)
}

// Cancel handles DELETE /api/bookings/:id.  Cancelling twice succeeds both
// times; only an id that never existed is a 404.  A USER may cancel only
// their own bookings; an ADMIN may cancel any.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if b.UserID != userID && c.Get("role") != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": repository.ErrForbidden.Error()})
	}

	if err := h.Bookings.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Calendar handles GET /api/bookings/calendar.  Query parameters:
//
//	roomId     optional; restrict to one room
//	start, end optional window bounds in wire time format; a missing
//	           bound defaults to one year around now
//	activeOnly "true" drops CANCELLED bookings from the feed
//
// CANCELLED bookings appear by default so the calendar doubles as a
// history view.  Events come back ordered by start ascending.
func (h *BookingHandler) Calendar(c echo.Context) error {
	var roomID *uint64
	if raw := c.QueryParam("roomId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roomId"})
		}
		roomID = &id
	}

	now := time.Now().UTC()
	winStart := now.AddDate(-1, 0, 0)
	winEnd := now.AddDate(1, 0, 0)
	if raw := c.QueryParam("start"); raw != "" {
		t, err := parseWireTime(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
		}
		winStart = t
	}
	if raw := c.QueryParam("end"); raw != "" {
		t, err := parseWireTime(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
		}
		winEnd = t
	}
	if !winStart.Before(winEnd) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be after start"})
	}
	activeOnly := c.QueryParam("activeOnly") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	bookings, err := h.Bookings.FindInWindow(ctx, roomID, winStart, winEnd, activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	rooms, err := h.Rooms.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	names := make(map[uint64]string, len(rooms))
	for _, rm := range rooms {
		names[rm.ID] = rm.Name
	}

	return c.JSON(http.StatusOK, calendarEventsFrom(bookings, names))
}
