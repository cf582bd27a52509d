package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// postJSON runs fn against a synthetic POST request and returns the recorder.
// userID < 0 leaves the auth context empty.
func postJSON(t *testing.T, body string, userID int, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID >= 0 {
		c.Set("user_id", float64(userID))
	}
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func errField(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	msg, _ := body["error"].(string)
	return msg
}

// These paths reject before any repository call, so a zero handler is safe.

func TestBookingCreateInputValidation(t *testing.T) {
	h := &BookingHandler{}
	cases := []struct {
		name    string
		body    string
		userID  int
		want    int
		wantMsg string
	}{
		{"malformed json", `{`, 7, http.StatusBadRequest, ""},
		{"missing room", `{"startTime":"2026-03-10T09:00","endTime":"2026-03-10T10:00"}`, 7, http.StatusBadRequest, "roomId is required"},
		{"bad start", `{"roomId":1,"startTime":"tomorrow","endTime":"2026-03-10T10:00"}`, 7, http.StatusBadRequest, "invalid start time"},
		{"bad end", `{"roomId":1,"startTime":"2026-03-10T09:00","endTime":""}`, 7, http.StatusBadRequest, "invalid end time"},
		{"zero-length window", `{"roomId":1,"startTime":"2026-03-10T09:00","endTime":"2026-03-10T09:00"}`, 7, http.StatusBadRequest, "end time must be after start time"},
		{"inverted window", `{"roomId":1,"startTime":"2026-03-10T10:00","endTime":"2026-03-10T09:00"}`, 7, http.StatusBadRequest, "end time must be after start time"},
		{"no principal", `{"roomId":1,"startTime":"2026-03-10T09:00","endTime":"2026-03-10T10:00"}`, -1, http.StatusUnauthorized, "unauthorized"},
		{"booking for someone else as plain user", `{"roomId":1,"userId":99,"startTime":"2026-03-10T09:00","endTime":"2026-03-10T10:00"}`, 7, http.StatusForbidden, "forbidden"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, tc.body, tc.userID, h.Create)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.wantMsg != "" {
				if got := errField(t, rec); got != tc.wantMsg {
					t.Errorf("error = %q, want %q", got, tc.wantMsg)
				}
			}
		})
	}
}

func TestCalendarCreateShortFieldNames(t *testing.T) {
	h := &BookingHandler{}
	rec := postJSON(t, `{"roomId":1,"start":"2026-03-10T10:00","end":"2026-03-10T09:00"}`, 7, h.CreateFromCalendar)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errField(t, rec); got != "end time must be after start time" {
		t.Errorf("error = %q", got)
	}
}

func TestRoomReqValidate(t *testing.T) {
	cases := []struct {
		name string
		req  roomReq
		want string
	}{
		{"valid", roomReq{Name: "War Room", BuildingID: 1, Capacity: 4}, ""},
		{"valid with features", roomReq{Name: "War Room", BuildingID: 1, Capacity: 4, Features: json.RawMessage(`{"tv":true}`)}, ""},
		{"blank name", roomReq{Name: "  ", BuildingID: 1, Capacity: 4}, "name is required"},
		{"no building", roomReq{Name: "War Room", Capacity: 4}, "buildingId is required"},
		{"zero capacity", roomReq{Name: "War Room", BuildingID: 1, Capacity: 0}, "capacity must be at least 1"},
		{"negative capacity", roomReq{Name: "War Room", BuildingID: 1, Capacity: -3}, "capacity must be at least 1"},
		{"broken features", roomReq{Name: "War Room", BuildingID: 1, Capacity: 4, Features: json.RawMessage(`{nope`)}, "features must be valid JSON"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			if got := req.validate(); got != tc.want {
				t.Errorf("validate() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBookingListForeignUserForbidden(t *testing.T) {
	h := &BookingHandler{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings?userId=99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(7))
	c.Set("role", "USER")
	if err := h.List(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestBuildingCreateRejectsEmptyName(t *testing.T) {
	h := &BuildingHandler{}
	rec := postJSON(t, `{"name":"   "}`, 7, h.Create)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := errField(t, rec); got != "name is required" {
		t.Errorf("error = %q", got)
	}
}
