package queue

import (
	"errors"
	"testing"
)

type stubSender struct {
	got []BookingConfirmedEvent
	err error
}

func (s *stubSender) SendBookingConfirmation(ev BookingConfirmedEvent) error {
	s.got = append(s.got, ev)
	return s.err
}

func TestHandleMessage(t *testing.T) {
	body := []byte(`{"booking_id":12,"room_id":3,"room_name":"War Room","user_id":7,` +
		`"user_email":"alice@example.com","start_time":"2026-03-10T09:00:00","end_time":"2026-03-10T10:00:00"}`)

	s := &stubSender{}
	if err := handleMessage(body, s); err != nil {
		t.Fatalf("handleMessage: %v", err)
	}
	if len(s.got) != 1 {
		t.Fatalf("sender called %d times, want 1", len(s.got))
	}
	ev := s.got[0]
	if ev.BookingID != 12 || ev.RoomName != "War Room" || ev.UserEmail != "alice@example.com" {
		t.Errorf("decoded event mismatch: %+v", ev)
	}
}

func TestHandleMessageBadJSON(t *testing.T) {
	s := &stubSender{}
	if err := handleMessage([]byte("not json"), s); err == nil {
		t.Error("garbage payload accepted")
	}
	if len(s.got) != 0 {
		t.Error("sender invoked for undecodable payload")
	}
}

func TestHandleMessageSendFailure(t *testing.T) {
	s := &stubSender{err: errors.New("smtp down")}
	err := handleMessage([]byte(`{"booking_id":1}`), s)
	if err == nil {
		t.Error("send failure swallowed; message would be acked")
	}
}
