// Package notifier delivers booking confirmation email.  Delivery is
// strictly best-effort: by the time a confirmation is attempted the
// booking is already committed, and no mail failure may surface to the
// client.  Callers log returned errors at warning level and move on.
package notifier

import (
    "fmt"

    "gopkg.in/gomail.v2"

    "github.com/wmu/thats-my-spot/internal/config"
    "github.com/wmu/thats-my-spot/internal/queue"
)

// Mailer sends booking confirmations over SMTP.  A Mailer with an empty
// host is disabled and silently drops messages, which keeps local
// development working without a mail server.
type Mailer struct {
    dialer *gomail.Dialer
    from   string
}

// NewMailer builds a Mailer from the SMTP settings in cfg.  Returns a
// disabled Mailer when SMTP_HOST is unset.
func NewMailer(cfg config.Config) *Mailer {
    if cfg.SMTPHost == "" {
        return &Mailer{}
    }
    return &Mailer{
        dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
        from:   cfg.MailFrom,
    }
}

// Enabled reports whether the mailer has an SMTP endpoint configured.
func (m *Mailer) Enabled() bool { return m.dialer != nil }

// SendBookingConfirmation delivers the confirmation for ev to the booking
// user's email address.
func (m *Mailer) SendBookingConfirmation(ev queue.BookingConfirmedEvent) error {
    if m.dialer == nil {
        return nil
    }
    msg := gomail.NewMessage()
    msg.SetHeader("From", m.from)
    msg.SetHeader("To", ev.UserEmail)
    msg.SetHeader("Subject", "Your Room Booking Confirmation")
    msg.SetBody("text/plain", fmt.Sprintf(
        "Your booking for room '%s' is confirmed.\nStart: %s\nEnd: %s\n",
        ev.RoomName, ev.StartTime, ev.EndTime))
    return m.dialer.DialAndSend(msg)
}
