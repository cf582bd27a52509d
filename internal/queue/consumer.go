// consumer.go contains the background consumer that listens to the
// booking.confirmed queue and dispatches the confirmation email for each
// event.  Mail failures are logged and the message rejected without
// requeue; the booking itself is long committed and never affected.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

const bookingQueueName = "booking.confirmed"

// Sender is the delivery half of the notifier contract; satisfied by
// notifier.Mailer.
type Sender interface {
    SendBookingConfirmation(ev BookingConfirmedEvent) error
}

// StartBookingConsumer connects to RabbitMQ at brokerURL, declares the
// booking.confirmed queue (durable), and starts consuming messages,
// handing each decoded event to send. The function runs a reconnect loop
// with exponential backoff and keeps running indefinitely; processing
// errors are logged and the offending message rejected so the server
// continues operating.
func StartBookingConsumer(brokerURL string, send Sender) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(brokerURL)
        if err != nil {
            log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, send); err != nil {
            log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection, send Sender) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("booking-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(bookingQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(d.Body, send); err != nil {
            log.Printf("booking-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, send Sender) error {
    var ev BookingConfirmedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := send.SendBookingConfirmation(ev); err != nil {
        return fmt.Errorf("send confirmation for booking %d: %w", ev.BookingID, err)
    }
    log.Printf("booking-consumer: confirmation sent | booking_id=%d | room=%q | to=%s",
        ev.BookingID, ev.RoomName, ev.UserEmail)
    return nil
}
