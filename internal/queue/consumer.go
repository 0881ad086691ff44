package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/room-reservation/internal/model"
)

// handleTimeout bounds how long one event may spend in a side-effect
// handler before it is abandoned.
const handleTimeout = 30 * time.Second

// Mirror is the slice of the spreadsheet client the mirror consumer
// needs.  internal/sheets provides the real one.
type Mirror interface {
    Append(ctx context.Context, b model.Booking) error
    Retract(ctx context.Context, b model.Booking) error
}

// Notifier delivers a rendered announcement somewhere.  internal/notify
// provides the WhatsApp one.
type Notifier interface {
    Send(ctx context.Context, message string) error
}

// StartMirrorConsumer applies booking events to the spreadsheet mirror
// on its own queue bound to the fanout exchange.  Created bookings are
// appended; cancelled ones retracted; updates retract the previous row
// then append the new one.  The function runs a reconnect loop and does
// not return; handler failures are logged and the message rejected
// without requeue, since a second attempt is explicitly not wanted.
func StartMirrorConsumer(brokerURL string, m Mirror) {
    runConsumer(brokerURL, BookingEventsExchange+".mirror", func(ctx context.Context, ev BookingEvent) error {
        switch ev.Action {
        case ActionCreated:
            return m.Append(ctx, ev.Booking)
        case ActionCancelled:
            return m.Retract(ctx, ev.Booking)
        case ActionUpdated:
            if ev.Previous != nil {
                if err := m.Retract(ctx, *ev.Previous); err != nil {
                    return err
                }
            }
            return m.Append(ctx, ev.Booking)
        default:
            return fmt.Errorf("unknown action %q", ev.Action)
        }
    })
}

// StartNotifyConsumer forwards every booking event as one announcement
// message.  render turns an event into the message text (see
// notify.EventMessage).
func StartNotifyConsumer(brokerURL string, n Notifier, render func(BookingEvent) string) {
    runConsumer(brokerURL, BookingEventsExchange+".notify", func(ctx context.Context, ev BookingEvent) error {
        return n.Send(ctx, render(ev))
    })
}

// runConsumer connects to RabbitMQ, binds queueName to the booking
// events exchange and feeds deliveries to handle.  It reconnects with
// capped exponential backoff and keeps running for the life of the
// process.
func runConsumer(brokerURL, queueName string, handle func(context.Context, BookingEvent) error) {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(brokerURL)
        if err != nil {
            log.Printf("%s: failed to dial broker: %v; retrying in %s", queueName, err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn, queueName, handle); err != nil {
            log.Printf("%s: consume loop ended: %v; reconnecting", queueName, err)
            time.Sleep(2 * time.Second)
        }
    }
}

func consumeLoop(conn *amqp.Connection, queueName string, handle func(context.Context, BookingEvent) error) error {
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("%s: set QoS failed: %v", queueName, err)
    }

    if err := ch.ExchangeDeclare(BookingEventsExchange, "fanout", true, false, false, false, nil); err != nil {
        return fmt.Errorf("exchange declare: %w", err)
    }
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    if err := ch.QueueBind(queueName, "", BookingEventsExchange, false, nil); err != nil {
        return fmt.Errorf("queue bind: %w", err)
    }

    msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        var ev BookingEvent
        if err := json.Unmarshal(d.Body, &ev); err != nil {
            log.Printf("%s: unmarshal failed: %v", queueName, err)
            _ = d.Nack(false, false)
            continue
        }
        ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
        err := handle(ctx, ev)
        cancel()
        if err != nil {
            // Best effort: reject without requeue, the side effects
            // get exactly one attempt.
            log.Printf("%s: handle %s event %s failed: %v", queueName, ev.Action, ev.EventID, err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}
