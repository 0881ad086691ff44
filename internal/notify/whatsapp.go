// Package notify pushes booking announcements to WhatsApp through the
// Fonnte gateway.  Delivery is best effort: one attempt per event,
// bounded timeout, failures logged by the caller.
package notify

import (
    "context"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/queue"
)

const fonnteSendURL = "https://api.fonnte.com/send"

// WhatsApp sends messages to a fixed destination number.
type WhatsApp struct {
    apiKey string
    target string
    client *http.Client
}

// NewWhatsApp builds a sender.  apiKey authorizes against Fonnte and
// target is the destination phone number.
func NewWhatsApp(apiKey, target string) *WhatsApp {
    return &WhatsApp{
        apiKey: apiKey,
        target: target,
        client: &http.Client{Timeout: 10 * time.Second},
    }
}

// Send delivers one text message.
func (w *WhatsApp) Send(ctx context.Context, message string) error {
    form := url.Values{}
    form.Set("target", w.target)
    form.Set("message", message)

    req, err := http.NewRequestWithContext(ctx, http.MethodPost, fonnteSendURL,
        strings.NewReader(form.Encode()))
    if err != nil {
        return err
    }
    req.Header.Set("Authorization", w.apiKey)
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

    resp, err := w.client.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()
    if resp.StatusCode >= 400 {
        body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
        return fmt.Errorf("fonnte: status %d: %s", resp.StatusCode, body)
    }
    return nil
}

// EventMessage renders the announcement text for a booking event,
// matching the wording the recipients are used to.
func EventMessage(ev queue.BookingEvent) string {
    var head string
    switch ev.Action {
    case queue.ActionCreated:
        head = "📢 Booking Baru!"
    case queue.ActionUpdated:
        head = "✏️ Booking Diperbarui!"
    case queue.ActionCancelled:
        head = "❌ Booking Dibatalkan!"
    default:
        head = "📋 Booking"
    }
    return head + "\n" + bookingLines(ev.Booking)
}

func bookingLines(b model.Booking) string {
    return fmt.Sprintf("🏢 %s\n📅 %s\n⏰ %s - %s\n👤 %s",
        b.Room, b.Date, b.StartTime, b.EndTime, b.PIC)
}
