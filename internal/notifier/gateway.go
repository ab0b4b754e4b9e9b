package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Actions encoded into the interactive controls sent with an alert.
const (
	ActionHandle = "handle"
	ActionReject = "reject"
)

// Control is one interactive option attached to an alert, encoding the
// accident it refers to.
type Control struct {
	Action     string
	Label      string
	AccidentID uint
}

// CallbackData is the wire form of a control, e.g. "handle_42".
func (c Control) CallbackData() string {
	return fmt.Sprintf("%s_%d", c.Action, c.AccidentID)
}

// ParseCallbackData decodes "handle_42" / "reject_42" control payloads.
// Anything else is ErrInvalidAction.
func ParseCallbackData(data string) (action string, accidentID uint, err error) {
	parts := strings.SplitN(data, "_", 2)

	if len(parts) != 2 {
		return "", 0, ErrInvalidAction
	}

	if parts[0] != ActionHandle && parts[0] != ActionReject {
		return "", 0, ErrInvalidAction
	}

	id, err := strconv.ParseUint(parts[1], 10, 32)

	if err != nil {
		return "", 0, ErrInvalidAction
	}

	return parts[0], uint(id), nil
}

// Message is the channel-agnostic payload handed to a gateway. ImageURL and
// Controls are optional; each gateway renders them however its provider
// supports.
type Message struct {
	Address  string
	Text     string
	ImageURL string
	Controls []Control
}

// SendResult is the normalized outcome of one delivery attempt. Provider-side
// failures (bad address, rate limit, outage, timeout) come back as
// Success=false, never as an error: one recipient's failure must not abort
// sends to the others.
type SendResult struct {
	Success bool
	Detail  json.RawMessage
}

func failureDetail(err error) json.RawMessage {
	detail, _ := json.Marshal(map[string]string{"error": err.Error()})
	return detail
}

// Gateway is a messaging provider adapter. Implementations are constructed
// once at startup and injected; they hold no mutable state per send.
type Gateway interface {
	Channel() string
	Send(ctx context.Context, msg Message) SendResult
}

// FormatPhoneNumber normalizes an Indonesian phone number to international
// form: digits only, leading 0 replaced with 62, 62 prefix enforced.
func FormatPhoneNumber(phone string) string {
	var cleaned strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)
		}
	}

	number := cleaned.String()

	if strings.HasPrefix(number, "0") {
		number = "62" + number[1:]
	}

	if !strings.HasPrefix(number, "62") {
		number = "62" + number
	}

	return number
}

// MapsLink builds a Google Maps reference for the camera's coordinates.
func MapsLink(latitude, longitude float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%v,%v", latitude, longitude)
}
