package payment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// Notification is a provider webhook reduced to what reconciliation needs:
// the event type and the id of the payment object it refers to. Payment
// state is never taken from the body; it is always looked up.
type Notification struct {
	Type   string
	DataID string
}

// IsPaymentEvent reports whether a notification type refers to a payment
// whose outcome may have changed.
func IsPaymentEvent(t string) bool {
	switch t {
	case "payment", "payment.created", "payment.updated":
		return true
	}
	return strings.HasPrefix(t, "checkout.session.") || strings.HasPrefix(t, "payment_intent.")
}

// ParseMercadoPagoWebhook reads {"type": ..., "data": {"id": ...}}. The id
// arrives as a string or a number depending on the notification version;
// queryType and queryID are the ?type=&data.id= fallbacks.
func ParseMercadoPagoWebhook(body []byte, queryType, queryID string) (Notification, error) {
	var raw struct {
		Type string `json:"type"`
		Data struct {
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return Notification{}, fmt.Errorf("%w: webhook body: %v", model.ErrValidation, err)
		}
	}
	n := Notification{Type: raw.Type, DataID: rawID(raw.Data.ID)}
	if n.Type == "" {
		n.Type = queryType
	}
	if n.DataID == "" {
		n.DataID = queryID
	}
	return n, nil
}

func rawID(b json.RawMessage) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return n.String()
		}
	}
	return ""
}
