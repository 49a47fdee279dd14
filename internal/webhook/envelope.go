package webhook

import (
	"encoding/json"
	"strings"
)

// Envelope is the normalized form of an inbound request body. Every body,
// JSON or not, resolves to exactly one envelope.
type Envelope struct {
	Action  string
	Message string
	Data    map[string]interface{}
}

const (
	defaultAction  = "notify"
	defaultMessage = "Webhook received"
	emptyMessage   = "No message content"
	plainTextTitle = "Email AI Analysis"
)

// ParseEnvelope normalizes a raw request body. A body that is not a JSON
// object is treated as a plain-text notification message; a blank body is
// treated as an empty JSON envelope.
func ParseEnvelope(body []byte) Envelope {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		text := strings.TrimSpace(string(body))
		if text != "" {
			return Envelope{
				Action:  defaultAction,
				Message: text,
				Data: map[string]interface{}{
					"title":   plainTextTitle,
					"message": text,
				},
			}
		}
		data = map[string]interface{}{}
	}

	return Envelope{
		Action:  extractAction(data),
		Message: extractMessage(data),
		Data:    data,
	}
}

func extractAction(data map[string]interface{}) string {
	if action, ok := data["action"].(string); ok && action != "" {
		return action
	}
	return defaultAction
}

// extractMessage resolves the message field, first-present-wins across the
// message/text/raw keys; nested objects resolve through result/text/content.
func extractMessage(data map[string]interface{}) string {
	raw, ok := firstPresent(data, "message", "text", "raw")
	if !ok {
		return defaultMessage
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return emptyMessage
		}
		return v
	case map[string]interface{}:
		if inner, ok := firstPresent(v, "result", "text", "content"); ok {
			if s, ok := inner.(string); ok {
				return s
			}
		}
		encoded, _ := json.Marshal(v)
		return string(encoded)
	case nil:
		return emptyMessage
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}

func firstPresent(data map[string]interface{}, keys ...string) (interface{}, bool) {
	for _, key := range keys {
		if v, ok := data[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Truncate shortens a message for log output.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
