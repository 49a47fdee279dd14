package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Bridge talks to the local WhatsApp bridge REST API. The bridge owns the
// WhatsApp session and the message store; this client only forwards send
// requests and probes liveness.
type Bridge struct {
	baseURL string
	client  *http.Client
}

// SendRequest is the /api/send payload.
type SendRequest struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	MediaPath string `json:"media_path,omitempty"`
}

// SendResponse is the bridge's reply.
type SendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send forwards a message (or a file, via mediaPath) to the bridge.
func (b *Bridge) Send(recipient, message, mediaPath string) (*SendResponse, error) {
	payload, err := json.Marshal(SendRequest{
		Recipient: recipient,
		Message:   message,
		MediaPath: mediaPath,
	})
	if err != nil {
		return nil, err
	}

	resp, err := b.client.Post(b.baseURL+"/api/send", "application/json", bytes.NewReader(payload))
	if err != nil {
		return &SendResponse{Success: false, Message: fmt.Sprintf("Bridge not running: %v", err)}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read bridge response: %w", err)
	}

	var out SendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("bridge returned status %d: %s", resp.StatusCode, string(body))
	}
	return &out, nil
}

// Running probes the bridge. A 405 from GET /api/send means the server is
// up (the endpoint only accepts POST).
func (b *Bridge) Running() bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(b.baseURL + "/api/send")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusOK
}
