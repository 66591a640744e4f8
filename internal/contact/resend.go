package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultResendURL is the Resend send-email endpoint.
const DefaultResendURL = "https://api.resend.com/emails"

// Message is one outgoing email.
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Relay delivers messages. Implementations do not retry.
type Relay interface {
	Send(ctx context.Context, msg Message) error
}

// ResendRelay sends through the Resend HTTP API.
type ResendRelay struct {
	apiKey string
	url    string
	client *http.Client
}

// NewResendRelay returns a relay for apiKey. An empty url means
// DefaultResendURL; a nil client gets a 10 second timeout.
func NewResendRelay(apiKey, url string, client *http.Client) *ResendRelay {
	if url == "" {
		url = DefaultResendURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ResendRelay{apiKey: apiKey, url: url, client: client}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send posts msg once. Each call carries a fresh Idempotency-Key so a
// proxy-level replay cannot deliver it twice.
func (r *ResendRelay) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(resendPayload{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reply, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &RelayError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(reply))}
	}
	return nil
}
