package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers customer-facing notifications. Implementations are
// best-effort: a failed delivery must never roll back the mutation that
// triggered it.
type Notifier interface {
	Notify(ctx context.Context, ticketID, email, message string) error
}

// LogNotifier writes notifications to the structured log. It stands in for
// a real mail pipeline in development.
type LogNotifier struct {
	logger *zap.Logger
	from   string
}

// NewLogNotifier constructs the notifier.
func NewLogNotifier(logger *zap.Logger, from string) *LogNotifier {
	return &LogNotifier{logger: logger, from: from}
}

// Notify logs the outgoing message.
func (n *LogNotifier) Notify(ctx context.Context, ticketID, email, message string) error {
	n.logger.Info("notification sent",
		zap.String("ticket_id", ticketID),
		zap.String("from", n.from),
		zap.String("to", email),
		zap.String("message", message))
	return nil
}

// WebhookNotifier posts notifications to a configured endpoint.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewWebhookNotifier constructs the notifier.
func NewWebhookNotifier(url string, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

type webhookPayload struct {
	TicketID string `json:"ticket_id"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Notify delivers the payload as JSON. Errors are reported to the caller but
// are expected to be ignored there.
func (n *WebhookNotifier) Notify(ctx context.Context, ticketID, email, message string) error {
	body, err := json.Marshal(webhookPayload{TicketID: ticketID, Email: email, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook notification failed", zap.String("ticket_id", ticketID), zap.Error(err))
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook notification rejected",
			zap.String("ticket_id", ticketID),
			zap.Int("status", resp.StatusCode))
	}
	return nil
}
