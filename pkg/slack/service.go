package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

var (
	// ErrSlackSendFailed is returned when Slack API fails
	ErrSlackSendFailed = errors.New("failed to send Slack notification")
)

// Message represents a Slack message
type Message struct {
	Text string `json:"text"`
}

// SlackClient is an interface for sending Slack notifications
type SlackClient interface {
	SendMessage(ctx context.Context, msg Message) error
}

// WebhookClient implements SlackClient using Slack webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new Slack webhook client
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage sends a message to Slack via webhook
func (c *WebhookClient) SendMessage(ctx context.Context, msg Message) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSlackSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrSlackSendFailed, resp.StatusCode)
	}

	return nil
}

// Registration summarises a completed registration flow for the sales channel.
type Registration struct {
	Flow                string
	CompanyName         string
	ContactEmail        string
	NumberOfEmployees   int
	StripeCustomerID    string
	InvoiceID           string
	PurchaseOrderNumber string
	OriginPortal        string
	Environment         string
}

// Service handles Slack notifications
type Service struct {
	client SlackClient
}

// NewService creates a new Slack service. A nil client disables notifications.
func NewService(client SlackClient) *Service {
	return &Service{
		client: client,
	}
}

// IsEnabled returns true if Slack notifications are enabled
func (s *Service) IsEnabled() bool {
	return s != nil && s.client != nil
}

// NotifyRegistration posts a summary of a completed registration
func (s *Service) NotifyRegistration(ctx context.Context, r Registration) error {
	if !s.IsEnabled() {
		return nil // Silently skip if not enabled
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 *New Registration* (%s)\n", r.Flow)
	fmt.Fprintf(&b, "• Company: %s\n", r.CompanyName)
	fmt.Fprintf(&b, "• Contact: %s\n", r.ContactEmail)
	fmt.Fprintf(&b, "• Employees: %d\n", r.NumberOfEmployees)
	fmt.Fprintf(&b, "• Customer: %s", r.StripeCustomerID)

	if r.InvoiceID != "" {
		fmt.Fprintf(&b, "\n• Invoice: %s", r.InvoiceID)
	}
	if r.PurchaseOrderNumber != "" {
		fmt.Fprintf(&b, "\n• PO: %s", r.PurchaseOrderNumber)
	}
	if r.OriginPortal != "" {
		fmt.Fprintf(&b, "\n• Portal: %s", r.OriginPortal)
	}
	if r.Environment != "" && r.Environment != "production" {
		fmt.Fprintf(&b, "\n• Environment: %s", r.Environment)
	}

	return s.client.SendMessage(ctx, Message{Text: b.String()})
}

// NotifyFlowFailed posts a registration failure so the team can follow up by phone
func (s *Service) NotifyFlowFailed(ctx context.Context, flow, companyName, reason string) error {
	if !s.IsEnabled() {
		return nil
	}

	text := fmt.Sprintf("⚠️ *Registration Failed*\n"+
		"• Flow: %s\n"+
		"• Company: %s\n"+
		"• Reason: %s",
		flow, companyName, reason)

	return s.client.SendMessage(ctx, Message{Text: text})
}

// NotifyFailureSummary posts the number of failed flows since the given time.
// Flows are listed in name order; an empty summary is not posted.
func (s *Service) NotifyFailureSummary(ctx context.Context, failures map[string]int, since time.Time) error {
	if !s.IsEnabled() || len(failures) == 0 {
		return nil
	}

	flows := make([]string, 0, len(failures))
	total := 0
	for flow, n := range failures {
		flows = append(flows, flow)
		total += n
	}
	sort.Strings(flows)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Registration Failures* since %s: %d\n", since.UTC().Format(time.RFC3339), total)
	for i, flow := range flows {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "• %s: %d", flow, failures[flow])
	}

	return s.client.SendMessage(ctx, Message{Text: b.String()})
}
