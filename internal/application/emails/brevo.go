package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bitebuddy-backend/internal/domain"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Notifier tells donors and requesters about order activity. Nil = no-op.
type Notifier interface {
	OrderRequested(ctx context.Context, order *domain.Order) error
	OrderStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) error
}

// BrevoClient sends emails via the Brevo (Sendinblue) API. Env: SENDINBLUE_API_KEY, MAIL_FROM.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Endpoint string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@bitebuddy.app"
}

func (c *BrevoClient) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return brevoAPI
}

// send sends one email via Brevo API.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "BiteBuddy"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// OrderRequested tells the donor their listing was requested.
func (c *BrevoClient) OrderRequested(ctx context.Context, order *domain.Order) error {
	content := fmt.Sprintf(`
    <h1>%s was requested</h1>
    <p>%s requested <strong>%d</strong> serving(s) of your listing.</p>
    <p>Open your orders dashboard to start processing it.</p>
`, EscapeHTML(order.FoodName), EscapeHTML(order.RequesterEmail), order.Quantity)
	return c.send(ctx, order.OwnerEmail, "New request for "+order.FoodName, EmailLayout(content))
}

// OrderStatusChanged tells the requester their order moved.
func (c *BrevoClient) OrderStatusChanged(ctx context.Context, order *domain.Order, from domain.OrderStatus) error {
	content := fmt.Sprintf(`
    <h1>Your order is now %s</h1>
    <p>Your request for <strong>%s</strong> changed from %s to <strong>%s</strong>.</p>
`, EscapeHTML(string(order.Status)), EscapeHTML(order.FoodName), EscapeHTML(string(from)), EscapeHTML(string(order.Status)))
	return c.send(ctx, order.RequesterEmail, "Order update: "+string(order.Status), EmailLayout(content))
}
