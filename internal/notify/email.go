package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email mails the owner through SendGrid.
type Email struct {
	From string
	To   string

	client *sendgrid.Client
}

func NewEmail(apiKey, from, to string) *Email {
	return &Email{From: from, To: to, client: sendgrid.NewSendClient(apiKey)}
}

// newEmailWithHost points the client at another API host.
func newEmailWithHost(apiKey, host, from, to string) *Email {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &Email{From: from, To: to, client: &sendgrid.Client{Request: req}}
}

func (e *Email) Notify(ctx context.Context, n Notification) error {
	if e.From == "" || e.To == "" {
		return fmt.Errorf("email notifier: from and to addresses are required")
	}

	body := n.Message()
	message := mail.NewSingleEmail(
		mail.NewEmail("Storefront", e.From),
		"New order "+n.OrderID,
		mail.NewEmail("", e.To),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	resp, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
