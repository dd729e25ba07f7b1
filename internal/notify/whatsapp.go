package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const callMeBotURL = "https://api.callmebot.com/whatsapp.php"

// WhatsApp sends the owner a message through the CallMeBot gateway.
type WhatsApp struct {
	BaseURL string
	Phone   string
	APIKey  string
	HTTP    *http.Client
}

func NewWhatsApp(phone, apiKey string, httpClient *http.Client) *WhatsApp {
	return &WhatsApp{
		BaseURL: callMeBotURL,
		Phone:   phone,
		APIKey:  apiKey,
		HTTP:    httpClient,
	}
}

func (w *WhatsApp) Notify(ctx context.Context, n Notification) error {
	q := url.Values{}
	q.Set("phone", w.Phone)
	q.Set("text", n.Message())
	q.Set("apikey", w.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}

	resp, err := w.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send whatsapp message: status %d", resp.StatusCode)
	}
	return nil
}
