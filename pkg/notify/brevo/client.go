package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/talosync/jobportal/pkg/notify"
)

// Client is a minimal Brevo (ex-Sendinblue) transactional email client.
type Client struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	httpDo    *http.Client
}

func New(apiKey, baseURL, fromEmail, fromName string) *Client {
	if baseURL == "" {
		baseURL = "https://api.brevo.com"
	}
	return &Client{
		APIKey:    apiKey,
		BaseURL:   baseURL,
		FromEmail: fromEmail,
		FromName:  fromName,
		httpDo: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type party struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type smtpEmailRequest struct {
	Sender      party   `json:"sender"`
	To          []party `json:"to"`
	Subject     string  `json:"subject"`
	TextContent string  `json:"textContent,omitempty"`
	HTMLContent string  `json:"htmlContent,omitempty"`
}

// Send delivers one message through the Brevo SMTP API.
func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if c.APIKey == "" {
		return errors.New("brevo api key is empty")
	}
	reqBody := smtpEmailRequest{
		Sender:      party{Name: c.FromName, Email: c.FromEmail},
		To:          []party{{Name: msg.ToName, Email: msg.To}},
		Subject:     msg.Subject,
		TextContent: msg.Text,
		HTMLContent: msg.HTML,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v3/smtp/email", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", c.APIKey)

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return fmt.Errorf("brevo http %d: %v", resp.StatusCode, errMap)
	}
	return nil
}
