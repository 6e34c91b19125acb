package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts order notifications to a Telegram bot chat.
type Client struct {
	BaseURL string // e.g. https://api.telegram.org
	Token   string
	ChatID  string
	HTTP    *http.Client
}

func New(baseURL, token, chatID string) *Client {
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		ChatID:  chatID,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type sendMessageReq struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// Send delivers text to the configured chat. Any non-2xx response counts as
// a failed delivery; the caller must not assume partial success.
func (c *Client) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageReq{
		ChatID:    c.ChatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, excerpt)
	}
	return nil
}
