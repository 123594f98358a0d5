package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// TelegramClient talks to the Telegram Bot API to deliver receipts to the
// shop's chat channel.
type TelegramClient struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
	ChatID  string
}

// NewTelegramClient builds a client with an instrumented HTTP transport
// and the given request timeout.
func NewTelegramClient(baseURL, token, chatID string, timeout time.Duration) *TelegramClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TelegramClient{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		ChatID:  chatID,
	}
}

// Configured reports whether the client has credentials to deliver.
func (c *TelegramClient) Configured() bool {
	return c != nil && strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.ChatID) != ""
}

// SendMessage posts a Markdown-formatted text message to the chat.
func (c *TelegramClient) SendMessage(ctx context.Context, text string) error {
	form := map[string]string{
		"chat_id":    c.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, contentType, err := encodeForm(form, "", nil, "")
	if err != nil {
		return err
	}
	return c.post(ctx, "sendMessage", contentType, body)
}

// SendDocument uploads a document to the chat with an optional caption.
func (c *TelegramClient) SendDocument(ctx context.Context, filename string, data []byte, caption string) error {
	form := map[string]string{"chat_id": c.ChatID}
	if caption != "" {
		form["caption"] = caption
		form["parse_mode"] = "Markdown"
	}
	body, contentType, err := encodeForm(form, "document", data, filename)
	if err != nil {
		return err
	}
	return c.post(ctx, "sendDocument", contentType, body)
}

func (c *TelegramClient) post(ctx context.Context, method, contentType string, body io.Reader) error {
	if !c.Configured() {
		return errors.New("telegram: client not configured")
	}
	base := c.BaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}
	url := fmt.Sprintf("%s/bot%s/%s", base, c.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	_ = json.Unmarshal(payload, &apiResp)
	if resp.StatusCode >= 300 || !apiResp.OK {
		desc := strings.TrimSpace(apiResp.Description)
		if desc == "" {
			desc = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("telegram: %s failed: status=%d %s", method, resp.StatusCode, desc)
	}
	return nil
}

func encodeForm(fields map[string]string, fileField string, fileData []byte, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("telegram: encode field %s: %w", key, err)
		}
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, "", fmt.Errorf("telegram: encode file: %w", err)
		}
		if _, err := part.Write(fileData); err != nil {
			return nil, "", fmt.Errorf("telegram: write file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
