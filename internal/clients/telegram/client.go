package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// HTTPDoer abstracts the HTTP client for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Telegram Bot API
type Client struct {
	token      string
	httpClient HTTPDoer
	baseURL    string
}

// NewClient creates a new Bot API client. pollTimeout is the long-poll
// window passed to getUpdates; the HTTP timeout must exceed it so a quiet
// poll is not cut short.
func NewClient(token string, pollTimeout time.Duration) *Client {
	return &Client{
		token:   token,
		baseURL: "https://api.telegram.org",
		httpClient: &http.Client{
			Timeout: pollTimeout + 10*time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing
func NewClientWithHTTPDoer(token, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: doer,
	}
}

// Update is one inbound event from getUpdates
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is an inbound chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// User identifies the message sender
type User struct {
	ID int64 `json:"id"`
}

// Chat identifies the conversation a message belongs to
type Chat struct {
	ID int64 `json:"id"`
}

// ReplyKeyboard is a reply keyboard: rows of button labels
type ReplyKeyboard struct {
	Keyboard       [][]keyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

type keyboardButton struct {
	Text string `json:"text"`
}

// NewReplyKeyboard builds a keyboard from rows of labels
func NewReplyKeyboard(rows ...[]string) *ReplyKeyboard {
	kb := &ReplyKeyboard{ResizeKeyboard: true}
	for _, row := range rows {
		buttons := make([]keyboardButton, len(row))
		for i, label := range row {
			buttons[i] = keyboardButton{Text: label}
		}
		kb.Keyboard = append(kb.Keyboard, buttons)
	}
	return kb
}

// GetUpdates long-polls for new updates starting at offset
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSecs int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", fmt.Sprintf("%d", offset))
	params.Set("timeout", fmt.Sprintf("%d", timeoutSecs))
	params.Set("allowed_updates", `["message"]`)

	requestURL := fmt.Sprintf("%s/bot%s/getUpdates?%s", c.baseURL, c.token, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var response struct {
		OK          bool     `json:"ok"`
		Description string   `json:"description"`
		Result      []Update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.OK {
		return nil, fmt.Errorf("getUpdates failed: %s", response.Description)
	}

	return response.Result, nil
}

// SendMessage sends a text message, optionally with a reply keyboard
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *ReplyKeyboard) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	requestURL := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.execute(req, "sendMessage")
}

// SendDocument uploads a file to the chat via multipart form data
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, contents []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return fmt.Errorf("failed to write chat_id field: %w", err)
	}

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	requestURL := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, "POST", requestURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.execute(req, "sendDocument")
}

// execute runs a request and checks the Bot API envelope
func (c *Client) execute(req *http.Request, method string) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.OK {
		return fmt.Errorf("%s failed: %s", method, response.Description)
	}

	return nil
}
