package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultAPIURL  = "https://api.telegram.org/bot"
	requestTimeout = 10 * time.Second
	defaultRetries = 2

	// MaxMessageLength is the longest text the Bot API accepts in one message.
	MaxMessageLength = 4096
)

// APIError is a failed Bot API call.
type APIError struct {
	Status      int
	Description string
	// RetryAfter is set by the API when the bot is rate limited.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram API error (status %d)", e.Status)
	}
	return fmt.Sprintf("telegram API error (status %d): %s", e.Status, e.Description)
}

// Temporary reports whether retrying the call may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// Client posts messages to one chat.
type Client struct {
	token   string
	chatID  string
	apiURL  string
	retries uint64
	http    *http.Client
	policy  func() backoff.BackOff
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

// NewClient creates a client for the bot token and destination chat.
func NewClient(botToken, chatID string) (*Client, error) {
	if botToken == "" {
		return nil, errors.New("bot token is required")
	}
	if chatID == "" {
		return nil, errors.New("chat ID is required")
	}
	return &Client{
		token:   botToken,
		chatID:  chatID,
		apiURL:  defaultAPIURL,
		retries: defaultRetries,
		http:    &http.Client{Timeout: requestTimeout},
		policy:  func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}, nil
}

// WithBaseURL points the client at a different API endpoint. The bot token
// is appended to it.
func (c *Client) WithBaseURL(url string) *Client {
	c.apiURL = url
	return c
}

// WithRetries sets how many times a rate-limited or failed send is retried.
func (c *Client) WithRetries(n uint64) *Client {
	c.retries = n
	return c
}

// SendMessage posts text in HTML parse mode. Text longer than
// MaxMessageLength is cut. Rate limits and server errors are retried.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return errors.New("message text is required")
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  Truncate(text, MaxMessageLength),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	operation := func() error {
		err := c.post(ctx, "sendMessage", payload)
		var apiErr *APIError
		if err != nil && errors.As(err, &apiErr) && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(c.policy(), c.retries), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) post(ctx context.Context, method string, payload []byte) error {
	url := c.apiURL + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{Status: resp.StatusCode}
		}
		return backoff.Permanent(fmt.Errorf("parsing response: %w", err))
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		status := resp.StatusCode
		if status == http.StatusOK {
			status = http.StatusBadRequest
		}
		return &APIError{
			Status:      status,
			Description: out.Description,
			RetryAfter:  time.Duration(out.Parameters.RetryAfter) * time.Second,
		}
	}
	return nil
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// Escape escapes text for HTML parse mode.
func Escape(text string) string {
	return html.EscapeString(text)
}
