// Package transport talks to the conversation storage service over HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Conversation is the wire shape of a conversation. Timestamps are kept as
// the raw strings the server sent.
type Conversation struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Message is the wire shape of a message.
type Message struct {
	ID             uint   `json:"id"`
	ConversationID uint   `json:"conversation_id"`
	Role           string `json:"role"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// DeleteResult is the acknowledgement returned by DeleteConversation.
type DeleteResult struct {
	ConversationID uint   `json:"conversation_id"`
	Message        string `json:"message"`
}

// Event is a client-side log record forwarded to the server.
type Event struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

var errMissingID = errors.New("response has no id")

// Client is a single-attempt HTTP client. It never retries.
type Client struct {
	baseURL    string
	httpClient *resty.Client
}

// NewClient builds a client for the service at baseURL. A zero timeout
// leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "go-chatview/1.0").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		httpClient.SetTimeout(timeout)
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTP exposes the underlying resty client so sibling packages share its
// base URL and timeout.
func (c *Client) HTTP() *resty.Client {
	return c.httpClient
}

func (c *Client) CreateConversation(ctx context.Context) (*Conversation, error) {
	const op = "CreateConversation"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{}).
		Post("/conversations")
	return decodeConversation(op, resp, err)
}

func (c *Client) ListConversations(ctx context.Context, skip, limit int) ([]Conversation, error) {
	const op = "ListConversations"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(pageParams(skip, limit)).
		Get("/conversations")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, err
	}
	var out []Conversation
	if err := decode(op, resp, &out); err != nil {
		return nil, err
	}
	for _, conv := range out {
		if conv.ID == 0 {
			return nil, malformed(op, resp.StatusCode(), errMissingID)
		}
	}
	return out, nil
}

func (c *Client) GetConversation(ctx context.Context, id uint) (*Conversation, error) {
	const op = "GetConversation"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", formatID(id)).
		Get("/conversations/{id}")
	return decodeConversation(op, resp, err)
}

func (c *Client) UpdateConversation(ctx context.Context, id uint, title string) (*Conversation, error) {
	const op = "UpdateConversation"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", formatID(id)).
		SetBody(map[string]string{"title": title}).
		Patch("/conversations/{id}")
	return decodeConversation(op, resp, err)
}

func (c *Client) DeleteConversation(ctx context.Context, id uint) (*DeleteResult, error) {
	const op = "DeleteConversation"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", formatID(id)).
		Delete("/conversations/{id}")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(resp.Body())) == 0 {
		return &DeleteResult{ConversationID: id}, nil
	}
	var out DeleteResult
	if err := decode(op, resp, &out); err != nil {
		return nil, err
	}
	if out.ConversationID == 0 {
		out.ConversationID = id
	}
	return &out, nil
}

// CreateMessage stores a user message in the given conversation.
func (c *Client) CreateMessage(ctx context.Context, conversationID uint, text string) (*Message, error) {
	const op = "CreateMessage"
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", formatID(conversationID)).
		SetBody(map[string]string{"text": text, "role": "user"}).
		Post("/conversations/{id}/messages")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, err
	}
	var out Message
	if err := decode(op, resp, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, malformed(op, resp.StatusCode(), errMissingID)
	}
	return &out, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID uint, skip, limit int) ([]Message, error) {
	const op = "ListMessages"
	params := pageParams(skip, limit)
	params["conversation_id"] = formatID(conversationID)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/messages")
	if err := checkResponse(op, resp, err); err != nil {
		return nil, err
	}
	var out []Message
	if err := decode(op, resp, &out); err != nil {
		return nil, err
	}
	for _, msg := range out {
		if msg.ID == 0 {
			return nil, malformed(op, resp.StatusCode(), errMissingID)
		}
	}
	return out, nil
}

// ReportEvent forwards a client log record to the server.
func (c *Client) ReportEvent(ctx context.Context, event Event) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post("/api/log")
	return checkResponse("ReportEvent", resp, err)
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return requestFailed(op, 0, err)
	}
	if !resp.IsSuccess() {
		return requestFailed(op, resp.StatusCode(), errors.New(strings.TrimSpace(resp.String())))
	}
	return nil
}

func decode(op string, resp *resty.Response, v any) error {
	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return malformed(op, resp.StatusCode(), err)
	}
	return nil
}

func decodeConversation(op string, resp *resty.Response, err error) (*Conversation, error) {
	if err := checkResponse(op, resp, err); err != nil {
		return nil, err
	}
	var out Conversation
	if err := decode(op, resp, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, malformed(op, resp.StatusCode(), errMissingID)
	}
	return &out, nil
}

func pageParams(skip, limit int) map[string]string {
	return map[string]string{
		"skip":  strconv.Itoa(skip),
		"limit": strconv.Itoa(limit),
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// IsType reports whether err is a transport error of the given type.
func IsType(err error, t ErrorType) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.Type == t
}
