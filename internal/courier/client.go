package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Message is a single chat message as returned by the API
type Message struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the chat channel record returned by the API
type Conversation struct {
	ID             uint  `json:"id"`
	Participant1ID uint  `json:"participant1_id"`
	Participant2ID uint  `json:"participant2_id"`
	OrderID        *uint `json:"order_id"`
}

// RatingSubmission is the body of a rating post
type RatingSubmission struct {
	RaterID    uint   `json:"rater_id"`
	RatedID    uint   `json:"rated_id"`
	OrderID    uint   `json:"order_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	RatingType string `json:"rating_type"`
}

// LocationSample is one positioning reading. Samples are transient: they
// are transmitted and never stored locally.
type LocationSample struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
}

// Client talks to the delivery platform API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an API client for the given base URL, e.g.
// "http://localhost:8080/api"
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken attaches a bearer token to subsequent requests. The API works
// without one; the header is a forward-compatibility hook.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// CreateConversation finds or creates the conversation with a counterpart
func (c *Client) CreateConversation(ctx context.Context, participant2ID uint, orderID *uint) (Conversation, error) {
	body := map[string]interface{}{
		"participant2_id": participant2ID,
	}
	if orderID != nil {
		body["order_id"] = *orderID
	}

	var resp struct {
		Conversation Conversation `json:"conversation"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/conversations", body, &resp); err != nil {
		return Conversation{}, err
	}
	return resp.Conversation, nil
}

// Messages fetches the full message list of a conversation
func (c *Client) Messages(ctx context.Context, conversationID uint) ([]Message, error) {
	var messages []Message
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage posts a message and returns the server's copy of it
func (c *Client) SendMessage(ctx context.Context, conversationID uint, content string) (Message, error) {
	var resp struct {
		MessageData Message `json:"message_data"`
	}
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	body := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return Message{}, err
	}
	return resp.MessageData, nil
}

// SubmitRating posts a post-delivery rating
func (c *Client) SubmitRating(ctx context.Context, submission RatingSubmission) error {
	return c.doJSON(ctx, http.MethodPost, "/ratings", submission, nil)
}

// PushLocation transmits one location sample. Delivery is best-effort.
func (c *Client) PushLocation(ctx context.Context, sample LocationSample) error {
	return c.doJSON(ctx, http.MethodPost, "/geolocation/update-location", sample, nil)
}
