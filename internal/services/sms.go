package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSResult is what the text channel reported for a batched send.
type SMSResult struct {
	Sent      bool
	RequestID string
}

// SMSSender is the outbound text-message channel. One call delivers the same
// message to every recipient.
type SMSSender interface {
	Send(ctx context.Context, message string, recipients []string) (*SMSResult, error)
}

// Fast2SMSClient sends through the Fast2SMS bulk endpoint.
type Fast2SMSClient struct {
	apiKey string
	route  string
	client *http.Client
}

func NewFast2SMSClient(apiKey, route string) *Fast2SMSClient {
	return &Fast2SMSClient{
		apiKey: apiKey,
		route:  route,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type fast2smsResponse struct {
	Return    bool     `json:"return"`
	RequestID string   `json:"request_id"`
	Message   []string `json:"message"`
}

func (c *Fast2SMSClient) Send(ctx context.Context, message string, recipients []string) (*SMSResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fast2sms: api key not configured")
	}

	form := url.Values{}
	form.Set("route", "q")
	form.Set("message", message)
	form.Set("flash", "0")
	form.Set("numbers", strings.Join(recipients, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.route, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fast2sms: decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !body.Return {
		reason := strings.Join(body.Message, "; ")
		if reason == "" {
			reason = resp.Status
		}
		return nil, fmt.Errorf("fast2sms: %s", reason)
	}

	return &SMSResult{Sent: true, RequestID: body.RequestID}, nil
}
