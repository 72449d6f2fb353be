package client

import (
	"context"
	"fmt"
	"net/url"
)

// SessionsClient drives conversations.
type SessionsClient struct {
	client *Client
}

func sessionPath(id string) string {
	return "/api/v1/sessions/" + url.PathEscape(id)
}

// Send posts one customer message and returns the bot's replies. Pressing
// a button is sending its ID.
func (s *SessionsClient) Send(ctx context.Context, sessionID, text string) (*TurnResult, error) {
	var out TurnResult
	body := map[string]string{"text": text}
	if err := s.client.post(ctx, sessionPath(sessionID)+"/turns", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the stored state of a session.
func (s *SessionsClient) Get(ctx context.Context, sessionID string) (*Session, error) {
	var out Session
	if err := s.client.get(ctx, sessionPath(sessionID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reset drops the session; the next message starts over.
func (s *SessionsClient) Reset(ctx context.Context, sessionID string) error {
	return s.client.delete(ctx, sessionPath(sessionID))
}

// Orders lists the archived orders of a session, newest first.
func (s *SessionsClient) Orders(ctx context.Context, sessionID string, limit int) ([]*Order, error) {
	path := sessionPath(sessionID) + "/orders"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var out struct {
		Orders []*Order `json:"orders"`
	}
	if err := s.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}
