package api

import (
	"context"
	"fmt"
	"net/http"
)

// ListConversations returns all conversations owned by the session user,
// without messages.
func (c *Client) ListConversations(ctx context.Context) ([]*Conversation, error) {
	var conversations []*Conversation
	if err := c.do(ctx, http.MethodGet, "/api/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetConversation returns one conversation including its messages.
func (c *Client) GetConversation(ctx context.Context, id int64) (*Conversation, error) {
	conversation := &Conversation{}
	path := fmt.Sprintf("/api/conversations/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// CreateConversation creates a conversation and returns the server's
// canonical representation.
func (c *Client) CreateConversation(ctx context.Context, title string) (*Conversation, error) {
	conversation := &Conversation{}
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	if err := c.do(ctx, http.MethodPost, "/api/conversations", &body, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// RenameConversation updates a conversation title.
func (c *Client) RenameConversation(ctx context.Context, id int64, title string) (*Conversation, error) {
	conversation := &Conversation{}
	body := struct {
		Title string `json:"title"`
	}{Title: title}
	path := fmt.Sprintf("/api/conversations/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, &body, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// DeleteConversation deletes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/conversations/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AppendMessage appends a message to a conversation and returns the
// server's canonical message (with its assigned id).
func (c *Client) AppendMessage(ctx context.Context, conversationID int64, message *Message) (*Message, error) {
	created := &Message{}
	path := fmt.Sprintf("/api/conversations/%d/messages", conversationID)
	if err := c.do(ctx, http.MethodPost, path, message, created); err != nil {
		return nil, err
	}
	return created, nil
}
