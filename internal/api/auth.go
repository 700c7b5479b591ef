package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/assisitant-dever/docgen/internal/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a session and stores it. A successful
// login is authoritative: the session is set unconditionally, so a stray
// 401-triggered clear racing with the login cannot leave us logged out.
func (c *Client) Login(ctx context.Context, username, password string) (*auth.Session, error) {
	response := &tokenResponse{}
	err := c.do(ctx, http.MethodPost, "/auth/login", &credentialsRequest{Username: username, Password: password}, response)
	if err != nil {
		return nil, err
	}

	session := &auth.Session{Username: username, Token: response.AccessToken}
	if err := c.credentials.Set(session); err != nil {
		return nil, errors.Wrap(err, "storing session")
	}
	return session, nil
}

// Register creates an account, then logs in with the same credentials.
func (c *Client) Register(ctx context.Context, username, password string) (*auth.Session, error) {
	err := c.do(ctx, http.MethodPost, "/auth/register", &credentialsRequest{Username: username, Password: password}, &tokenResponse{})
	if err != nil {
		return nil, err
	}
	return c.Login(ctx, username, password)
}

// Logout destroys the local session. The service holds no server-side
// session state to invalidate.
func (c *Client) Logout() error {
	return c.credentials.Clear()
}
