package client

import (
	"context"
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// SessionClient resolves a session token issued by the identity provider.
type SessionClient struct {
	base *Client
}

func NewSessionClient(base *Client) *SessionClient {
	return &SessionClient{base: base}
}

// Current returns the signed-in user, or nil when the token is missing or
// no longer accepted.
func (c *SessionClient) Current(ctx context.Context, token string) (*session.User, error) {
	if token == "" {
		return nil, nil
	}
	var body struct {
		User *session.User `json:"user"`
	}
	if err := c.base.doJSON(ctx, http.MethodGet, "/session", "", sessionHeader(token), nil, &body); err != nil {
		return nil, err
	}
	if body.User != nil {
		body.User.Role = session.NormalizeRole(string(body.User.Role))
	}
	return body.User, nil
}

func (c *SessionClient) Logout(ctx context.Context, token string) error {
	return c.base.doJSON(ctx, http.MethodPost, "/session/logout", "", sessionHeader(token), nil, nil)
}

func sessionHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Cookie", (&http.Cookie{Name: session.CookieName, Value: token}).String())
	}
	return h
}
