// Package identity wraps the Firebase identity provider: account creation and
// token verification through the Admin SDK, and email/password sign-in
// through the Identity Toolkit REST endpoint (the Admin SDK has no password
// sign-in).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
)

const defaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Session is what the Identity Toolkit endpoint hands back on a successful
// password sign-in.
type Session struct {
	UID          string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// Client talks to the identity provider.
type Client struct {
	auth       *auth.Client
	apiKey     string
	signInURL  string
	httpClient *http.Client
}

// New builds a Client from the shared Firebase app and the web API key used
// by the REST sign-in endpoint.
func New(app *firebase.App, apiKey string) (*Client, error) {
	authClient, err := app.Auth(context.Background())
	if err != nil {
		return nil, err
	}
	return &Client{
		auth:       authClient,
		apiKey:     apiKey,
		signInURL:  defaultSignInURL,
		httpClient: http.DefaultClient,
	}, nil
}

// VerifyToken decodes an ID token and gives the account UID.
func (c *Client) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := c.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

// CreateAccount registers a new email/password account and gives its UID.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(email).Password(password)
	record, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}
	return record.UID, nil
}

// DeleteAccount removes an account. Used to compensate when the claim
// binding fails after the account was created.
func (c *Client) DeleteAccount(ctx context.Context, uid string) error {
	return c.auth.DeleteUser(ctx, uid)
}

// SignIn exchanges email/password for a session. The provider's error
// message is surfaced verbatim; there is no retry.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?key=%s", c.signInURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error.Message == "" {
			return nil, fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
		}
		return nil, errors.New(failure.Error.Message)
	}

	session := &Session{}
	if err := json.NewDecoder(resp.Body).Decode(session); err != nil {
		return nil, err
	}
	return session, nil
}
