package supabase

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
	"go.uber.org/zap"

	"nutrilens/application/ports"
	"nutrilens/pkg/errors"
)

// SignUp registers an account. Supabase reports a duplicate unverified
// account by returning a user with an empty identity list; that signal
// is provider-specific and lives only here.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*ports.Account, error) {
	resp, err := c.client.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"name": name},
	})
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			return nil, errors.ErrAccountExists
		}
		return nil, errors.NewAuthError("sign-up rejected").WithCause(err)
	}
	if len(resp.Identities) == 0 {
		return nil, errors.ErrAccountExistsUnverified
	}
	return &ports.Account{
		ID:          resp.ID.String(),
		Email:       resp.Email,
		AccessToken: resp.AccessToken,
	}, nil
}

// SignIn exchanges credentials for a session and persists it for the
// next cold start.
func (c *Client) SignIn(ctx context.Context, email, password string) (*ports.Account, error) {
	session, err := c.client.SignInWithEmailPassword(email, password)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "Invalid login credentials"):
			return nil, errors.ErrInvalidCredentials
		case strings.Contains(msg, "Email not confirmed"):
			return nil, errors.ErrEmailNotConfirmed
		}
		return nil, errors.NewAuthError("sign-in rejected").WithCause(err)
	}

	c.session = session
	c.persistSession()

	return &ports.Account{
		ID:          session.User.ID.String(),
		Email:       session.User.Email,
		AccessToken: session.AccessToken,
	}, nil
}

// SignOut ends the provider session and discards the persisted one.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.client.Auth.WithToken(c.session.AccessToken).Logout()
	c.session = types.Session{}
	c.clearSession()
	if err != nil {
		return errors.NewAuthError("sign-out failed").WithCause(err)
	}
	return nil
}

// CurrentUser resolves the persisted session, if any. An expired or
// rejected token reads as "no session", not as an error the caller must
// handle.
func (c *Client) CurrentUser(ctx context.Context) (*ports.Account, error) {
	if c.session.AccessToken == "" {
		return nil, nil
	}
	user, err := c.client.Auth.WithToken(c.session.AccessToken).GetUser()
	if err != nil {
		c.logger.Debug("persisted session rejected", zap.Error(err))
		c.session = types.Session{}
		c.clearSession()
		return nil, nil
	}
	return &ports.Account{
		ID:          user.ID.String(),
		Email:       user.Email,
		AccessToken: c.session.AccessToken,
	}, nil
}

// persistedSession is what survives between cold starts, the same role
// the web client's local storage plays.
type persistedSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) restoreSession() {
	if c.sessionPath == "" {
		return
	}
	data, err := os.ReadFile(c.sessionPath)
	if err != nil {
		return
	}
	var ps persistedSession
	if err := json.Unmarshal(data, &ps); err != nil {
		return
	}
	c.session.AccessToken = ps.AccessToken
	c.session.RefreshToken = ps.RefreshToken
}

func (c *Client) persistSession() {
	if c.sessionPath == "" {
		return
	}
	data, err := json.Marshal(persistedSession{
		AccessToken:  c.session.AccessToken,
		RefreshToken: c.session.RefreshToken,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.sessionPath), 0o700); err != nil {
		c.logger.Warn("cannot create session directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(c.sessionPath, data, 0o600); err != nil {
		c.logger.Warn("cannot persist session", zap.Error(err))
	}
}

func (c *Client) clearSession() {
	if c.sessionPath == "" {
		return
	}
	os.Remove(c.sessionPath)
}
