// Package integration manages the connection to the Honor Health platform.
//
// With OAuth credentials configured the connection is an authorization-code
// flow whose token is kept in the store. Without them connecting only flips
// the stored connection flag.
package integration

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var (
	ErrNotConfigured = errors.New("honor health integration is not configured")
	ErrInvalidState  = errors.New("state invalid")
	ErrMissingCode   = errors.New("code not found")
)

// Config holds the OAuth client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	StateToken   string
	Scopes       []string
}

// Connector connects and disconnects the integration.
type Connector struct {
	oauth *oauth2.Config
	state string
	app   *app.State
	store *storage.Adapter
	log   logrus.FieldLogger
}

// New returns a Connector. OAuth is only used when a client ID and both
// endpoints are set.
func New(cfg Config, st *app.State, store *storage.Adapter, log logrus.FieldLogger) *Connector {
	c := &Connector{state: cfg.StateToken, app: st, store: store, log: log}
	if cfg.ClientID != "" && cfg.AuthURL != "" && cfg.TokenURL != "" {
		c.oauth = &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
			RedirectURL: cfg.RedirectURL,
			Scopes:      cfg.Scopes,
		}
	}
	return c
}

// Configured reports whether the OAuth flow is available.
func (c *Connector) Configured() bool {
	return c.oauth != nil
}

// AuthURL returns the consent page URL carrying state.
func (c *Connector) AuthURL(state string) (string, error) {
	if c.oauth == nil {
		return "", ErrNotConfigured
	}
	return c.oauth.AuthCodeURL(state), nil
}

// Connect starts a connection. It returns the URL the user must visit, or ""
// when the integration is connected straight away.
func (c *Connector) Connect(ctx context.Context) (string, error) {
	if c.oauth == nil {
		c.app.SetConnection(ctx, true)
		c.log.Info("honor health connected")
		return "", nil
	}
	if tok := c.store.LoadHonorHealthToken(ctx); tok != nil && tok.AccessToken != "" {
		c.app.SetConnection(ctx, true)
		return "", nil
	}
	u, err := c.AuthURL(c.state)
	if err != nil {
		return "", err
	}
	c.log.WithField("url", u).Info("redirecting to honor health auth")
	return u, nil
}

// ValidState reports whether state matches the configured state token.
func (c *Connector) ValidState(state string) bool {
	return state != "" && subtle.ConstantTimeCompare([]byte(state), []byte(c.state)) == 1
}

// Complete exchanges an authorization code, stores the token and marks the
// integration connected.
func (c *Connector) Complete(ctx context.Context, code string) error {
	if c.oauth == nil {
		return ErrNotConfigured
	}
	if code == "" {
		return ErrMissingCode
	}
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("token exchange: %w", err)
	}
	c.store.SaveHonorHealthToken(ctx, tok)
	c.app.SetConnection(ctx, true)
	c.log.Info("honor health connected")
	return nil
}

// Disconnect forgets the token and clears the connection flag.
func (c *Connector) Disconnect(ctx context.Context) {
	c.store.ClearHonorHealthToken(ctx)
	c.app.SetConnection(ctx, false)
	c.log.Info("honor health disconnected")
}
