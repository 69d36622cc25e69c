package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jarcoal/httpmock"
	"github.com/lildude/fitpal/internal/app"
	"github.com/lildude/fitpal/internal/cache"
	"github.com/lildude/fitpal/internal/storage"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const tokenURL = "https://health.example.com/oauth/token"

var oauthConfig = Config{
	ClientID:     "client",
	ClientSecret: "secret",
	RedirectURL:  "http://localhost:8080/integration/callback",
	AuthURL:      "https://health.example.com/oauth/authorize",
	TokenURL:     tokenURL,
	StateToken:   "test-state-token",
	Scopes:       []string{"activity:write"},
}

func setup(t *testing.T, cfg Config) (*Connector, *app.State, *storage.Adapter) {
	t.Helper()
	r := miniredis.RunT(t)
	c, err := cache.NewRedisCache(context.Background(), fmt.Sprintf("redis://%s", r.Addr()), cache.DefaultPrefix)
	if err != nil {
		t.Fatal(err)
	}
	log, _ := logtest.NewNullLogger()
	store := storage.NewAdapter(c, log)
	st := app.Load(context.Background(), store, log)
	return New(cfg, st, store, log), st, store
}

func TestConnectWithoutOAuthTogglesFlag(t *testing.T) {
	ctx := context.Background()
	c, st, store := setup(t, Config{})

	if c.Configured() {
		t.Fatal("expected connector without client ID to be unconfigured")
	}
	u, err := c.Connect(ctx)
	if err != nil || u != "" {
		t.Fatalf("expected immediate connection, got %q, %v", u, err)
	}
	if !st.Snapshot().Connected || !store.LoadHonorHealthConnectionStatus(ctx) {
		t.Error("expected connection flag to be set")
	}
	if err := c.Complete(ctx, "code"); err != ErrNotConfigured {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	c.Disconnect(ctx)
	if store.LoadHonorHealthConnectionStatus(ctx) {
		t.Error("expected connection flag to be cleared")
	}
}

func TestConnectReturnsAuthURL(t *testing.T) {
	c, st, _ := setup(t, oauthConfig)

	u, err := c.Connect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatal(err)
	}
	q := parsed.Query()
	if parsed.Host != "health.example.com" || q.Get("state") != "test-state-token" || q.Get("client_id") != "client" {
		t.Errorf("unexpected auth URL %s", u)
	}
	if st.Snapshot().Connected {
		t.Error("expected not to be connected before the callback")
	}
}

func TestValidState(t *testing.T) {
	c, _, _ := setup(t, oauthConfig)

	tests := []struct {
		state string
		want  bool
	}{
		{"test-state-token", true},
		{"invalid-state", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := c.ValidState(tc.state); got != tc.want {
			t.Errorf("ValidState(%q): expected %v, got %v", tc.state, tc.want, got)
		}
	}
}

func TestComplete(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", tokenURL,
		httpmock.NewStringResponder(200, `{"access_token":"123456789","token_type":"Bearer","refresh_token":"987654321","expires_in":3600}`))

	ctx := context.Background()
	c, st, store := setup(t, oauthConfig)

	if err := c.Complete(ctx, ""); err != ErrMissingCode {
		t.Errorf("expected ErrMissingCode, got %v", err)
	}
	if err := c.Complete(ctx, "test-code"); err != nil {
		t.Fatal(err)
	}

	tok := store.LoadHonorHealthToken(ctx)
	if tok == nil || tok.AccessToken != "123456789" || tok.RefreshToken != "987654321" {
		t.Errorf("unexpected stored token %+v", tok)
	}
	if !st.Snapshot().Connected {
		t.Error("expected to be connected")
	}

	// A stored token short-circuits the redirect.
	st.SetConnection(ctx, false)
	u, err := c.Connect(ctx)
	if err != nil || u != "" {
		t.Errorf("expected reconnect without redirect, got %q, %v", u, err)
	}

	c.Disconnect(ctx)
	if store.LoadHonorHealthToken(ctx) != nil {
		t.Error("expected token to be removed")
	}
	if st.Snapshot().Connected {
		t.Error("expected to be disconnected")
	}
}

func TestCompleteExchangeFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", tokenURL,
		httpmock.NewStringResponder(http.StatusBadRequest, `{"error":"invalid_grant"}`))

	ctx := context.Background()
	c, st, store := setup(t, oauthConfig)

	if err := c.Complete(ctx, "bad-code"); err == nil {
		t.Fatal("expected exchange error")
	}
	if store.LoadHonorHealthToken(ctx) != nil || st.Snapshot().Connected {
		t.Error("expected state to be untouched")
	}
}
