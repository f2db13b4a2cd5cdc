package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mdstudio/mdstudio-cli/internal/cli/auth"
	"github.com/mdstudio/mdstudio-cli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecret(id string) (string, error) {
	s, ok := f[id]
	if !ok {
		return "", errors.New("element not found")
	}
	return s, nil
}

func TestTokenSource_None(t *testing.T) {
	ts, err := auth.TokenSource(context.Background(), config.Profile{ID: "a"}, nil)
	require.NoError(t, err)
	assert.Nil(t, ts)
}

func TestTokenSource_Static(t *testing.T) {
	p := config.Profile{ID: "a", AuthMode: config.AuthToken, Token: "abc"}
	ts, err := auth.TokenSource(context.Background(), p, nil)
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok.AccessToken)
}

func TestTokenSource_Keychain(t *testing.T) {
	secrets := fakeSecrets{"cluster": "from-keychain", "empty": ""}

	ts, err := auth.TokenSource(context.Background(), config.Profile{ID: "cluster", AuthMode: config.AuthKeychain}, secrets)
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "from-keychain", tok.AccessToken)

	_, err = auth.TokenSource(context.Background(), config.Profile{ID: "empty", AuthMode: config.AuthKeychain}, secrets)
	assert.ErrorIs(t, err, auth.ErrNoToken)

	_, err = auth.TokenSource(context.Background(), config.Profile{ID: "missing", AuthMode: config.AuthKeychain}, secrets)
	assert.ErrorContains(t, err, "keychain lookup")
}

func TestTokenSource_ClientCredentials(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"cc-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer idp.Close()

	p := config.Profile{
		ID:           "oauth",
		AuthMode:     config.AuthOAuth2,
		ClientID:     "cli",
		ClientSecret: "secret",
		TokenURL:     idp.URL,
	}
	ts, err := auth.TokenSource(context.Background(), p, nil)
	require.NoError(t, err)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "cc-token", tok.AccessToken)
}

func TestHTTPClient_SetsBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	p := config.Profile{ID: "a", AuthMode: config.AuthToken, Token: "abc"}
	ts, err := auth.TokenSource(context.Background(), p, nil)
	require.NoError(t, err)

	resp, err := auth.HTTPClient(context.Background(), ts).Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer abc", got)
}
