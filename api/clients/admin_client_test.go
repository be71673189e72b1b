package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCred = interfaces.Credential{Email: "admin@shop.example", Password: "s3cret"}

func TestAdminClient_LoginAndCreateKey(t *testing.T) {
	backend := NewMockBackend(testCred.Email, testCred.Password)
	defer backend.Close()

	client := NewAdminClient(backend.URL()+"/", nil)
	assert.Equal(t, backend.URL(), client.BaseURL())

	token, err := client.Login(context.Background(), testCred)
	require.NoError(t, err)
	assert.Equal(t, backend.Token, token)

	key, err := client.CreatePublishableKey(context.Background(), token, "Storefront Key")
	require.NoError(t, err)
	assert.Equal(t, backend.KeyID, key.ID)
	assert.Equal(t, "Storefront Key", key.Title)

	assert.Equal(t, "Bearer "+backend.Token, backend.LastAuthorization())
	assert.Equal(t, []string{"Storefront Key"}, backend.KeyTitles())
}

func TestAdminClient_LoginWrongPassword(t *testing.T) {
	backend := NewMockBackend(testCred.Email, testCred.Password)
	defer backend.Close()

	client := NewAdminClient(backend.URL(), nil)
	_, err := client.Login(context.Background(), interfaces.Credential{Email: testCred.Email, Password: "wrong"})

	require.ErrorIs(t, err, interfaces.ErrAuth)
	assert.ErrorContains(t, err, "code 401")
}

func TestAdminClient_LoginMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{}}`))
	}))
	defer srv.Close()

	_, err := NewAdminClient(srv.URL, nil).Login(context.Background(), testCred)
	require.ErrorIs(t, err, interfaces.ErrAuth)
	assert.ErrorContains(t, err, "no access_token")
}

func TestAdminClient_LoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewAdminClient(url, nil).Login(context.Background(), testCred)
	require.ErrorIs(t, err, interfaces.ErrAuth)
}

func TestAdminClient_CreateKeyFailure(t *testing.T) {
	backend := NewMockBackend(testCred.Email, testCred.Password)
	backend.CreateStatus = http.StatusInternalServerError
	defer backend.Close()

	client := NewAdminClient(backend.URL(), nil)
	token, err := client.Login(context.Background(), testCred)
	require.NoError(t, err)

	_, err = client.CreatePublishableKey(context.Background(), token, "Storefront Key")
	require.ErrorIs(t, err, interfaces.ErrProvision)
	assert.NotErrorIs(t, err, interfaces.ErrAuth)
	assert.ErrorContains(t, err, "code 500")
}

func TestAdminClient_CreateKeyMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"publishable_api_key":{}}`))
	}))
	defer srv.Close()

	_, err := NewAdminClient(srv.URL, nil).CreatePublishableKey(context.Background(), "token", "title")
	require.ErrorIs(t, err, interfaces.ErrProvision)
}

func TestAdminClient_Health(t *testing.T) {
	backend := NewMockBackend(testCred.Email, testCred.Password)
	backend.HealthyAfter = 1
	defer backend.Close()

	client := NewAdminClient(backend.URL(), nil)

	ok, err := client.Check(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = client.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	assert.EqualValues(t, 2, backend.HealthChecks.Load())
}
