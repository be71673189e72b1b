package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ruteri/medusa-provisioning/interfaces"
)

const (
	authTokenPath       = "/admin/auth/token"
	publishableKeysPath = "/admin/publishable-api-keys"
	healthPath          = "/health"
)

// AdminClient talks to the backend's admin API.
// It handles login, bearer authentication and response parsing.
type AdminClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAdminClient creates a new admin client for the backend at baseURL.
//
// Parameters:
//   - baseURL: The public base URL of the backend (e.g., "https://api.shop.example")
//   - httpClient: HTTP client to use; nil selects http.DefaultClient
//
// Returns:
//   - Configured AdminClient instance
func NewAdminClient(baseURL string, httpClient *http.Client) *AdminClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &AdminClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *AdminClient) BaseURL() string {
	return c.baseURL
}

type authTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type createKeyResponse struct {
	PublishableAPIKey interfaces.ProvisionedKey `json:"publishable_api_key"`
}

// Login exchanges the admin credential for a bearer token.
//
// Returns:
//   - The access token
//   - An error wrapping interfaces.ErrAuth if the backend is unreachable, answers
//     with a non-2xx status, or omits the token
func (c *AdminClient) Login(ctx context.Context, cred interfaces.Credential) (string, error) {
	url := c.baseURL + authTokenPath

	reqJSON, err := json.Marshal(map[string]string{
		"email":    cred.Email,
		"password": cred.Password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request body: %v", interfaces.ErrAuth, err)
	}

	req, err := newJSONRequest(ctx, http.MethodPost, url, reqJSON)
	if err != nil {
		return "", fmt.Errorf("%w: %v", interfaces.ErrAuth, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: login request failed: %v", interfaces.ErrAuth, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: login failed with code %d: %s", interfaces.ErrAuth, resp.StatusCode, string(body))
	}

	var result authTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to parse login response: %v", interfaces.ErrAuth, err)
	}

	if result.AccessToken == "" {
		return "", fmt.Errorf("%w: login response has no access_token", interfaces.ErrAuth)
	}

	return result.AccessToken, nil
}

// CreatePublishableKey creates a publishable API key with the given title.
//
// Parameters:
//   - token: Bearer token obtained from Login
//   - title: Human-readable key title
//
// Returns:
//   - The created key descriptor
//   - An error wrapping interfaces.ErrProvision on failure
func (c *AdminClient) CreatePublishableKey(ctx context.Context, token, title string) (*interfaces.ProvisionedKey, error) {
	url := c.baseURL + publishableKeysPath

	reqJSON, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request body: %v", interfaces.ErrProvision, err)
	}

	req, err := newJSONRequest(ctx, http.MethodPost, url, reqJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrProvision, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: create key request failed: %v", interfaces.ErrProvision, err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: create key failed with code %d: %s", interfaces.ErrProvision, resp.StatusCode, string(body))
	}

	var result createKeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to parse create key response: %v", interfaces.ErrProvision, err)
	}

	if result.PublishableAPIKey.ID == "" {
		return nil, fmt.Errorf("%w: create key response has no publishable_api_key.id", interfaces.ErrProvision)
	}

	if result.PublishableAPIKey.Title == "" {
		result.PublishableAPIKey.Title = title
	}

	return &result.PublishableAPIKey, nil
}

// Health performs one GET against the backend health endpoint.
// Only HTTP 200 counts as healthy; transport errors are returned as-is.
func (c *AdminClient) Health(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// Check implements interfaces.HealthChecker.
func (c *AdminClient) Check(ctx context.Context) (bool, error) {
	return c.Health(ctx)
}

func newJSONRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
