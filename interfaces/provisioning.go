package interfaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrMissingConfig is returned when a required setting is absent.
	// It is raised before any network call is attempted.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrAuth is returned when the admin login fails: bad credentials,
	// an unreachable backend, or a response without an access token.
	ErrAuth = errors.New("admin authentication failed")

	// ErrProvision is returned when the publishable key request fails
	// after a successful login.
	ErrProvision = errors.New("publishable key creation failed")

	// ErrHealthTimeout is returned when the backend does not report healthy
	// within the health check retry budget.
	ErrHealthTimeout = errors.New("backend failed to become healthy within timeout period")
)

// Credential is the admin email/password pair used for a single login call.
type Credential struct {
	Email    string
	Password string
}

// String never includes the password.
func (c Credential) String() string {
	return fmt.Sprintf("Credential{Email: %q, Password: %s}", c.Email, redacted(c.Password))
}

// LogValue implements slog.LogValuer so a Credential can be logged safely.
func (c Credential) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", c.Email),
		slog.String("password", redacted(c.Password)),
	)
}

func redacted(s string) string {
	if s == "" {
		return "<empty>"
	}
	return "<redacted>"
}

// ProvisionedKey describes a publishable API key issued by the backend.
type ProvisionedKey struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// KeyProvisioner creates a publishable key on a running backend.
type KeyProvisioner interface {
	// CreateKey logs in with the given credential and returns the new key id.
	CreateKey(ctx context.Context, backendURL, email, password string) (string, error)
}

// HealthChecker performs a single readiness probe against the backend.
type HealthChecker interface {
	// Check returns true when the backend answered HTTP 200.
	Check(ctx context.Context) (bool, error)
}

// CredentialSource resolves the admin credential from an external store.
type CredentialSource interface {
	Credential(ctx context.Context) (Credential, error)
}
