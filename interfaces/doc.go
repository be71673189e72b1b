// Package interfaces defines the types and interfaces shared between the
// deployment helpers, separating them from their implementations.
//
// # Interfaces
//
// KeyProvisioner: creates a publishable key on a running backend.
//
// HealthChecker: performs a single readiness probe against the backend.
//
// CredentialSource: resolves the admin credential from an external store
// such as Vault.
//
// # Errors
//
// ErrMissingConfig, ErrAuth, ErrProvision and ErrHealthTimeout classify the
// failures of the startup sequence. Implementations wrap them with %w so
// callers can match with errors.Is.
//
// # Types
//
// Credential never exposes its password through String or slog.
package interfaces
