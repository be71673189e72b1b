package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"
	"github.com/ruteri/medusa-provisioning/interfaces"
)

// VaultSource reads the admin credential from a Vault KV v2 secret with
// "email" and "password" fields.
type VaultSource struct {
	client     *api.Client
	mountPath  string
	secretPath string
	log        *slog.Logger
}

// NewVaultSource creates a Vault credential source.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - token: Vault token used for the read
//   - path: "<mount>/<secret path>", e.g. "secret/medusa/admin"
//   - log: Structured logger
func NewVaultSource(address, token, path string, log *slog.Logger) (*VaultSource, error) {
	mountPath, secretPath, err := splitSecretPath(path)
	if err != nil {
		return nil, err
	}

	config := api.DefaultConfig()
	config.Address = address
	config.HttpClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	return &VaultSource{
		client:     client,
		mountPath:  mountPath,
		secretPath: secretPath,
		log:        log,
	}, nil
}

// Credential fetches the credential from Vault.
func (s *VaultSource) Credential(ctx context.Context) (interfaces.Credential, error) {
	secret, err := s.client.KVv2(s.mountPath).Get(ctx, s.secretPath)
	if err != nil {
		s.log.Error("Failed to read admin credential from Vault",
			slog.String("mount", s.mountPath),
			slog.String("path", s.secretPath),
			"err", err)
		return interfaces.Credential{}, fmt.Errorf("could not read admin credential from vault: %w", err)
	}

	email, _ := secret.Data["email"].(string)
	password, _ := secret.Data["password"].(string)

	cred := interfaces.Credential{Email: email, Password: password}
	s.log.Debug("Read admin credential from Vault", "credential", cred)
	return cred, nil
}

func splitSecretPath(path string) (string, string, error) {
	path = strings.Trim(path, "/")
	mount, rest, found := strings.Cut(path, "/")
	if !found || mount == "" || rest == "" {
		return "", "", errors.New("vault secret path must be of the form <mount>/<path>")
	}
	return mount, rest, nil
}
