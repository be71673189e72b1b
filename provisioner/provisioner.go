package provisioner

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ruteri/medusa-provisioning/api/clients"
	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/ruteri/medusa-provisioning/metrics"
)

// DefaultKeyTitle is the title given to keys created by the provisioner.
const DefaultKeyTitle = "Storefront Key (Auto-generated)"

// Environment variables the key provisioner is configured from.
const (
	EnvBackendURL    = "BACKEND_PUBLIC_URL"
	EnvAdminEmail    = "MEDUSA_ADMIN_EMAIL"
	EnvAdminPassword = "MEDUSA_ADMIN_PASSWORD"
)

// Settings is the key provisioner configuration, built once by the caller.
type Settings struct {
	BackendURL string
	Credential interfaces.Credential
	KeyTitle   string
}

// ValidateBackendURL checks only the backend URL. It runs before anything
// that could reach the network, including credential lookups.
func (s Settings) ValidateBackendURL() error {
	if s.BackendURL == "" {
		return missing(EnvBackendURL)
	}
	return nil
}

// Validate checks the required settings in a fixed order.
func (s Settings) Validate() error {
	if err := s.ValidateBackendURL(); err != nil {
		return err
	}
	if s.Credential.Email == "" {
		return missing(EnvAdminEmail)
	}
	if s.Credential.Password == "" {
		return missing(EnvAdminPassword)
	}
	return nil
}

func missing(env string) error {
	return fmt.Errorf("%w: %s environment variable is required", interfaces.ErrMissingConfig, env)
}

// Provisioner logs into the admin API and creates a publishable key.
type Provisioner struct {
	httpClient *http.Client
	title      string
	log        *slog.Logger
}

// New creates a Provisioner. A nil httpClient selects http.DefaultClient and
// an empty title selects DefaultKeyTitle.
func New(log *slog.Logger, httpClient *http.Client, title string) *Provisioner {
	if title == "" {
		title = DefaultKeyTitle
	}
	return &Provisioner{
		httpClient: httpClient,
		title:      title,
		log:        log,
	}
}

// CreateKey implements interfaces.KeyProvisioner.
func (p *Provisioner) CreateKey(ctx context.Context, backendURL, email, password string) (string, error) {
	key, err := p.Provision(ctx, backendURL, interfaces.Credential{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	return key.ID, nil
}

// Provision performs the login and key creation calls in sequence.
// There is no retry at this layer.
func (p *Provisioner) Provision(ctx context.Context, backendURL string, cred interfaces.Credential) (*interfaces.ProvisionedKey, error) {
	client := clients.NewAdminClient(backendURL, p.httpClient)
	log := p.log.With("backend", client.BaseURL())

	log.Info("Creating publishable key", "credential", cred)

	token, err := client.Login(ctx, cred)
	if err != nil {
		metrics.KeyRequests.WithLabelValues(metrics.ResultAuthError).Inc()
		log.Error("Admin login failed", "err", err)
		return nil, err
	}

	key, err := client.CreatePublishableKey(ctx, token, p.title)
	if err != nil {
		metrics.KeyRequests.WithLabelValues(metrics.ResultProvisionError).Inc()
		log.Error("Publishable key creation failed", "err", err)
		return nil, err
	}

	metrics.KeyRequests.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("Publishable key created", "keyID", key.ID)
	return key, nil
}
