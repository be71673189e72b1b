package provisioner

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockKeyProvisioner implements interfaces.KeyProvisioner for testing.
type MockKeyProvisioner struct {
	mock.Mock
}

// CreateKey returns whatever the test configured.
func (m *MockKeyProvisioner) CreateKey(ctx context.Context, backendURL, email, password string) (string, error) {
	args := m.Called(ctx, backendURL, email, password)
	return args.String(0), args.Error(1)
}
