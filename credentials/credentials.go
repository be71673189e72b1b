package credentials

import (
	"context"

	"github.com/ruteri/medusa-provisioning/interfaces"
)

// Complete reports whether both credential fields are set.
func Complete(cred interfaces.Credential) bool {
	return cred.Email != "" && cred.Password != ""
}

// Resolve returns cred unchanged when it is complete or when source is nil.
// Otherwise the missing fields are filled from source; fields already set
// take precedence over the stored ones.
func Resolve(ctx context.Context, cred interfaces.Credential, source interfaces.CredentialSource) (interfaces.Credential, error) {
	if Complete(cred) || source == nil {
		return cred, nil
	}

	stored, err := source.Credential(ctx)
	if err != nil {
		return cred, err
	}

	if cred.Email == "" {
		cred.Email = stored.Email
	}
	if cred.Password == "" {
		cred.Password = stored.Password
	}
	return cred, nil
}
