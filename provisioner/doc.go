/*
Package provisioner mints a publishable API key on a running backend.

The sequence is fixed: log into the admin API with the admin credential,
then create a key titled DefaultKeyTitle with the returned bearer token.
Errors are classified with interfaces.ErrAuth and interfaces.ErrProvision;
nothing is retried here.

Settings are assembled once by the calling binary. Validate reports the first
missing value as interfaces.ErrMissingConfig, in the order BACKEND_PUBLIC_URL,
MEDUSA_ADMIN_EMAIL, MEDUSA_ADMIN_PASSWORD.

The guidance helpers print the operator-facing messages: the key itself on
success, troubleshooting steps on failure, and manual recovery steps for the
orchestrator.
*/
package provisioner
