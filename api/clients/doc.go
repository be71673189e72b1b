/*
Package clients provides an HTTP client for the backend's admin API.

AdminClient wraps the three endpoints the deployment helpers need:

  - Login - POST /admin/auth/token, exchanges email/password for a bearer token
  - CreatePublishableKey - POST /admin/publishable-api-keys with the bearer token
  - Health - GET /health, healthy only on HTTP 200

Failures are classified with the sentinel errors from the interfaces package:
login failures wrap interfaces.ErrAuth and key creation failures wrap
interfaces.ErrProvision, so callers can use errors.Is.

# Example Usage

	adminClient := clients.NewAdminClient("https://api.shop.example", nil)

	token, err := adminClient.Login(ctx, interfaces.Credential{Email: email, Password: password})
	if err != nil {
	    return err
	}

	key, err := adminClient.CreatePublishableKey(ctx, token, "Storefront Key")
*/
package clients
