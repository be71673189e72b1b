// Package main (cmd/create-publishable-key) creates a publishable API key on
// a running backend.
//
// It logs in with MEDUSA_ADMIN_EMAIL / MEDUSA_ADMIN_PASSWORD against
// BACKEND_PUBLIC_URL, creates a key and prints the storefront variable to
// set. Missing admin credentials can be read from a Vault KV v2 secret
// (VAULT_ADDR, VAULT_TOKEN, MEDUSA_ADMIN_VAULT_PATH).
//
// Exit status is 0 on success and 1 on missing configuration, failed login
// or failed key creation.
//
// Example:
//
//	BACKEND_PUBLIC_URL=https://api.shop.example \
//	MEDUSA_ADMIN_EMAIL=admin@shop.example \
//	MEDUSA_ADMIN_PASSWORD=... \
//	create-publishable-key
package main
