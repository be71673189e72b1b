// Package credentials resolves the admin credential used by the key
// provisioner. Environment values win; a Vault KV v2 secret can fill in
// whatever the environment leaves out.
package credentials
