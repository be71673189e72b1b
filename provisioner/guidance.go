package provisioner

import (
	"fmt"
	"io"
	"strings"

	"github.com/ruteri/medusa-provisioning/interfaces"
)

// StorefrontKeyVar is the storefront variable the key has to be copied to.
const StorefrontKeyVar = "NEXT_PUBLIC_MEDUSA_PUBLISHABLE_KEY"

// AdminURL returns the admin UI location for backendURL.
func AdminURL(backendURL string) string {
	return strings.TrimSuffix(backendURL, "/") + "/app"
}

// PrintSuccess prints the key and where the operator has to copy it.
func PrintSuccess(w io.Writer, key *interfaces.ProvisionedKey) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SUCCESS! Use this publishable key in your storefront:")
	fmt.Fprintf(w, "%s=%s\n", StorefrontKeyVar, key.ID)
	if key.Title != "" {
		fmt.Fprintf(w, "Key title: %s\n", key.Title)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Copy this value to:")
	fmt.Fprintf(w, "1. Storefront build args: %s\n", StorefrontKeyVar)
	fmt.Fprintf(w, "2. Storefront environment: %s\n", StorefrontKeyVar)
	fmt.Fprintln(w, "3. Rebuild your storefront service")
}

// PrintTroubleshooting prints the failure and the steps to fix it.
func PrintTroubleshooting(w io.Writer, backendURL string, err error) {
	fmt.Fprintf(w, "Failed to create publishable key: %v\n", err)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Troubleshooting:")
	fmt.Fprintln(w, "1. Make sure backend is running and accessible")
	fmt.Fprintf(w, "2. Check %s and %s are correct\n", EnvAdminEmail, EnvAdminPassword)
	fmt.Fprintf(w, "3. Try visiting the admin manually: %s\n", AdminURL(backendURL))
}

// PrintManualSteps prints how to create the key by hand after the automatic
// attempt failed. command is the name of the key creation binary.
func PrintManualSteps(w io.Writer, backendURL, command string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manual steps if auto-creation failed:")
	fmt.Fprintf(w, "1. Ensure backend is accessible at: %s\n", backendURL)
	fmt.Fprintf(w, "2. Run manually: %s\n", command)
	fmt.Fprintf(w, "3. Or create via admin UI: %s\n", AdminURL(backendURL))
}
