package common

// Version is set at build time via -ldflags.
var Version = "dev"

// PackageName prefixes the Prometheus metric names.
const PackageName = "medusa_provisioning"
