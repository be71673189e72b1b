package flags

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/medusa-provisioning/common"
	"github.com/ruteri/medusa-provisioning/credentials"
	"github.com/ruteri/medusa-provisioning/httpserver"
	"github.com/ruteri/medusa-provisioning/interfaces"
	"github.com/ruteri/medusa-provisioning/orchestrator"
	"github.com/ruteri/medusa-provisioning/preflight"
	"github.com/ruteri/medusa-provisioning/provisioner"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlagName)
	logDebug := cCtx.Bool(LogDebugFlagName)
	logUID := cCtx.Bool(LogUidFlagName)
	logService := cCtx.String(LogServiceFlagName)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
		Output:  cCtx.App.ErrWriter,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ProvisionerSettings reads the key provisioner settings from the flags.
// This is the only place the backend URL and admin credential are read.
func ProvisionerSettings(cCtx *cli.Context) provisioner.Settings {
	return provisioner.Settings{
		BackendURL: cCtx.String(BackendURLFlagName),
		Credential: interfaces.Credential{
			Email:    cCtx.String(AdminEmailFlagName),
			Password: cCtx.String(AdminPasswordFlagName),
		},
		KeyTitle: cCtx.String(KeyTitleFlagName),
	}
}

// CredentialSource returns the Vault credential source, or nil when Vault
// is not configured.
func CredentialSource(cCtx *cli.Context, log *slog.Logger) (interfaces.CredentialSource, error) {
	addr := cCtx.String(VaultAddrFlagName)
	path := cCtx.String(VaultPathFlagName)
	if addr == "" || path == "" {
		return nil, nil
	}

	source, err := credentials.NewVaultSource(addr, cCtx.String(VaultTokenFlagName), path, log)
	if err != nil {
		return nil, err
	}
	return source, nil
}

// ResolveSettings builds and validates the provisioner settings. The backend
// URL is checked first, before any credential lookup can touch the network;
// missing admin credentials are then filled from Vault when it is configured.
func ResolveSettings(ctx context.Context, cCtx *cli.Context, log *slog.Logger) (provisioner.Settings, error) {
	settings := ProvisionerSettings(cCtx)
	if err := settings.ValidateBackendURL(); err != nil {
		return settings, err
	}

	source, err := CredentialSource(cCtx, log)
	if err != nil {
		return settings, err
	}

	settings.Credential, err = credentials.Resolve(ctx, settings.Credential, source)
	if err != nil {
		return settings, err
	}

	return settings, settings.Validate()
}

// OrchestratorConfig reads the orchestrator timings from the flags.
func OrchestratorConfig(cCtx *cli.Context, settings provisioner.Settings) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.BackendURL = settings.BackendURL
	cfg.Credential = settings.Credential
	cfg.GracePeriod = cCtx.Duration(GracePeriodFlagName)
	cfg.PollInterval = cCtx.Duration(PollIntervalFlagName)
	cfg.MaxHealthAttempts = cCtx.Int(MaxHealthAttemptsFlagName)
	cfg.SettleDelay = cCtx.Duration(SettleDelayFlagName)
	cfg.KeyTitle = settings.KeyTitle
	return cfg
}

// BackendCommand splits the backend command line on whitespace.
func BackendCommand(cCtx *cli.Context) []string {
	return strings.Fields(cCtx.String(BackendCommandFlagName))
}

func ConfigureStatusServer(cCtx *cli.Context, logger *slog.Logger) *httpserver.HTTPServerConfig {
	return &httpserver.HTTPServerConfig{
		ListenAddr:               cCtx.String(StatusAddrFlagName),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlagName),
		GracefulShutdownDuration: 5 * time.Second,
		ReadTimeout:              10 * time.Second,
		WriteTimeout:             10 * time.Second,
	}
}

// ExitCode maps an error returned by App.Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		return exitCoder.ExitCode()
	}
	return 1
}

// Flag names, for reading values back from a *cli.Context.
const (
	BackendURLFlagName        = "backend-url"
	AdminEmailFlagName        = "admin-email"
	AdminPasswordFlagName     = "admin-password"
	KeyTitleFlagName          = "key-title"
	VaultAddrFlagName         = "vault-addr"
	VaultTokenFlagName        = "vault-token"
	VaultPathFlagName         = "vault-path"
	GracePeriodFlagName       = "grace-period"
	PollIntervalFlagName      = "health-interval"
	MaxHealthAttemptsFlagName = "health-max-attempts"
	SettleDelayFlagName       = "settle-delay"
	BackendCommandFlagName    = "backend-command"
	StatusAddrFlagName        = "status-addr"
	PreflightFlagName         = "preflight"
	DNSResolverFlagName       = "dns-resolver"
	NodeEnvFlagName           = "node-env"
	EnvDirFlagName            = "env-dir"
	LogJsonFlagName           = "log-json"
	LogDebugFlagName          = "log-debug"
	LogUidFlagName            = "log-uid"
	LogServiceFlagName        = "log-service"
	PprofFlagName             = "pprof"
)

// The flag constructors below return a new flag on every call. urfave/cli
// stores parsed and environment values on the flag itself, so a flag must
// never be shared between two App runs.

func BackendURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    BackendURLFlagName,
		EnvVars: []string{provisioner.EnvBackendURL},
		Usage:   "public URL of the backend, e.g. https://api.shop.example",
	}
}

func AdminEmailFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    AdminEmailFlagName,
		EnvVars: []string{provisioner.EnvAdminEmail},
		Usage:   "admin account email",
	}
}

func AdminPasswordFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    AdminPasswordFlagName,
		EnvVars: []string{provisioner.EnvAdminPassword},
		Usage:   "admin account password",
	}
}

func KeyTitleFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  KeyTitleFlagName,
		Value: provisioner.DefaultKeyTitle,
		Usage: "title of the created publishable key",
	}
}

func VaultAddrFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    VaultAddrFlagName,
		EnvVars: []string{"VAULT_ADDR"},
		Usage:   "Vault address to read missing admin credentials from",
	}
}

func VaultTokenFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    VaultTokenFlagName,
		EnvVars: []string{"VAULT_TOKEN"},
		Usage:   "Vault token",
	}
}

func VaultPathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    VaultPathFlagName,
		EnvVars: []string{"MEDUSA_ADMIN_VAULT_PATH"},
		Usage:   "KV v2 secret holding the admin email and password, as <mount>/<path>",
	}
}

// CredentialFlags returns the flags read by ResolveSettings.
func CredentialFlags() []cli.Flag {
	return []cli.Flag{
		BackendURLFlag(),
		AdminEmailFlag(),
		AdminPasswordFlag(),
		KeyTitleFlag(),
		VaultAddrFlag(),
		VaultTokenFlag(),
		VaultPathFlag(),
	}
}

func GracePeriodFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    GracePeriodFlagName,
		EnvVars: []string{"STARTUP_GRACE_PERIOD"},
		Value:   orchestrator.DefaultGracePeriod,
		Usage:   "delay between starting the backend and the first health check",
	}
}

func PollIntervalFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    PollIntervalFlagName,
		EnvVars: []string{"HEALTH_POLL_INTERVAL"},
		Value:   orchestrator.DefaultPollInterval,
		Usage:   "delay between health checks",
	}
}

func MaxHealthAttemptsFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    MaxHealthAttemptsFlagName,
		EnvVars: []string{"HEALTH_MAX_ATTEMPTS"},
		Value:   orchestrator.DefaultMaxHealthAttempts,
		Usage:   "number of health checks before giving up on key creation",
	}
}

func SettleDelayFlag() *cli.DurationFlag {
	return &cli.DurationFlag{
		Name:    SettleDelayFlagName,
		EnvVars: []string{"PROVISION_SETTLE_DELAY"},
		Value:   orchestrator.DefaultSettleDelay,
		Usage:   "wait after the backend became healthy before creating the key",
	}
}

func BackendCommandFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    BackendCommandFlagName,
		EnvVars: []string{"BACKEND_COMMAND"},
		Value:   "pnpm start",
		Usage:   "command that starts the backend",
	}
}

func StatusAddrFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    StatusAddrFlagName,
		EnvVars: []string{"STATUS_ADDR"},
		Usage:   "address to serve startup status and metrics on, disabled when empty",
	}
}

func PreflightFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    PreflightFlagName,
		EnvVars: []string{"PREFLIGHT"},
		Usage:   "probe database, cache, DNS and storage before starting and log failures",
	}
}

func DNSResolverFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    DNSResolverFlagName,
		EnvVars: []string{"DNS_RESOLVER"},
		Value:   preflight.DefaultResolver,
		Usage:   "resolver used by the DNS preflight probe",
	}
}

func NodeEnvFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    NodeEnvFlagName,
		EnvVars: []string{"NODE_ENV"},
		Usage:   "environment name selecting the env file (production, staging, test)",
	}
}

func EnvDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  EnvDirFlagName,
		Value: ".",
		Usage: "directory containing the env files",
	}
}

func LogServiceFlag(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  LogServiceFlagName,
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

func PprofFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  PprofFlagName,
		Value: false,
		Usage: "enable pprof debug endpoint on the status server",
	}
}

// CommonFlags returns the logging flags shared by every binary.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    LogJsonFlagName,
			EnvVars: []string{"LOG_JSON"},
			Value:   false,
			Usage:   "log in JSON format",
		},
		&cli.BoolFlag{
			Name:    LogDebugFlagName,
			EnvVars: []string{"LOG_DEBUG"},
			Value:   false,
			Usage:   "log debug messages",
		},
		&cli.BoolFlag{
			Name:  LogUidFlagName,
			Value: false,
			Usage: "generate a uuid and add to all log messages",
		},
	}
}

// AppFlags concatenates flag groups into a new slice.
func AppFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
