package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruteri/medusa-provisioning/api/clients"
	"github.com/ruteri/medusa-provisioning/cmd/flags"
	"github.com/ruteri/medusa-provisioning/config"
	"github.com/ruteri/medusa-provisioning/httpserver"
	"github.com/ruteri/medusa-provisioning/orchestrator"
	"github.com/ruteri/medusa-provisioning/preflight"
	"github.com/ruteri/medusa-provisioning/provisioner"
	"github.com/urfave/cli/v2"
)

func startupFlags() []cli.Flag {
	return []cli.Flag{
		flags.GracePeriodFlag(),
		flags.PollIntervalFlag(),
		flags.MaxHealthAttemptsFlag(),
		flags.SettleDelayFlag(),
		flags.BackendCommandFlag(),
		flags.StatusAddrFlag(),
		flags.PprofFlag(),
		flags.PreflightFlag(),
		flags.DNSResolverFlag(),
		flags.LogServiceFlag("startup-with-key"),
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:           "startup-with-key",
		Usage:          "Start the backend and create a publishable key once it is healthy",
		Flags:          flags.AppFlags(startupFlags(), flags.CredentialFlags(), flags.CommonFlags()),
		Writer:         stdout,
		ErrWriter:      stderr,
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			settings, err := flags.ResolveSettings(ctx, cCtx, logger)
			if err != nil {
				logger.Error("Invalid configuration", "err", err)
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", 1)
			}

			if cCtx.Bool(flags.PreflightFlagName) {
				probes := preflight.Probes(config.Load(nil), settings.BackendURL, cCtx.String(flags.DNSResolverFlagName))
				report := preflight.Run(ctx, probes, preflight.DefaultTimeout, logger)
				if !report.OK {
					logger.Warn("Preflight checks failed, starting backend anyway", "failed", len(report.Failed()))
				}
			}

			launcher := &orchestrator.CommandLauncher{
				Command: flags.BackendCommand(cCtx),
				Stdout:  stdout,
				Stderr:  stderr,
			}
			o := orchestrator.New(
				flags.OrchestratorConfig(cCtx, settings),
				logger,
				launcher,
				clients.NewAdminClient(settings.BackendURL, nil),
				provisioner.New(logger, nil, settings.KeyTitle),
				orchestrator.WithOutput(stdout),
			)

			if cCtx.String(flags.StatusAddrFlagName) != "" {
				statusServer := httpserver.New(flags.ConfigureStatusServer(cCtx, logger), o)
				if err := statusServer.Start(); err != nil {
					logger.Error("Failed to start status server", "err", err)
					return cli.Exit("", 1)
				}
				defer statusServer.Shutdown()
			}

			code, err := o.Run(ctx)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return cli.Exit("", 1)
			}
			if code != 0 {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		os.Exit(flags.ExitCode(err))
	}
}
